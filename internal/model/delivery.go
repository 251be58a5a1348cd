package model

// DeliveryStatus tracks the lifecycle of a store delivery.
type DeliveryStatus string

const (
	// DeliveryPending means the delivery has been purchased but its
	// commands have not yet been executed and acknowledged.
	DeliveryPending DeliveryStatus = "pending"
	// DeliveryCompleted means every command executed and the remote
	// service acknowledged completion.
	DeliveryCompleted DeliveryStatus = "completed"
)

// DeliveryItem is a purchased-item grant expressed as a list of deferred
// commands. Items are created remotely when a store purchase occurs and
// remain pending until the engine executes their commands and the remote
// acknowledgment succeeds. Delivery is at-least-once: an item whose
// acknowledgment fails will be re-fetched, and its commands re-executed,
// on the next sweep.
type DeliveryItem struct {
	ID       string         `json:"id"`
	ItemID   string         `json:"item_id"`
	Commands []string       `json:"commands"`
	Status   DeliveryStatus `json:"status"`
}
