package delivery

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/indusnetwork/bridge/internal/dispatch"
	"github.com/indusnetwork/bridge/internal/model"
)

// CommandSink executes one gameplay command. Implementations are only
// ever invoked on the mutation point.
type CommandSink interface {
	Dispatch(command string) error
}

// Remote is the slice of the remote API the processor needs.
type Remote interface {
	PendingDeliveries(ctx context.Context, id model.PlayerID) []model.DeliveryItem
	CompleteDelivery(ctx context.Context, deliveryID string) bool
}

// Roster exposes the live online-player set.
type Roster interface {
	OnlinePlayers() []model.OnlinePlayer
}

// Processor fetches pending store deliveries, executes their embedded
// commands on the mutation point, and acknowledges completion.
//
// Delivery is at-least-once: the remote queue only drops an item after
// a successful acknowledgment, so a crash or failed ack re-delivers the
// item and re-executes its commands on the next sweep. Whatever the
// commands grant must tolerate that. A per-process record of
// acknowledged ids suppresses repeats within one session only.
type Processor struct {
	remote     Remote
	dispatcher *dispatch.Dispatcher
	sink       CommandSink
	roster     Roster
	logger     *slog.Logger

	mu        sync.Mutex
	completed map[string]struct{}
}

// New creates a delivery processor.
func New(remote Remote, dispatcher *dispatch.Dispatcher, sink CommandSink, roster Roster, logger *slog.Logger) *Processor {
	return &Processor{
		remote:     remote,
		dispatcher: dispatcher,
		sink:       sink,
		roster:     roster,
		logger:     logger,
		completed:  make(map[string]struct{}),
	}
}

// CheckDeliveries processes every pending delivery for the player, in
// fetch order (first-fetched, first-executed), and returns how many
// items completed. Items are isolated: one failure does not block the
// rest.
func (p *Processor) CheckDeliveries(ctx context.Context, id model.PlayerID, username string) int {
	items := p.remote.PendingDeliveries(ctx, id)
	if len(items) == 0 {
		return 0
	}

	p.logger.Info("processing pending deliveries",
		slog.String("player_id", string(id)),
		slog.Int("count", len(items)))

	done := 0
	for _, item := range items {
		if p.alreadyCompleted(item.ID) {
			continue
		}
		if p.processItem(ctx, id, username, item) {
			done++
		}
	}
	return done
}

// SweepOnline runs CheckDeliveries for every currently connected player.
func (p *Processor) SweepOnline(ctx context.Context) {
	for _, player := range p.roster.OnlinePlayers() {
		p.CheckDeliveries(ctx, player.ID, player.Username)
	}
}

// processItem executes one delivery's commands in order and acknowledges
// it. Returns true only when every command ran and the remote accepted
// the acknowledgment.
func (p *Processor) processItem(ctx context.Context, id model.PlayerID, username string, item model.DeliveryItem) bool {
	for _, raw := range item.Commands {
		command := substitutePlaceholders(raw, username)

		err := p.dispatcher.SubmitWait(ctx, func() error {
			return p.sink.Dispatch(command)
		})
		if err != nil {
			// Abort this item; it stays pending remotely and is retried
			// on the next sweep.
			p.logger.Warn("delivery command failed",
				slog.String("delivery_id", item.ID),
				slog.String("item_id", item.ItemID),
				slog.String("error", err.Error()))
			return false
		}
	}

	if !p.remote.CompleteDelivery(ctx, item.ID) {
		// Commands already ran; without the ack the item will be
		// re-fetched and re-executed. At-least-once, by contract.
		p.logger.Warn("failed to acknowledge delivery",
			slog.String("delivery_id", item.ID),
			slog.String("item_id", item.ItemID))
		return false
	}

	p.markCompleted(item.ID)
	p.logger.Info("delivery completed",
		slog.String("delivery_id", item.ID),
		slog.String("item_id", item.ItemID),
		slog.String("player_id", string(id)))
	return true
}

func (p *Processor) alreadyCompleted(deliveryID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.completed[deliveryID]
	return ok
}

func (p *Processor) markCompleted(deliveryID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed[deliveryID] = struct{}{}
}

// substitutePlaceholders fills the player-name placeholders the store
// embeds in delivery commands.
func substitutePlaceholders(command, username string) string {
	command = strings.ReplaceAll(command, "{player}", username)
	command = strings.ReplaceAll(command, "{username}", username)
	return command
}
