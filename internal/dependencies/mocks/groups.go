package mocks

import (
	"context"
	"sync"

	"github.com/indusnetwork/bridge/internal/model"
)

// GroupAdd records one AddGroup call.
type GroupAdd struct {
	PlayerID model.PlayerID
	Group    string
}

// MockGroups is an in-memory stand-in for the external permission
// grouping service.
type MockGroups struct {
	mu sync.Mutex

	Primary    map[model.PlayerID]string
	PrimaryErr error
	ClearErr   error
	AddErr     error
	SaveErr    error

	cleared []model.PlayerID
	added   []GroupAdd
	saved   []model.PlayerID
}

// NewMockGroups creates a MockGroups with no memberships.
func NewMockGroups() *MockGroups {
	return &MockGroups{
		Primary: make(map[model.PlayerID]string),
	}
}

func (m *MockGroups) PrimaryGroup(ctx context.Context, id model.PlayerID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PrimaryErr != nil {
		return "", m.PrimaryErr
	}
	return m.Primary[id], nil
}

func (m *MockGroups) ClearGroups(ctx context.Context, id model.PlayerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.cleared = append(m.cleared, id)
	delete(m.Primary, id)
	return nil
}

func (m *MockGroups) AddGroup(ctx context.Context, id model.PlayerID, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return m.AddErr
	}
	m.added = append(m.added, GroupAdd{PlayerID: id, Group: group})
	m.Primary[id] = group
	return nil
}

func (m *MockGroups) Save(ctx context.Context, id model.PlayerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saved = append(m.saved, id)
	return nil
}

func (m *MockGroups) Cleared() []model.PlayerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PlayerID(nil), m.cleared...)
}

func (m *MockGroups) Added() []GroupAdd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GroupAdd(nil), m.added...)
}

func (m *MockGroups) Saved() []model.PlayerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PlayerID(nil), m.saved...)
}
