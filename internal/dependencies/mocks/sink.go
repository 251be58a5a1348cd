package mocks

import (
	"errors"
	"strings"
	"sync"
)

// MockCommandSink records dispatched gameplay commands.
type MockCommandSink struct {
	mu sync.Mutex

	// FailSubstring makes Dispatch fail for commands containing it.
	FailSubstring string
	Err           error

	commands []string
}

// NewMockCommandSink creates a sink that accepts every command.
func NewMockCommandSink() *MockCommandSink {
	return &MockCommandSink{}
}

func (m *MockCommandSink) Dispatch(command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSubstring != "" && strings.Contains(command, m.FailSubstring) {
		if m.Err != nil {
			return m.Err
		}
		return errors.New("command rejected")
	}
	m.commands = append(m.commands, command)
	return nil
}

// Commands returns a copy of every dispatched command in order.
func (m *MockCommandSink) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commands...)
}
