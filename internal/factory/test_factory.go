package factory

import (
	"time"

	"github.com/indusnetwork/bridge/internal/cache/memory"
	"github.com/indusnetwork/bridge/internal/config"
	"github.com/indusnetwork/bridge/internal/dependencies/mocks"
	"github.com/indusnetwork/bridge/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockRemote *mocks.MockRemote
	MockGroups *mocks.MockGroups
	MockSink   *mocks.MockCommandSink
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	cfg := config.Default()
	cfg.Ranks = make(map[string]config.Rank)
	for id, def := range testutil.RankTable() {
		multiplier := def.CoinsMultiplier
		cfg.Ranks[id] = config.Rank{
			DisplayName:     def.DisplayName,
			PermissionGroup: def.PermissionGroup,
			CoinsMultiplier: &multiplier,
		}
	}

	mockRemote := mocks.NewMockRemote()
	mockGroups := mocks.NewMockGroups()
	mockSink := mocks.NewMockCommandSink()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(&cfg, memory.New(), mockRemote, mockGroups, mockSink,
		mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockRemote: mockRemote,
		MockGroups: mockGroups,
		MockSink:   mockSink,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
