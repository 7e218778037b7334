package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/pocketworld/internal/dependencies/mocks"
	"github.com/mcoot/pocketworld/internal/services/account"
	"github.com/mcoot/pocketworld/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	tokenCfg := account.TokenConfig{
		Secret: []byte("test-secret"),
		TTL:    7 * 24 * time.Hour,
	}

	app := newWithDependencies(store, mockClock, mockRandom, tokenCfg, 16, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
