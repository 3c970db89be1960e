package factory

import (
	"github.com/mcoot/lasertag/internal/dependencies/mocks"
	"github.com/mcoot/lasertag/internal/storage"
	"github.com/mcoot/lasertag/internal/storage/memory"
	"github.com/mcoot/lasertag/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App over in-memory storage with a mocked clock
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New(), 0)
}

// NewTestAppWithStorage creates an App over store with a mocked clock.
// A zero maxSlots uses the default.
func NewTestAppWithStorage(store storage.Storage, maxSlots int) *TestApp {
	mockClock := mocks.NewMockClock(testutil.Epoch)

	app := newWithDependencies(store, mockClock, maxSlots, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
