package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/gridwire/internal/handlers"
)

// SleeperModule is a shared, self-contained module for concurrency tests.
// Its 'sleeper#Sleeper' component sleeps while being constructed and records
// when each construction ran. The first argument names the instance.
type SleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord

	mu            sync.Mutex
	sleepDuration time.Duration
	calls         int
}

// NewSleeperModule creates a new sleeper module for testing.
func NewSleeperModule(sleep time.Duration) *SleeperModule {
	return &SleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// Calls returns the number of constructions so far.
func (m *SleeperModule) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Record returns the execution record of a named construction.
func (m *SleeperModule) Record(id string) *ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecutionTimes[id]
}

// Register registers the "sleeper" component factory.
func (m *SleeperModule) Register(h *handlers.Handlers) {
	h.Register(handlers.Name("sleeper", "Sleeper"), &handlers.Registered{
		New: func(ctx context.Context, args []any) (any, error) {
			id := ""
			if len(args) > 0 {
				id = fmt.Sprint(args[0])
			}

			startTime := time.Now()
			select {
			case <-time.After(m.sleepDuration):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			endTime := time.Now()

			record := &ExecutionRecord{Start: startTime, End: endTime}
			m.mu.Lock()
			m.ExecutionTimes[id] = record
			m.calls++
			m.mu.Unlock()
			return record, nil
		},
	})
}
