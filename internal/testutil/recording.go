package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/gridwire/internal/construct"
)

// Undefined is what RecordingStrategy returns for undefined values.
type Undefined struct{}

// Lazy wraps the supplier of a lazy value.
type Lazy struct {
	Supplier construct.Supplier
}

// InstanceCall is one recorded CreateInstance call. It is also the instance
// returned for that call.
type InstanceCall struct {
	RequireName     string
	RequireElement  string
	CallConstructor bool
	InstanceID      string
	Args            []any
}

// RecordingStrategy is a construction strategy that builds plain Go values
// and records every instance creation.
//
// Hashes become map[string]any{"entries": []any{map[string]any{"key": k,
// "value": v}}}, arrays become []any, primitives are returned as-is.
type RecordingStrategy struct {
	// Delay is slept inside CreateInstance, to widen race windows in tests.
	Delay time.Duration

	mu    sync.Mutex
	calls []*InstanceCall
}

// NewRecordingStrategy creates an empty RecordingStrategy.
func NewRecordingStrategy() *RecordingStrategy {
	return &RecordingStrategy{}
}

// Calls returns the recorded CreateInstance calls in order.
func (s *RecordingStrategy) Calls() []*InstanceCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*InstanceCall(nil), s.calls...)
}

// CallsFor returns the number of CreateInstance calls for an instance id.
func (s *RecordingStrategy) CallsFor(instanceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.InstanceID == instanceID {
			n++
		}
	}
	return n
}

func (s *RecordingStrategy) CreateInstance(ctx context.Context, opts construct.InstanceOptions) (construct.Instance, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &InstanceCall{
		RequireName:     opts.RequireName,
		RequireElement:  opts.RequireElement,
		CallConstructor: opts.CallConstructor,
		InstanceID:      opts.InstanceID,
		Args:            opts.Args,
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	return call, nil
}

func (s *RecordingStrategy) CreateHash(_ context.Context, opts construct.HashOptions) (construct.Instance, error) {
	entries := make([]any, 0, len(opts.Entries))
	for _, e := range opts.Entries {
		if e == nil {
			continue
		}
		entries = append(entries, map[string]any{"key": e.Key, "value": e.Value})
	}
	return map[string]any{"entries": entries}, nil
}

func (s *RecordingStrategy) CreateArray(_ context.Context, opts construct.ArrayOptions) (construct.Instance, error) {
	return append([]any{}, opts.Elements...), nil
}

func (s *RecordingStrategy) CreatePrimitive(_ context.Context, opts construct.PrimitiveOptions) (construct.Instance, error) {
	return opts.Value, nil
}

func (s *RecordingStrategy) CreateLazySupplier(_ context.Context, opts construct.LazyOptions) (construct.Instance, error) {
	return Lazy{Supplier: opts.Supplier}, nil
}

func (s *RecordingStrategy) CreateUndefined(context.Context) construct.Instance {
	return Undefined{}
}

func (s *RecordingStrategy) GetVariableValue(_ context.Context, opts construct.VariableOptions) (construct.Instance, error) {
	return construct.LookupVariable(opts.Settings, opts.VariableName)
}
