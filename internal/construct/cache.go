package construct

import (
	"context"
	"errors"
	"sync"
)

var errAborted = errors.New("instantiation aborted")

// entry is the cache slot of one identity. done is closed once value and err
// are final.
type entry struct {
	done  chan struct{}
	value Instance
	err   error
}

// instanceCache memoizes instantiation results per identity.
//
// A slot is reserved before its computation starts, so concurrent requests
// for the same identity wait for the one computation in flight. Edges go from
// a computation to every identity it depends on right now: the ones it
// computes inline and the ones it waits for. A wait that would close a cycle
// of such edges is refused, and the caller treats the identity as a cyclic
// reference.
type instanceCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	waits   map[string]map[string]int
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		entries: make(map[string]*entry),
		waits:   make(map[string]map[string]int),
	}
}

// do returns the result for key. The first caller computes it; later callers
// wait for that computation. owner is the identity whose computation is
// asking, empty for top-level requests. cyclic is set when waiting would
// deadlock.
func (c *instanceCache) do(ctx context.Context, owner, key string, compute func() (Instance, error)) (value Instance, cyclic bool, err error) {
	c.mu.Lock()
	e, exists := c.entries[key]
	if !exists {
		e = &entry{done: make(chan struct{}), err: errAborted}
		c.entries[key] = e
		c.addEdge(owner, key)
	}
	c.mu.Unlock()

	if !exists {
		defer close(e.done)
		defer c.removeEdge(owner, key)
		e.value, e.err = compute()
		if e.err != nil {
			e.value = nil
		}
		return e.value, false, e.err
	}

	select {
	case <-e.done:
		return e.value, false, e.err
	default:
	}

	if !c.startWaiting(owner, key) {
		return nil, true, nil
	}
	defer c.stopWaiting(owner, key)

	select {
	case <-e.done:
		return e.value, false, e.err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// startWaiting records that owner waits for key, unless key already depends,
// directly or transitively, on owner.
func (c *instanceCache) startWaiting(owner, key string) bool {
	if owner == "" {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reaches(key, owner, map[string]bool{}) {
		return false
	}
	c.addEdge(owner, key)
	return true
}

func (c *instanceCache) stopWaiting(owner, key string) {
	c.removeEdge(owner, key)
}

func (c *instanceCache) removeEdge(owner, key string) {
	if owner == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waits[owner][key]--; c.waits[owner][key] <= 0 {
		delete(c.waits[owner], key)
	}
	if len(c.waits[owner]) == 0 {
		delete(c.waits, owner)
	}
}

// addEdge records that owner depends on key. Callers hold mu.
func (c *instanceCache) addEdge(owner, key string) {
	if owner == "" {
		return
	}
	if c.waits[owner] == nil {
		c.waits[owner] = make(map[string]int)
	}
	c.waits[owner][key]++
}

// reaches reports whether from depends on to. Callers hold mu.
func (c *instanceCache) reaches(from, to string, visited map[string]bool) bool {
	if from == to {
		return true
	}
	if visited[from] {
		return false
	}
	visited[from] = true
	for next := range c.waits[from] {
		if c.reaches(next, to, visited) {
			return true
		}
	}
	return false
}

// reset drops every cached result. Computations still in flight keep
// running, but their slots are not reused.
func (c *instanceCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func (c *instanceCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
