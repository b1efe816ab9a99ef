// Package optimistic tracks in-flight cart mutations and derives the cart a
// shopper should see while they are still running.
package optimistic

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hydroshop/storefront/internal/model"
)

type Kind string

const (
	KindAdd    Kind = "ADD_TO_CART"
	KindRemove Kind = "REMOVE_FROM_CART"
)

// Operation describes one submitted but not yet confirmed cart mutation.
type Operation struct {
	ID        string
	Kind      Kind
	CartID    string
	LineIDs   []string
	Lines     []model.CartLineInput
	StartedAt time.Time
}

// PendingSet is the registry of in-flight operations. It is safe for
// concurrent use; readers get snapshots, never live references.
type PendingSet struct {
	mu  sync.RWMutex
	ops map[string]Operation
	now func() time.Time
}

func NewPendingSet() *PendingSet {
	return &PendingSet{ops: make(map[string]Operation), now: time.Now}
}

// Begin registers op and returns the function that retires it. The returned
// function may be called more than once.
func (p *PendingSet) Begin(op Operation) (done func()) {
	op.ID = uuid.NewString()
	op.StartedAt = p.now()
	op.LineIDs = append([]string(nil), op.LineIDs...)
	op.Lines = append([]model.CartLineInput(nil), op.Lines...)

	p.mu.Lock()
	p.ops[op.ID] = op
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.ops, op.ID)
			p.mu.Unlock()
		})
	}
}

// Snapshot lists the operations in flight against cartID, oldest first.
func (p *PendingSet) Snapshot(cartID string) []Operation {
	if cartID == "" {
		return nil
	}
	p.mu.RLock()
	out := make([]Operation, 0, len(p.ops))
	for _, op := range p.ops {
		if op.CartID == cartID {
			out = append(out, op)
		}
	}
	p.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

func (p *PendingSet) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ops)
}
