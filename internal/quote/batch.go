package quote

import (
	"sync"

	"shipquote/internal/carrier"
)

// Batch collects quotes from concurrent carrier calls in completion order.
// Once sealed it rejects further additions, so stragglers cannot change a
// result that has already been handed out.
type Batch struct {
	mu     sync.Mutex
	quotes []carrier.Quote
	sealed bool
}

// NewBatch returns an open batch sized for capacity quotes.
func NewBatch(capacity int) *Batch {
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{quotes: make([]carrier.Quote, 0, capacity)}
}

// Add appends q and reports whether it was accepted.
func (b *Batch) Add(q carrier.Quote) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return false
	}
	b.quotes = append(b.quotes, q)
	return true
}

// Seal stops accepting quotes and returns a copy of what was collected.
// Calling it again returns the same contents.
func (b *Batch) Seal() []carrier.Quote {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sealed = true
	out := make([]carrier.Quote, len(b.quotes))
	copy(out, b.quotes)
	return out
}

// Len reports how many quotes have been accepted so far.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.quotes)
}
