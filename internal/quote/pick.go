package quote

import "shipquote/internal/carrier"

// BestDeal is the outcome of one aggregation round. BestDeal is nil when no
// carrier answered in time, which is a normal result rather than a failure.
type BestDeal struct {
	Carriers []carrier.Quote `json:"carriers"`
	BestDeal *carrier.Quote  `json:"bestDeal,omitempty"`
}

// Pick returns the cheapest quote. Ties go to the earliest quote in the slice;
// since batches are in completion order, a tie may resolve to a different
// carrier from one run to the next.
func Pick(quotes []carrier.Quote) (carrier.Quote, bool) {
	if len(quotes) == 0 {
		return carrier.Quote{}, false
	}
	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.Amount < best.Amount {
			best = q
		}
	}
	return best, true
}

// NewBestDeal wraps quotes with their cheapest entry.
func NewBestDeal(quotes []carrier.Quote) BestDeal {
	if quotes == nil {
		quotes = []carrier.Quote{}
	}
	out := BestDeal{Carriers: quotes}
	if best, ok := Pick(quotes); ok {
		out.BestDeal = &best
	}
	return out
}
