// Package quote fans a quote request out to many carriers under a single time
// budget and keeps the cheapest answer.
package quote

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"shipquote/internal/carrier"
	"shipquote/internal/logger"
	"shipquote/internal/shipment"
)

// DefaultBudget bounds a round when the request does not.
const DefaultBudget = 2 * time.Second

var tracer = otel.Tracer("shipquote/internal/quote")

// Fetcher obtains one quote from one carrier.
//
//go:generate mockgen -package=quote_test -destination=mock_fetcher_test.go -source=aggregator.go Fetcher
type Fetcher interface {
	Fetch(ctx context.Context, id carrier.ID, s shipment.Shipment) (carrier.Quote, error)
}

// Request describes one aggregation round.
type Request struct {
	Carriers []carrier.ID
	// Budget is the wall-clock limit for the whole round.
	Budget time.Duration
	// Shipment, when set, is quoted by every carrier. When nil each carrier
	// gets its reference fixture.
	Shipment *shipment.Shipment
}

// Aggregator runs quote rounds against a Fetcher.
type Aggregator struct {
	fetcher Fetcher
	log     *logger.Logger
}

// NewAggregator builds an Aggregator. A nil log discards output.
func NewAggregator(f Fetcher, log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{fetcher: f, log: log}
}

// Run queries every carrier in req concurrently and returns whatever arrived
// before the budget ran out. Individual carrier failures only shrink the
// result. The returned error is non-nil only when ctx itself was canceled
// before the round finished.
func (a *Aggregator) Run(ctx context.Context, req Request) (BestDeal, error) {
	budget := req.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	ctx, span := tracer.Start(ctx, "quote.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("quote.carriers", len(req.Carriers)),
		attribute.Int64("quote.budget_ms", budget.Milliseconds()),
	)

	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	batch := NewBatch(len(req.Carriers))
	// interrupted is set when a carrier call ended because runCtx did.
	var interrupted atomic.Bool
	var g errgroup.Group
	for _, id := range req.Carriers {
		s := a.shipmentFor(req, id)
		g.Go(func() error {
			q, err := a.fetcher.Fetch(runCtx, id, s)
			if err != nil {
				if runCtx.Err() != nil {
					interrupted.Store(true)
				}
				a.log.Warn("carrier quote dropped", "carrier", id, "error", err)
				return nil
			}
			if !batch.Add(q) {
				a.log.Warn("late carrier quote discarded", "carrier", id, "amount", q.Amount)
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	completed := false
	select {
	case <-done:
		completed = !interrupted.Load()
	case <-runCtx.Done():
	}
	quotes := batch.Seal()

	// A round every carrier finished stands even if ctx ends right after.
	if err := ctx.Err(); err != nil && !completed {
		span.SetStatus(codes.Error, "caller canceled")
		return BestDeal{}, fmt.Errorf("quote round: %w: %w", carrier.ErrCanceled, err)
	}

	span.SetAttributes(attribute.Int("quote.received", len(quotes)))
	a.log.Info("quote round finished",
		"carriers", len(req.Carriers),
		"received", len(quotes),
		"budget", budget,
	)
	return NewBestDeal(quotes), nil
}

func (a *Aggregator) shipmentFor(req Request, id carrier.ID) shipment.Shipment {
	if req.Shipment != nil {
		return req.Shipment.Clone()
	}
	return carrier.Fixture(id)
}
