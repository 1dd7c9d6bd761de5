package pricing

import (
	"github.com/shopspring/decimal"

	"shipquote/internal/shipment"
)

// Total returns the sum of cartons x height x width over dims.
// Inputs are assumed validated upstream; an empty list costs 0.
func Total(dims []shipment.Dimension) float64 {
	sum := decimal.Zero
	for _, d := range dims {
		line := decimal.NewFromInt(int64(d.NoOfCartons)).
			Mul(decimal.NewFromFloat(d.Height)).
			Mul(decimal.NewFromFloat(d.Width))
		sum = sum.Add(line)
	}
	return sum.InexactFloat64()
}
