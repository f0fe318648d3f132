package pricing

import "github.com/shopspring/decimal"

// Rounding granularities an invoice session can snap final prices to.
// Selected once at session creation and immutable thereafter — changing it
// later would invalidate historical totals.
const (
	RoundToHundred     int64 = 100
	RoundToThousand    int64 = 1000
	RoundToTenThousand int64 = 10000
)

var half = decimal.New(5, -1) // 0.5

// ValidRoundingOption reports whether g is a supported granularity.
func ValidRoundingOption(g int64) bool {
	return g == RoundToHundred || g == RoundToThousand || g == RoundToTenThousand
}

// Round snaps value to the nearest multiple of granularity, half-up:
// floor(value/g + 0.5) * g. Exact multiples are returned unchanged, so the
// operation is idempotent.
func Round(value decimal.Decimal, granularity int64) decimal.Decimal {
	g := decimal.NewFromInt(granularity)
	return value.Div(g).Add(half).Floor().Mul(g)
}
