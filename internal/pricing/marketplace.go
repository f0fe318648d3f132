package pricing

import "github.com/shopspring/decimal"

// MarketplaceFeeRate is the fixed 7% sourcing/handling fee added to a
// marketplace cost before markup. Like GCTRate it is a named constant,
// not configuration.
var MarketplaceFeeRate = decimal.New(7, -2)

var (
	markupTierThreshold = decimal.NewFromInt(100) // USD cost above which the high tier applies
	markupTierHigh      = decimal.NewFromInt(120)
	markupTierLow       = decimal.NewFromInt(80)

	// MaxMarketplaceMarkup bounds operator-supplied markup overrides.
	MaxMarketplaceMarkup = decimal.NewFromInt(500)
)

// MarketplaceResult holds a single-item marketplace pricing computation.
// Prices are full precision — marketplace items are never rounded.
type MarketplaceResult struct {
	IntermediatePrice decimal.Decimal
	MarkupPercentage  decimal.Decimal
	SellingPriceUSD   decimal.Decimal
	SellingPriceJMD   decimal.Decimal
}

// SuggestedMarkup returns the tier-suggested markup for a raw USD cost:
// 120 when the cost is strictly above $100, 80 otherwise. The tier is
// advisory — an explicit operator override always wins — and is compared
// against the cost before the sourcing fee is applied.
func SuggestedMarkup(unitCostUSD decimal.Decimal) decimal.Decimal {
	if unitCostUSD.GreaterThan(markupTierThreshold) {
		return markupTierHigh
	}
	return markupTierLow
}

// PriceMarketplaceItem prices one marketplace listing:
//
//	intermediate = unitCostUSD × 1.07
//	sellingUSD   = intermediate × (1 + markup/100)
//	sellingJMD   = sellingUSD × exchangeRate
//
// A nil markupOverride selects the cost-based tier; a supplied override is
// used verbatim after range validation ([0, 500]).
func PriceMarketplaceItem(unitCostUSD, exchangeRate decimal.Decimal, markupOverride *decimal.Decimal) (*MarketplaceResult, error) {
	if unitCostUSD.IsNegative() {
		return nil, invalidInput("unitCostUSD", "must not be negative")
	}
	if !exchangeRate.IsPositive() {
		return nil, invalidInput("exchangeRate", "must be greater than zero")
	}

	markup := SuggestedMarkup(unitCostUSD)
	if markupOverride != nil {
		if markupOverride.IsNegative() || markupOverride.GreaterThan(MaxMarketplaceMarkup) {
			return nil, invalidInput("markupPercentage", "must be between 0 and 500")
		}
		markup = *markupOverride
	}

	intermediate := unitCostUSD.Mul(decimal.NewFromInt(1).Add(MarketplaceFeeRate))
	sellingUSD := intermediate.Mul(markupFactor(markup))
	sellingJMD := sellingUSD.Mul(exchangeRate)

	return &MarketplaceResult{
		IntermediatePrice: intermediate,
		MarkupPercentage:  markup,
		SellingPriceUSD:   sellingUSD,
		SellingPriceJMD:   sellingJMD,
	}, nil
}
