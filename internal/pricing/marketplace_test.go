package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Worked scenario: $150 at rate 160 → intermediate 160.50, tier markup 120,
// sellingUSD 353.10, sellingJMD 56496.00.
func TestPriceMarketplaceItemScenario(t *testing.T) {
	result, err := PriceMarketplaceItem(dec("150"), dec("160"), nil)
	require.NoError(t, err)

	assert.True(t, result.IntermediatePrice.Equal(dec("160.50")), "intermediate = %s", result.IntermediatePrice)
	assert.True(t, result.MarkupPercentage.Equal(dec("120")))
	assert.True(t, result.SellingPriceUSD.Equal(dec("353.10")), "sellingUSD = %s", result.SellingPriceUSD)
	assert.True(t, result.SellingPriceJMD.Equal(dec("56496.00")), "sellingJMD = %s", result.SellingPriceJMD)
}

// The tier threshold is strict: exactly $100 is still the low tier.
func TestSuggestedMarkupTierBoundary(t *testing.T) {
	assert.True(t, SuggestedMarkup(dec("100.00")).Equal(dec("80")))
	assert.True(t, SuggestedMarkup(dec("100.01")).Equal(dec("120")))
	assert.True(t, SuggestedMarkup(dec("5")).Equal(dec("80")))
	assert.True(t, SuggestedMarkup(dec("999")).Equal(dec("120")))
}

// The tier is compared against the raw cost, before the 7% fee is added —
// $95 × 1.07 crosses $100 but the low tier still applies.
func TestSuggestedMarkupUsesPreFeeCost(t *testing.T) {
	result, err := PriceMarketplaceItem(dec("95"), dec("160"), nil)
	require.NoError(t, err)
	assert.True(t, result.MarkupPercentage.Equal(dec("80")))
}

func TestPriceMarketplaceItemOverrideWins(t *testing.T) {
	override := dec("200")
	result, err := PriceMarketplaceItem(dec("50"), dec("160"), &override)
	require.NoError(t, err)

	assert.True(t, result.MarkupPercentage.Equal(dec("200")))
	// 50 × 1.07 = 53.50; × 3 = 160.50
	assert.True(t, result.SellingPriceUSD.Equal(dec("160.50")))
}

func TestPriceMarketplaceItemNoRounding(t *testing.T) {
	result, err := PriceMarketplaceItem(dec("33.33"), dec("157.43"), nil)
	require.NoError(t, err)
	// 33.33 × 1.07 = 35.6631; × 1.8 = 64.19358; × 157.43 = 10105.995... —
	// full precision, nothing snapped to a granularity.
	assert.True(t, result.IntermediatePrice.Equal(dec("35.6631")))
	assert.True(t, result.SellingPriceUSD.Equal(dec("64.193580")))
}

func TestPriceMarketplaceItemValidation(t *testing.T) {
	var invalid *InvalidInputError

	_, err := PriceMarketplaceItem(dec("-1"), dec("160"), nil)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "unitCostUSD", invalid.Field)

	_, err = PriceMarketplaceItem(dec("50"), dec("0"), nil)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "exchangeRate", invalid.Field)

	over := dec("501")
	_, err = PriceMarketplaceItem(dec("50"), dec("160"), &over)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "markupPercentage", invalid.Field)

	neg := dec("-10")
	_, err = PriceMarketplaceItem(dec("50"), dec("160"), &neg)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "markupPercentage", invalid.Field)
}

func TestPriceMarketplaceItemZeroMarkupOverride(t *testing.T) {
	zero := decimal.Zero
	result, err := PriceMarketplaceItem(dec("50"), dec("160"), &zero)
	require.NoError(t, err)
	// Markup 0 sells at the intermediate price.
	assert.True(t, result.SellingPriceUSD.Equal(result.IntermediatePrice))
}
