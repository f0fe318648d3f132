package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Worked scenario: $10 ink cartridge at rate 150, Ink markup 45%, round to 100.
// costJMD=1500, gct=225, taxed=1725, selling=1725×1.45=2501.25, final=2500.
func TestPriceInvoiceScenario(t *testing.T) {
	reg := NewRegistry([]Category{
		{ID: uuid.New(), Name: CategoryInk, MarkupPercentage: dec("45")},
	})

	result, err := PriceInvoice(
		[]LineItem{{Description: "HP Ink Cartridge", UnitCostUSD: dec("10")}},
		dec("150"), RoundToHundred, reg,
	)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, CategoryInk, item.CategoryName)
	assert.True(t, item.MarkupPercentage.Equal(dec("45")))
	assert.True(t, item.CostJMD.Equal(dec("1500")), "costJMD = %s", item.CostJMD)
	assert.True(t, item.FinalPrice.Equal(dec("2500")), "finalPrice = %s", item.FinalPrice)
	assert.True(t, result.TotalValue.Equal(dec("2500")))
}

func TestPriceInvoiceTotalIsSumOfFinalPrices(t *testing.T) {
	reg := fullRegistry()
	items := []LineItem{
		{Description: "HP Ink Cartridge", UnitCostUSD: dec("10")},
		{Description: "Dell Laptop", UnitCostUSD: dec("450")},
		{Description: "HDMI Cable", UnitCostUSD: dec("3.50")},
	}

	result, err := PriceInvoice(items, dec("155.25"), RoundToHundred, reg)
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	sum := decimal.Zero
	for _, it := range result.Items {
		sum = sum.Add(it.FinalPrice)
	}
	assert.True(t, result.TotalValue.Equal(sum))
}

func TestPriceInvoiceDeterministic(t *testing.T) {
	reg := fullRegistry()
	items := []LineItem{
		{Description: "APC UPS 650VA", UnitCostUSD: dec("89.99")},
		{Description: "Logitech Headset", UnitCostUSD: dec("24.50")},
	}

	a, err := PriceInvoice(items, dec("157.4300"), RoundToThousand, reg)
	require.NoError(t, err)
	b, err := PriceInvoice(items, dec("157.4300"), RoundToThousand, reg)
	require.NoError(t, err)

	assert.True(t, a.TotalValue.Equal(b.TotalValue))
	for i := range a.Items {
		assert.True(t, a.Items[i].FinalPrice.Equal(b.Items[i].FinalPrice))
		assert.True(t, a.Items[i].CostJMD.Equal(b.Items[i].CostJMD))
	}
}

func TestPriceInvoiceZeroCostYieldsZeroPrice(t *testing.T) {
	reg := fullRegistry()
	result, err := PriceInvoice(
		[]LineItem{{Description: "Promo Mouse Pad", UnitCostUSD: decimal.Zero}},
		dec("150"), RoundToHundred, reg,
	)
	require.NoError(t, err)
	assert.True(t, result.Items[0].FinalPrice.IsZero())
	assert.True(t, result.TotalValue.IsZero())
}

func TestPriceInvoiceEmptyBatch(t *testing.T) {
	result, err := PriceInvoice(nil, dec("150"), RoundToHundred, fullRegistry())
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.True(t, result.TotalValue.IsZero())
}

func TestPriceInvoiceRejectsNegativeCost(t *testing.T) {
	_, err := PriceInvoice(
		[]LineItem{{Description: "Laptop", UnitCostUSD: dec("-1")}},
		dec("150"), RoundToHundred, fullRegistry(),
	)
	require.Error(t, err)
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestPriceInvoiceRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []string{"0", "-150"} {
		_, err := PriceInvoice(
			[]LineItem{{Description: "Laptop", UnitCostUSD: dec("100")}},
			dec(rate), RoundToHundred, fullRegistry(),
		)
		require.Error(t, err, "rate %s", rate)
		var invalid *InvalidInputError
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, "exchangeRate", invalid.Field)
	}
}

func TestPriceInvoiceRejectsBadRounding(t *testing.T) {
	_, err := PriceInvoice(
		[]LineItem{{Description: "Laptop", UnitCostUSD: dec("100")}},
		dec("150"), 50, fullRegistry(),
	)
	require.Error(t, err)
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, "roundingOption", invalid.Field)
}

// Validation happens before any computation — a bad item later in the batch
// must fail the whole run with no partial result.
func TestPriceInvoiceNoPartialResults(t *testing.T) {
	_, err := PriceInvoice(
		[]LineItem{
			{Description: "HP Ink Cartridge", UnitCostUSD: dec("10")},
			{Description: "Broken Row", UnitCostUSD: dec("-5")},
		},
		dec("150"), RoundToHundred, fullRegistry(),
	)
	require.Error(t, err)
}

func TestPriceInvoiceUnconfiguredCategory(t *testing.T) {
	reg := NewRegistry([]Category{
		{ID: uuid.New(), Name: CategoryInk, MarkupPercentage: dec("45")},
	})
	_, err := PriceInvoice(
		[]LineItem{{Description: "Dell Laptop", UnitCostUSD: dec("500")}},
		dec("150"), RoundToHundred, reg,
	)
	require.Error(t, err)
	var notConfigured *CategoryNotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, CategoryLaptops, notConfigured.Name)
}
