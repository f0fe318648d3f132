// Package pricing implements FennTech's pricing computation and
// classification engine: the keyword classifier, the invoice and marketplace
// calculators, and the shared rounding rules. Every function here is pure —
// no I/O, no shared mutable state — and money never leaves decimal.Decimal.
package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GCTRate is Jamaica's General Consumption Tax (15%), applied to the
// JMD-converted cost before markup. Deliberately a constant, not config —
// the business has exactly one tax jurisdiction.
var GCTRate = decimal.New(15, -2)

// MaxCategoryMarkup bounds category markup percentages at write time.
var MaxCategoryMarkup = decimal.NewFromInt(1000)

// LineItem is a raw invoice line as extracted from a supplier document.
type LineItem struct {
	Description string
	UnitCostUSD decimal.Decimal
}

// PricedLineItem is a LineItem after classification and pricing. Category
// name and markup are value snapshots taken at computation time.
type PricedLineItem struct {
	Description      string
	UnitCostUSD      decimal.Decimal
	CategoryID       uuid.UUID
	CategoryName     string
	MarkupPercentage decimal.Decimal
	CostJMD          decimal.Decimal
	FinalPrice       decimal.Decimal
}

// InvoiceResult is the output of a full invoice pricing run.
type InvoiceResult struct {
	Items      []PricedLineItem
	TotalValue decimal.Decimal
}

// PriceInvoice classifies and prices a batch of line items. Per item:
//
//	costJMD   = unitCostUSD × exchangeRate
//	gct       = costJMD × 0.15
//	selling   = (costJMD + gct) × (1 + markup/100)
//	final     = Round(selling, roundingOption)
//
// All inputs are validated before any computation: every cost must be ≥ 0,
// the exchange rate > 0 and the rounding option one of 100/1000/10000. An
// empty batch is not an error — it yields an empty result with a zero total.
// The registry snapshot is read-only for the duration of the run.
func PriceInvoice(items []LineItem, exchangeRate decimal.Decimal, roundingOption int64, reg Registry) (*InvoiceResult, error) {
	if !exchangeRate.IsPositive() {
		return nil, invalidInput("exchangeRate", "must be greater than zero")
	}
	if !ValidRoundingOption(roundingOption) {
		return nil, invalidInput("roundingOption", "must be one of 100, 1000, 10000")
	}
	for i, item := range items {
		if item.UnitCostUSD.IsNegative() {
			return nil, invalidInput(fmt.Sprintf("items[%d].unitCostUSD", i), "must not be negative")
		}
	}

	result := &InvoiceResult{
		Items:      make([]PricedLineItem, 0, len(items)),
		TotalValue: decimal.Zero,
	}

	for _, item := range items {
		category, err := Classify(item.Description, reg)
		if err != nil {
			return nil, err
		}

		costJMD := item.UnitCostUSD.Mul(exchangeRate)
		gct := costJMD.Mul(GCTRate)
		taxedCost := costJMD.Add(gct)
		sellingPrice := taxedCost.Mul(markupFactor(category.MarkupPercentage))
		finalPrice := Round(sellingPrice, roundingOption)

		result.Items = append(result.Items, PricedLineItem{
			Description:      item.Description,
			UnitCostUSD:      item.UnitCostUSD,
			CategoryID:       category.ID,
			CategoryName:     category.Name,
			MarkupPercentage: category.MarkupPercentage,
			CostJMD:          costJMD,
			FinalPrice:       finalPrice,
		})
		result.TotalValue = result.TotalValue.Add(finalPrice)
	}

	return result, nil
}

var oneHundred = decimal.NewFromInt(100)

// markupFactor converts a markup percentage into a multiplier: 45 → 1.45.
func markupFactor(markupPercentage decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(markupPercentage.Div(oneHundred))
}
