package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type MarketplaceSessionFilter struct {
	Status string `form:"status,default=all"` // pending | approved | rejected | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MarketplaceSessionListResponse struct {
	Data  []MarketplaceSessionResponse `json:"data"`
	Total int64                        `json:"total"`
	Page  int                          `json:"page"`
	Limit int                          `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMarketplaceSessionRequest struct {
	SourceURL   string          `json:"source_url"    validate:"required,url"`
	ProductName string          `json:"product_name"  validate:"required,min=2"`
	UnitCostUSD decimal.Decimal `json:"unit_cost_usd" validate:"min=0"`
	// MarkupPercentage is the operator override; nil selects the cost tier.
	MarkupPercentage *decimal.Decimal `json:"markup_percentage" validate:"omitempty,min=0,max=500"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate"     validate:"omitempty,gt=0"`
	Notes            *string          `json:"notes"`
}

type UpdateMarketplaceSessionRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Notes  *string `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MarketplaceSessionResponse struct {
	ID                string          `json:"id"`
	SourceURL         string          `json:"source_url"`
	ProductName       string          `json:"product_name"`
	UnitCostUSD       decimal.Decimal `json:"unit_cost_usd"`
	IntermediatePrice decimal.Decimal `json:"intermediate_price"`
	MarkupPercentage  decimal.Decimal `json:"markup_percentage"`
	SellingPriceUSD   decimal.Decimal `json:"selling_price_usd"`
	SellingPriceJMD   decimal.Decimal `json:"selling_price_jmd"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	Status            string          `json:"status"`
	EmailSent         bool            `json:"email_sent"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

// SuggestMarkupResponse is the advisory tier for a raw cost — recomputed by
// the client whenever the cost field changes and no override is in effect.
type SuggestMarkupResponse struct {
	UnitCostUSD      decimal.Decimal `json:"unit_cost_usd"`
	MarkupPercentage decimal.Decimal `json:"markup_percentage"`
}
