package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// InvoiceSessionFilter is bound from query string of GET /v1/invoices.
type InvoiceSessionFilter struct {
	Status string `form:"status,default=all"` // pending | approved | rejected | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type InvoiceSessionListResponse struct {
	Data  []InvoiceSessionResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InvoiceLineItemRequest struct {
	Description string          `json:"description"   validate:"required"`
	UnitCostUSD decimal.Decimal `json:"unit_cost_usd" validate:"min=0"`
}

type CreateInvoiceSessionRequest struct {
	InvoiceNumber *string                  `json:"invoice_number"`
	Items         []InvoiceLineItemRequest `json:"items"           validate:"dive"`
	// ExchangeRate overrides the desk's current rate when present.
	ExchangeRate   *decimal.Decimal `json:"exchange_rate"   validate:"omitempty,gt=0"`
	RoundingOption int64            `json:"rounding_option" validate:"required,oneof=100 1000 10000"`
	Notes          *string          `json:"notes"`
}

type UpdateInvoiceSessionRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Notes  *string `json:"notes"`
}

type SendReportRequest struct {
	// ToEmail overrides the configured report recipient when present.
	ToEmail *string `json:"to_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceLineItemResponse struct {
	Description      string          `json:"description"`
	UnitCostUSD      decimal.Decimal `json:"unit_cost_usd"`
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	MarkupPercentage decimal.Decimal `json:"markup_percentage"`
	CostJMD          decimal.Decimal `json:"cost_jmd"`
	FinalPrice       decimal.Decimal `json:"final_price"`
}

type InvoiceSessionResponse struct {
	ID             string                    `json:"id"`
	InvoiceNumber  *string                   `json:"invoice_number,omitempty"`
	Items          []InvoiceLineItemResponse `json:"items"`
	ExchangeRate   decimal.Decimal           `json:"exchange_rate"`
	RoundingOption int64                     `json:"rounding_option"`
	TotalValue     decimal.Decimal           `json:"total_value"`
	Status         string                    `json:"status"`
	EmailSent      bool                      `json:"email_sent"`
	Notes          *string                   `json:"notes,omitempty"`
	CreatedAt      string                    `json:"created_at"`
}
