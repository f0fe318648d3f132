package dto

import "github.com/shopspring/decimal"

type UpdateExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate" validate:"required,gt=0"`
}

type ExchangeRateResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt string          `json:"updated_at"`
}

// ClassifyResponse is returned by the classifier preview endpoint.
type ClassifyResponse struct {
	Description  string `json:"description"`
	CategoryName string `json:"category_name"`
}
