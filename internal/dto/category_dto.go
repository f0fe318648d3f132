package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name             string          `json:"name"              validate:"required,min=2,max=100"`
	MarkupPercentage decimal.Decimal `json:"markup_percentage" validate:"min=0,max=1000"`
}

type UpdateCategoryRequest struct {
	Name             *string          `json:"name"              validate:"omitempty,min=2,max=100"`
	MarkupPercentage *decimal.Decimal `json:"markup_percentage" validate:"omitempty,min=0,max=1000"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	MarkupPercentage decimal.Decimal `json:"markup_percentage"`
}
