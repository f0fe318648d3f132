package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category maps a product category name to the markup percentage applied when
// pricing invoice items classified into it. Markup is validated to [0, 1000]
// at write time; priced line items keep a frozen copy of name and markup so
// later edits never rewrite historical sessions.
type Category struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string          `gorm:"uniqueIndex;not null"`
	MarkupPercentage decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Category) TableName() string { return "categories" }
