package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate records each USD→JMD rate the desk sets. Records are
// append-only — the latest row is the current rate, older rows stay as an
// audit trail of what rate historical sessions were priced against.
type ExchangeRate struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Rate      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UpdatedBy *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (ExchangeRate) TableName() string { return "exchange_rates" }
