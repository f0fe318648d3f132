package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketplaceSession records a single-item cost-plus pricing run for a
// marketplace (Amazon) listing. Unlike invoice sessions, prices are kept at
// full decimal precision — marketplace items are reviewed one at a time and
// never batch-rounded.
type MarketplaceSession struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceURL         string          `gorm:"not null"`
	ProductName       string          `gorm:"not null"`
	UnitCostUSD       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IntermediatePrice decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	MarkupPercentage  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	SellingPriceUSD   decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	SellingPriceJMD   decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	ExchangeRate      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending'"`
	EmailSent         bool            `gorm:"not null;default:false"`
	Notes             *string         `gorm:"type:text"`
	ReportRetryCount  int             `gorm:"not null;default:0"`
	NextReportRetryAt *time.Time
	LastReportError   *string
	ReportToEmail     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MarkReported flips the EmailSent latch; same idempotent contract as
// InvoiceSession.MarkReported.
func (s *MarketplaceSession) MarkReported() bool {
	if s.EmailSent {
		return false
	}
	s.EmailSent = true
	return true
}
