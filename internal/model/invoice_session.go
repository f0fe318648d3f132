package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values shared by invoice and marketplace sessions.
const (
	SessionPending  = "pending"
	SessionApproved = "approved"
	SessionRejected = "rejected"
)

// InvoiceSession is a completed invoice pricing run. Financial fields are
// immutable once the session is created; only Status, Notes and the report
// delivery bookkeeping change afterwards.
type InvoiceSession struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber  *string         `gorm:"index"`
	ExchangeRate   decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	RoundingOption int64           `gorm:"not null"`
	TotalValue     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// EmailSent is a one-way latch: it flips false→true when the report is
	// delivered and is never reset. See MarkReported.
	EmailSent bool    `gorm:"not null;default:false"`
	Notes     *string `gorm:"type:text"`
	// Report delivery retry bookkeeping — set by the report worker on failure,
	// consumed by the retry cron. Never touches financial fields.
	ReportRetryCount  int `gorm:"not null;default:0"`
	NextReportRetryAt *time.Time
	LastReportError   *string
	ReportToEmail     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []InvoiceLineItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// InvoiceLineItem is one priced line of an InvoiceSession. CategoryName and
// MarkupPercentage are snapshots frozen at computation time, not live
// references to the categories table.
type InvoiceLineItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position         int             `gorm:"not null"`
	Description      string          `gorm:"not null"`
	UnitCostUSD      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CategoryID       uuid.UUID       `gorm:"type:uuid;not null"`
	CategoryName     string          `gorm:"not null"`
	MarkupPercentage decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	CostJMD          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FinalPrice       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt        time.Time
}

// MarkReported flips the EmailSent latch. It returns true when the call
// performed the transition and false when the session was already reported —
// duplicate calls are a no-op, never an error, so an at-least-once dispatcher
// cannot corrupt the record.
func (s *InvoiceSession) MarkReported() bool {
	if s.EmailSent {
		return false
	}
	s.EmailSent = true
	return true
}
