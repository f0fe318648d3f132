package repository

import (
	"context"
	"time"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceSessionRepository persists invoice pricing sessions. Financial
// fields are written once at Create; later writes touch only status, notes
// and report delivery bookkeeping.
type InvoiceSessionRepository interface {
	Create(ctx context.Context, s *model.InvoiceSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InvoiceSession, error)
	List(ctx context.Context, filter dto.InvoiceSessionFilter) ([]model.InvoiceSession, int64, error)
	UpdateStatusNotes(ctx context.Context, id uuid.UUID, status, notes *string) error
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
	SetReportRetry(ctx context.Context, id uuid.UUID, count int, nextAt *time.Time, lastErr, toEmail *string) error
	ListPendingReportRetries(ctx context.Context, before time.Time, limit int) ([]model.InvoiceSession, error)
}

type invoiceSessionRepository struct{ db *gorm.DB }

func NewInvoiceSessionRepository(db *gorm.DB) InvoiceSessionRepository {
	return &invoiceSessionRepository{db: db}
}

func (r *invoiceSessionRepository) Create(ctx context.Context, s *model.InvoiceSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *invoiceSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InvoiceSession, error) {
	var s model.InvoiceSession
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *invoiceSessionRepository) List(ctx context.Context, filter dto.InvoiceSessionFilter) ([]model.InvoiceSession, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InvoiceSession{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.InvoiceSession
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("created_at desc").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *invoiceSessionRepository) UpdateStatusNotes(ctx context.Context, id uuid.UUID, status, notes *string) error {
	updates := map[string]interface{}{}
	if status != nil {
		updates["status"] = *status
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.InvoiceSession{}).Where("id = ?", id).Updates(updates).Error
}

// MarkEmailSent sets the latch in a single UPDATE so concurrent report
// deliveries converge to the same row state.
func (r *invoiceSessionRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.InvoiceSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email_sent": true, "next_report_retry_at": nil, "last_report_error": nil}).Error
}

func (r *invoiceSessionRepository) SetReportRetry(ctx context.Context, id uuid.UUID, count int, nextAt *time.Time, lastErr, toEmail *string) error {
	return r.db.WithContext(ctx).Model(&model.InvoiceSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"report_retry_count":   count,
			"next_report_retry_at": nextAt,
			"last_report_error":    lastErr,
			"report_to_email":      toEmail,
		}).Error
}

func (r *invoiceSessionRepository) ListPendingReportRetries(ctx context.Context, before time.Time, limit int) ([]model.InvoiceSession, error) {
	var sessions []model.InvoiceSession
	err := r.db.WithContext(ctx).
		Where("email_sent = false AND next_report_retry_at IS NOT NULL AND next_report_retry_at <= ?", before).
		Order("next_report_retry_at asc").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
