package repository

import (
	"context"
	"time"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketplaceSessionRepository persists marketplace pricing sessions.
type MarketplaceSessionRepository interface {
	Create(ctx context.Context, s *model.MarketplaceSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceSession, error)
	List(ctx context.Context, filter dto.MarketplaceSessionFilter) ([]model.MarketplaceSession, int64, error)
	UpdateStatusNotes(ctx context.Context, id uuid.UUID, status, notes *string) error
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
	SetReportRetry(ctx context.Context, id uuid.UUID, count int, nextAt *time.Time, lastErr, toEmail *string) error
	ListPendingReportRetries(ctx context.Context, before time.Time, limit int) ([]model.MarketplaceSession, error)
}

type marketplaceSessionRepository struct{ db *gorm.DB }

func NewMarketplaceSessionRepository(db *gorm.DB) MarketplaceSessionRepository {
	return &marketplaceSessionRepository{db: db}
}

func (r *marketplaceSessionRepository) Create(ctx context.Context, s *model.MarketplaceSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *marketplaceSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceSession, error) {
	var s model.MarketplaceSession
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *marketplaceSessionRepository) List(ctx context.Context, filter dto.MarketplaceSessionFilter) ([]model.MarketplaceSession, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MarketplaceSession{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.MarketplaceSession
	err := q.Order("created_at desc").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *marketplaceSessionRepository) UpdateStatusNotes(ctx context.Context, id uuid.UUID, status, notes *string) error {
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
	return r.db.WithContext(ctx).Model(&model.MarketplaceSession{}).Where("id = ?", id).Updates(updates).Error
}

func (r *marketplaceSessionRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MarketplaceSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email_sent": true, "next_report_retry_at": nil, "last_report_error": nil}).Error
}

func (r *marketplaceSessionRepository) SetReportRetry(ctx context.Context, id uuid.UUID, count int, nextAt *time.Time, lastErr, toEmail *string) error {
	return r.db.WithContext(ctx).Model(&model.MarketplaceSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"report_retry_count":   count,
			"next_report_retry_at": nextAt,
			"last_report_error":    lastErr,
			"report_to_email":      toEmail,
		}).Error
}

func (r *marketplaceSessionRepository) ListPendingReportRetries(ctx context.Context, before time.Time, limit int) ([]model.MarketplaceSession, error) {
	var sessions []model.MarketplaceSession
	err := r.db.WithContext(ctx).
		Where("email_sent = false AND next_report_retry_at IS NOT NULL AND next_report_retry_at <= ?", before).
		Order("next_report_retry_at asc").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
