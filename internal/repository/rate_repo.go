package repository

import (
	"context"

	"github.com/omfen/fenntech-internal-system-sub001/internal/model"

	"gorm.io/gorm"
)

// ExchangeRateRepository stores the append-only USD→JMD rate history.
type ExchangeRateRepository interface {
	Create(ctx context.Context, r *model.ExchangeRate) error
	Latest(ctx context.Context) (*model.ExchangeRate, error)
	History(ctx context.Context, limit int) ([]model.ExchangeRate, error)
}

type exchangeRateRepository struct{ db *gorm.DB }

func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

func (r *exchangeRateRepository) Create(ctx context.Context, rec *model.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *exchangeRateRepository) Latest(ctx context.Context) (*model.ExchangeRate, error) {
	var rec model.ExchangeRate
	err := r.db.WithContext(ctx).Order("created_at desc").First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *exchangeRateRepository) History(ctx context.Context, limit int) ([]model.ExchangeRate, error) {
	var list []model.ExchangeRate
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&list).Error
	return list, err
}
