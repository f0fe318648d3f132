package service

import (
	"context"
	"errors"
	"time"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	rateCacheKey = "exchange_rate:current"
	rateCacheTTL = 5 * time.Minute
)

// ErrNoExchangeRate is returned when no rate has ever been configured.
var ErrNoExchangeRate = errors.New("no exchange rate configured")

// RateService supplies the current USD→JMD exchange rate to the pricing
// services and lets managers update it. The current rate is cached in Redis;
// Postgres keeps the append-only history.
type RateService interface {
	Current(ctx context.Context) (decimal.Decimal, error)
	CurrentResponse(ctx context.Context) (*dto.ExchangeRateResponse, error)
	Update(ctx context.Context, rate decimal.Decimal, updatedBy *uuid.UUID) (*dto.ExchangeRateResponse, error)
}

type rateService struct {
	repo repository.ExchangeRateRepository
	rdb  *redis.Client
}

func NewRateService(repo repository.ExchangeRateRepository, rdb *redis.Client) RateService {
	return &rateService{repo: repo, rdb: rdb}
}

func (s *rateService) Current(ctx context.Context) (decimal.Decimal, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, rateCacheKey).Result(); err == nil {
			if rate, perr := decimal.NewFromString(cached); perr == nil && rate.IsPositive() {
				return rate, nil
			}
		}
	}

	rec, err := s.repo.Latest(ctx)
	if err != nil {
		return decimal.Zero, ErrNoExchangeRate
	}
	s.cache(ctx, rec.Rate)
	return rec.Rate, nil
}

func (s *rateService) CurrentResponse(ctx context.Context) (*dto.ExchangeRateResponse, error) {
	rec, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, ErrNoExchangeRate
	}
	return &dto.ExchangeRateResponse{
		Rate:      rec.Rate,
		UpdatedAt: rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *rateService) Update(ctx context.Context, rate decimal.Decimal, updatedBy *uuid.UUID) (*dto.ExchangeRateResponse, error) {
	if !rate.IsPositive() {
		return nil, errors.New("exchange rate must be greater than zero")
	}

	rec := &model.ExchangeRate{Rate: rate, UpdatedBy: updatedBy}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.cache(ctx, rate)

	return &dto.ExchangeRateResponse{
		Rate:      rec.Rate,
		UpdatedAt: rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

// resolveRate picks the rate for a pricing run: an explicit request override
// when present, otherwise the desk's current rate.
func resolveRate(ctx context.Context, rates RateService, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	return rates.Current(ctx)
}

// cache is best-effort — a pricing run falls back to Postgres when Redis
// is unavailable.
func (s *rateService) cache(ctx context.Context, rate decimal.Decimal) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, rateCacheKey, rate.String(), rateCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("rate_service: failed to cache exchange rate")
	}
}
