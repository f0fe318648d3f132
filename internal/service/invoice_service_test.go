package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"
	"github.com/omfen/fenntech-internal-system-sub001/internal/pricing"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories []model.Category
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	c.ID = uuid.New()
	r.categories = append(r.categories, *c)
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	return r.categories, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			return &r.categories[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for i := range r.categories {
		if r.categories[i].Name == name {
			return &r.categories[i], nil
		}
	}
	return nil, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	for i := range r.categories {
		if r.categories[i].ID == c.ID {
			r.categories[i] = *c
			return nil
		}
	}
	return errors.New("record not found")
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

type stubInvoiceRepo struct {
	sessions       map[uuid.UUID]*model.InvoiceSession
	markSentCalls  int
	retrySchedules int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{sessions: make(map[uuid.UUID]*model.InvoiceSession)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, s *model.InvoiceSession) error {
	s.ID = uuid.New()
	r.sessions[s.ID] = s
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InvoiceSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *s
	return &copied, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ dto.InvoiceSessionFilter) ([]model.InvoiceSession, int64, error) {
	out := make([]model.InvoiceSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) UpdateStatusNotes(_ context.Context, id uuid.UUID, status, notes *string) error {
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("record not found")
	}
	if status != nil {
		s.Status = *status
	}
	if notes != nil {
		s.Notes = notes
	}
	return nil
}

func (r *stubInvoiceRepo) MarkEmailSent(_ context.Context, id uuid.UUID) error {
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("record not found")
	}
	s.EmailSent = true
	r.markSentCalls++
	return nil
}

func (r *stubInvoiceRepo) SetReportRetry(_ context.Context, id uuid.UUID, count int, nextAt *time.Time, lastErr, toEmail *string) error {
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("record not found")
	}
	s.ReportRetryCount = count
	s.NextReportRetryAt = nextAt
	s.LastReportError = lastErr
	s.ReportToEmail = toEmail
	r.retrySchedules++
	return nil
}

func (r *stubInvoiceRepo) ListPendingReportRetries(_ context.Context, before time.Time, _ int) ([]model.InvoiceSession, error) {
	var out []model.InvoiceSession
	for _, s := range r.sessions {
		if !s.EmailSent && s.NextReportRetryAt != nil && !s.NextReportRetryAt.After(before) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// stubRates serves a fixed rate without touching Redis or Postgres.
type stubRates struct {
	rate decimal.Decimal
	err  error
}

func (s *stubRates) Current(_ context.Context) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.rate, nil
}

func (s *stubRates) CurrentResponse(_ context.Context) (*dto.ExchangeRateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ExchangeRateResponse{Rate: s.rate}, nil
}

func (s *stubRates) Update(_ context.Context, rate decimal.Decimal, _ *uuid.UUID) (*dto.ExchangeRateResponse, error) {
	s.rate = rate
	return &dto.ExchangeRateResponse{Rate: rate}, nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

func seededCategoryRepo() *stubCategoryRepo {
	markups := map[string]string{
		"Ink":         "45",
		"Adaptors":    "50",
		"Headphones":  "50",
		"Routers":     "45",
		"UPS":         "40",
		"Laptop Bags": "50",
		"Laptops":     "25",
		"Desktops":    "25",
		"Sub Woofers": "40",
		"Speakers":    "45",
		"Accessories": "55",
	}
	repo := &stubCategoryRepo{}
	for name, markup := range markups {
		repo.categories = append(repo.categories, model.Category{
			ID:               uuid.New(),
			Name:             name,
			MarkupPercentage: decimal.RequireFromString(markup),
		})
	}
	return repo
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateInvoiceSessionPersistsSnapshot(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, seededCategoryRepo(), &stubRates{rate: dec("150")}, nil)

	resp, err := svc.CreateSession(context.Background(), dto.CreateInvoiceSessionRequest{
		Items: []dto.InvoiceLineItemRequest{
			{Description: "HP 67XL Ink Cartridge", UnitCostUSD: dec("10")},
		},
		RoundingOption: 100,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	item := resp.Items[0]
	assert.Equal(t, "Ink", item.CategoryName)
	assert.True(t, dec("45").Equal(item.MarkupPercentage), "markup snapshot: %s", item.MarkupPercentage)
	assert.True(t, dec("1500").Equal(item.CostJMD), "cost JMD: %s", item.CostJMD)
	assert.True(t, dec("2500").Equal(item.FinalPrice), "final price: %s", item.FinalPrice)
	assert.True(t, dec("2500").Equal(resp.TotalValue), "total: %s", resp.TotalValue)
	assert.Equal(t, model.SessionPending, resp.Status)
	assert.False(t, resp.EmailSent)

	// The persisted record carries the same frozen snapshot.
	stored := repo.sessions[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	assert.Equal(t, "Ink", stored.Items[0].CategoryName)
	assert.True(t, dec("150").Equal(stored.ExchangeRate))
}

func TestCreateInvoiceSessionRateOverrideWins(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, seededCategoryRepo(), &stubRates{rate: dec("150")}, nil)

	override := dec("160")
	resp, err := svc.CreateSession(context.Background(), dto.CreateInvoiceSessionRequest{
		Items: []dto.InvoiceLineItemRequest{
			{Description: "TP-Link Archer Router", UnitCostUSD: dec("10")},
		},
		ExchangeRate:   &override,
		RoundingOption: 100,
	})
	require.NoError(t, err)
	assert.True(t, dec("160").Equal(resp.ExchangeRate))
	// 10 × 160 = 1600; +15% GCT = 1840; ×1.45 = 2668; round to 2700
	assert.True(t, dec("2700").Equal(resp.Items[0].FinalPrice), "final price: %s", resp.Items[0].FinalPrice)
}

func TestCreateInvoiceSessionNoRateConfigured(t *testing.T) {
	svc := NewInvoiceService(newStubInvoiceRepo(), seededCategoryRepo(), &stubRates{err: ErrNoExchangeRate}, nil)

	_, err := svc.CreateSession(context.Background(), dto.CreateInvoiceSessionRequest{
		Items:          []dto.InvoiceLineItemRequest{{Description: "USB Hub", UnitCostUSD: dec("5")}},
		RoundingOption: 100,
	})
	assert.ErrorIs(t, err, ErrNoExchangeRate)
}

func TestCreateInvoiceSessionUnseededCategory(t *testing.T) {
	// Registry missing Accessories — the classifier fallback — so any
	// unmatched description must fail loudly, not price at a guessed markup.
	repo := &stubCategoryRepo{categories: []model.Category{
		{ID: uuid.New(), Name: "Ink", MarkupPercentage: dec("45")},
	}}
	svc := NewInvoiceService(newStubInvoiceRepo(), repo, &stubRates{rate: dec("150")}, nil)

	_, err := svc.CreateSession(context.Background(), dto.CreateInvoiceSessionRequest{
		Items:          []dto.InvoiceLineItemRequest{{Description: "Mystery Gadget", UnitCostUSD: dec("5")}},
		RoundingOption: 100,
	})
	var notConfigured *pricing.CategoryNotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, "Accessories", notConfigured.Name)
}

func TestInvoiceMarkReportedIdempotent(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, seededCategoryRepo(), &stubRates{rate: dec("150")}, nil)

	resp, err := svc.CreateSession(context.Background(), dto.CreateInvoiceSessionRequest{
		Items:          []dto.InvoiceLineItemRequest{{Description: "APC UPS 650VA", UnitCostUSD: dec("50")}},
		RoundingOption: 1000,
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, svc.MarkReported(context.Background(), id))
	assert.True(t, repo.sessions[id].EmailSent)
	assert.Equal(t, 1, repo.markSentCalls)

	// Second mark is a no-op, not an error and not a second write.
	require.NoError(t, svc.MarkReported(context.Background(), id))
	assert.Equal(t, 1, repo.markSentCalls)
}

func TestInvoiceSendReportRefusedWhenAlreadySent(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, seededCategoryRepo(), &stubRates{rate: dec("150")}, nil)

	resp, err := svc.CreateSession(context.Background(), dto.CreateInvoiceSessionRequest{
		Items:          []dto.InvoiceLineItemRequest{{Description: "Logitech Headphones", UnitCostUSD: dec("20")}},
		RoundingOption: 100,
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	repo.sessions[id].EmailSent = true

	err = svc.SendReport(context.Background(), id, "desk@fenntech.local")
	assert.ErrorIs(t, err, ErrReportAlreadySent)
}

func TestInvoiceUpdateSessionNotFound(t *testing.T) {
	svc := NewInvoiceService(newStubInvoiceRepo(), seededCategoryRepo(), &stubRates{rate: dec("150")}, nil)

	status := model.SessionApproved
	_, err := svc.UpdateSession(context.Background(), uuid.New(), dto.UpdateInvoiceSessionRequest{Status: &status})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
