package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubMarketplaceRepo struct {
	sessions      map[uuid.UUID]*model.MarketplaceSession
	markSentCalls int
}

func newStubMarketplaceRepo() *stubMarketplaceRepo {
	return &stubMarketplaceRepo{sessions: make(map[uuid.UUID]*model.MarketplaceSession)}
}

func (r *stubMarketplaceRepo) Create(_ context.Context, s *model.MarketplaceSession) error {
	s.ID = uuid.New()
	r.sessions[s.ID] = s
	return nil
}

func (r *stubMarketplaceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MarketplaceSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *s
	return &copied, nil
}

func (r *stubMarketplaceRepo) List(_ context.Context, _ dto.MarketplaceSessionFilter) ([]model.MarketplaceSession, int64, error) {
	out := make([]model.MarketplaceSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubMarketplaceRepo) UpdateStatusNotes(_ context.Context, id uuid.UUID, status, notes *string) error {
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

func (r *stubMarketplaceRepo) MarkEmailSent(_ context.Context, id uuid.UUID) error {
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("record not found")
	}
	s.EmailSent = true
	r.markSentCalls++
	return nil
}

func (r *stubMarketplaceRepo) SetReportRetry(_ context.Context, id uuid.UUID, count int, nextAt *time.Time, lastErr, toEmail *string) error {
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("record not found")
	}
	s.ReportRetryCount = count
	s.NextReportRetryAt = nextAt
	s.LastReportError = lastErr
	s.ReportToEmail = toEmail
	return nil
}

func (r *stubMarketplaceRepo) ListPendingReportRetries(_ context.Context, before time.Time, _ int) ([]model.MarketplaceSession, error) {
	var out []model.MarketplaceSession
	for _, s := range r.sessions {
		if !s.EmailSent && s.NextReportRetryAt != nil && !s.NextReportRetryAt.After(before) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateMarketplaceSessionTieredMarkup(t *testing.T) {
	repo := newStubMarketplaceRepo()
	svc := NewMarketplaceService(repo, &stubRates{rate: dec("160")}, nil)

	resp, err := svc.CreateSession(context.Background(), dto.CreateMarketplaceSessionRequest{
		SourceURL:   "https://www.amazon.com/dp/B0EXAMPLE",
		ProductName: "Refurbished Laptop",
		UnitCostUSD: dec("150"),
	})
	require.NoError(t, err)

	// 150 × 1.07 = 160.50; cost > 100 so the 120% tier applies:
	// 160.50 × 2.2 = 353.10 USD; × 160 = 56496.00 JMD.
	assert.True(t, dec("160.50").Equal(resp.IntermediatePrice), "intermediate: %s", resp.IntermediatePrice)
	assert.True(t, dec("120").Equal(resp.MarkupPercentage), "markup: %s", resp.MarkupPercentage)
	assert.True(t, dec("353.10").Equal(resp.SellingPriceUSD), "selling USD: %s", resp.SellingPriceUSD)
	assert.True(t, dec("56496.00").Equal(resp.SellingPriceJMD), "selling JMD: %s", resp.SellingPriceJMD)
	assert.Equal(t, model.SessionPending, resp.Status)
}

func TestCreateMarketplaceSessionOverrideWins(t *testing.T) {
	repo := newStubMarketplaceRepo()
	svc := NewMarketplaceService(repo, &stubRates{rate: dec("160")}, nil)

	override := dec("50")
	resp, err := svc.CreateSession(context.Background(), dto.CreateMarketplaceSessionRequest{
		SourceURL:        "https://www.ebay.com/itm/12345",
		ProductName:      "Mechanical Keyboard",
		UnitCostUSD:      dec("150"),
		MarkupPercentage: &override,
	})
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(resp.MarkupPercentage))
	// 160.50 × 1.5 = 240.75
	assert.True(t, dec("240.75").Equal(resp.SellingPriceUSD), "selling USD: %s", resp.SellingPriceUSD)
}

func TestSuggestMarkupTierBoundary(t *testing.T) {
	svc := NewMarketplaceService(newStubMarketplaceRepo(), &stubRates{rate: dec("160")}, nil)

	// The tier is decided on the raw cost, before the sourcing fee: exactly
	// 100 stays in the low tier, the first cent above it moves up.
	assert.True(t, dec("80").Equal(svc.SuggestMarkup(dec("100")).MarkupPercentage))
	assert.True(t, dec("120").Equal(svc.SuggestMarkup(dec("100.01")).MarkupPercentage))
}

func TestMarketplaceMarkReportedIdempotent(t *testing.T) {
	repo := newStubMarketplaceRepo()
	svc := NewMarketplaceService(repo, &stubRates{rate: dec("160")}, nil)

	resp, err := svc.CreateSession(context.Background(), dto.CreateMarketplaceSessionRequest{
		SourceURL:   "https://www.amazon.com/dp/B0EXAMPLE",
		ProductName: "Bluetooth Speaker",
		UnitCostUSD: dec("40"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, svc.MarkReported(context.Background(), id))
	assert.True(t, repo.sessions[id].EmailSent)
	assert.Equal(t, 1, repo.markSentCalls)

	require.NoError(t, svc.MarkReported(context.Background(), id))
	assert.Equal(t, 1, repo.markSentCalls)
}

func TestMarketplaceSendReportRefusedWhenAlreadySent(t *testing.T) {
	repo := newStubMarketplaceRepo()
	svc := NewMarketplaceService(repo, &stubRates{rate: dec("160")}, nil)

	resp, err := svc.CreateSession(context.Background(), dto.CreateMarketplaceSessionRequest{
		SourceURL:   "https://www.newegg.com/p/N82EXAMPLE",
		ProductName: "External SSD",
		UnitCostUSD: dec("90"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	repo.sessions[id].EmailSent = true

	err = svc.SendReport(context.Background(), id, "desk@fenntech.local")
	assert.ErrorIs(t, err, ErrReportAlreadySent)
}
