package service

import (
	"context"
	"time"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"
	"github.com/omfen/fenntech-internal-system-sub001/internal/pricing"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"
	"github.com/omfen/fenntech-internal-system-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketplaceService prices single marketplace listings and manages the
// resulting sessions.
type MarketplaceService interface {
	CreateSession(ctx context.Context, req dto.CreateMarketplaceSessionRequest) (*dto.MarketplaceSessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.MarketplaceSessionResponse, error)
	ListSessions(ctx context.Context, filter dto.MarketplaceSessionFilter) (*dto.MarketplaceSessionListResponse, error)
	UpdateSession(ctx context.Context, id uuid.UUID, req dto.UpdateMarketplaceSessionRequest) (*dto.MarketplaceSessionResponse, error)
	SuggestMarkup(unitCostUSD decimal.Decimal) dto.SuggestMarkupResponse
	SendReport(ctx context.Context, id uuid.UUID, toEmail string) error
	MarkReported(ctx context.Context, id uuid.UUID) error
}

type marketplaceService struct {
	repo       repository.MarketplaceSessionRepository
	rates      RateService
	dispatcher *worker.Dispatcher
}

func NewMarketplaceService(
	repo repository.MarketplaceSessionRepository,
	rates RateService,
	dispatcher *worker.Dispatcher,
) MarketplaceService {
	return &marketplaceService{repo: repo, rates: rates, dispatcher: dispatcher}
}

func (s *marketplaceService) CreateSession(ctx context.Context, req dto.CreateMarketplaceSessionRequest) (*dto.MarketplaceSessionResponse, error) {
	rate, err := resolveRate(ctx, s.rates, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	result, err := pricing.PriceMarketplaceItem(req.UnitCostUSD, rate, req.MarkupPercentage)
	if err != nil {
		return nil, err
	}

	session := materializeMarketplaceSession(result, rate, req)
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return marketplaceSessionToResponse(session), nil
}

// materializeMarketplaceSession turns a calculator result plus request
// metadata into the persisted record shape.
func materializeMarketplaceSession(result *pricing.MarketplaceResult, rate decimal.Decimal, req dto.CreateMarketplaceSessionRequest) *model.MarketplaceSession {
	return &model.MarketplaceSession{
		SourceURL:         req.SourceURL,
		ProductName:       req.ProductName,
		UnitCostUSD:       req.UnitCostUSD,
		IntermediatePrice: result.IntermediatePrice,
		MarkupPercentage:  result.MarkupPercentage,
		SellingPriceUSD:   result.SellingPriceUSD,
		SellingPriceJMD:   result.SellingPriceJMD,
		ExchangeRate:      rate,
		Status:            model.SessionPending,
		Notes:             req.Notes,
	}
}

func (s *marketplaceService) GetSession(ctx context.Context, id uuid.UUID) (*dto.MarketplaceSessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return marketplaceSessionToResponse(session), nil
}

func (s *marketplaceService) ListSessions(ctx context.Context, filter dto.MarketplaceSessionFilter) (*dto.MarketplaceSessionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MarketplaceSessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *marketplaceSessionToResponse(&sessions[i]))
	}
	return &dto.MarketplaceSessionListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *marketplaceService) UpdateSession(ctx context.Context, id uuid.UUID, req dto.UpdateMarketplaceSessionRequest) (*dto.MarketplaceSessionResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrSessionNotFound
	}
	if err := s.repo.UpdateStatusNotes(ctx, id, req.Status, req.Notes); err != nil {
		return nil, err
	}
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return marketplaceSessionToResponse(session), nil
}

// SuggestMarkup exposes the advisory tier so the client can recompute it
// whenever the cost changes and no manual override is in effect.
func (s *marketplaceService) SuggestMarkup(unitCostUSD decimal.Decimal) dto.SuggestMarkupResponse {
	return dto.SuggestMarkupResponse{
		UnitCostUSD:      unitCostUSD,
		MarkupPercentage: pricing.SuggestedMarkup(unitCostUSD),
	}
}

func (s *marketplaceService) SendReport(ctx context.Context, id uuid.UUID, toEmail string) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrSessionNotFound
	}
	if session.EmailSent {
		return ErrReportAlreadySent
	}
	return s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{
		SessionType: worker.SessionTypeMarketplace,
		SessionID:   session.ID.String(),
		ToEmail:     toEmail,
	})
}

func (s *marketplaceService) MarkReported(ctx context.Context, id uuid.UUID) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrSessionNotFound
	}
	if !session.MarkReported() {
		return nil
	}
	return s.repo.MarkEmailSent(ctx, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func marketplaceSessionToResponse(s *model.MarketplaceSession) *dto.MarketplaceSessionResponse {
	return &dto.MarketplaceSessionResponse{
		ID:                s.ID.String(),
		SourceURL:         s.SourceURL,
		ProductName:       s.ProductName,
		UnitCostUSD:       s.UnitCostUSD,
		IntermediatePrice: s.IntermediatePrice,
		MarkupPercentage:  s.MarkupPercentage,
		SellingPriceUSD:   s.SellingPriceUSD,
		SellingPriceJMD:   s.SellingPriceJMD,
		ExchangeRate:      s.ExchangeRate,
		Status:            s.Status,
		EmailSent:         s.EmailSent,
		Notes:             s.Notes,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
	}
}
