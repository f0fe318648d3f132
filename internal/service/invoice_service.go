package service

import (
	"context"
	"errors"
	"time"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"
	"github.com/omfen/fenntech-internal-system-sub001/internal/pricing"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"
	"github.com/omfen/fenntech-internal-system-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrReportAlreadySent is returned when a report is requested for a session
// whose EmailSent latch is already set.
var ErrReportAlreadySent = errors.New("report already sent for this session")

// ErrSessionNotFound is the service-level not-found for both session kinds.
var ErrSessionNotFound = errors.New("session not found")

// InvoiceService prices invoice batches and manages the resulting sessions.
type InvoiceService interface {
	CreateSession(ctx context.Context, req dto.CreateInvoiceSessionRequest) (*dto.InvoiceSessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.InvoiceSessionResponse, error)
	ListSessions(ctx context.Context, filter dto.InvoiceSessionFilter) (*dto.InvoiceSessionListResponse, error)
	UpdateSession(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceSessionRequest) (*dto.InvoiceSessionResponse, error)
	SendReport(ctx context.Context, id uuid.UUID, toEmail string) error
	MarkReported(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	repo         repository.InvoiceSessionRepository
	categoryRepo repository.CategoryRepository
	rates        RateService
	dispatcher   *worker.Dispatcher
}

func NewInvoiceService(
	repo repository.InvoiceSessionRepository,
	categoryRepo repository.CategoryRepository,
	rates RateService,
	dispatcher *worker.Dispatcher,
) InvoiceService {
	return &invoiceService{
		repo:         repo,
		categoryRepo: categoryRepo,
		rates:        rates,
		dispatcher:   dispatcher,
	}
}

// registrySnapshot reads the category table exactly once and freezes it for
// the whole pricing run, so concurrent category edits cannot split a batch
// across inconsistent markup rates.
func (s *invoiceService) registrySnapshot(ctx context.Context) (pricing.Registry, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	cats := make([]pricing.Category, 0, len(categories))
	for _, c := range categories {
		cats = append(cats, pricing.Category{
			ID:               c.ID,
			Name:             c.Name,
			MarkupPercentage: c.MarkupPercentage,
		})
	}
	return pricing.NewRegistry(cats), nil
}

// CreateSession runs the full invoice pricing pipeline: resolve the exchange
// rate, snapshot the registry, price every line, then materialize and persist
// the session. A session is only written after every item priced cleanly.
func (s *invoiceService) CreateSession(ctx context.Context, req dto.CreateInvoiceSessionRequest) (*dto.InvoiceSessionResponse, error) {
	rate, err := resolveRate(ctx, s.rates, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	reg, err := s.registrySnapshot(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]pricing.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pricing.LineItem{
			Description: it.Description,
			UnitCostUSD: it.UnitCostUSD,
		})
	}

	result, err := pricing.PriceInvoice(items, rate, req.RoundingOption, reg)
	if err != nil {
		return nil, err
	}

	session := materializeInvoiceSession(result, rate, req)
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return invoiceSessionToResponse(session), nil
}

// materializeInvoiceSession turns a calculator result plus request metadata
// into the persisted record shape. Pure — no I/O, no clock beyond the
// CreatedAt the DB fills in.
func materializeInvoiceSession(result *pricing.InvoiceResult, rate decimal.Decimal, req dto.CreateInvoiceSessionRequest) *model.InvoiceSession {
	session := &model.InvoiceSession{
		InvoiceNumber:  req.InvoiceNumber,
		ExchangeRate:   rate,
		RoundingOption: req.RoundingOption,
		TotalValue:     result.TotalValue,
		Status:         model.SessionPending,
		Notes:          req.Notes,
	}
	for i, it := range result.Items {
		session.Items = append(session.Items, model.InvoiceLineItem{
			Position:         i,
			Description:      it.Description,
			UnitCostUSD:      it.UnitCostUSD,
			CategoryID:       it.CategoryID,
			CategoryName:     it.CategoryName,
			MarkupPercentage: it.MarkupPercentage,
			CostJMD:          it.CostJMD,
			FinalPrice:       it.FinalPrice,
		})
	}
	return session
}

func (s *invoiceService) GetSession(ctx context.Context, id uuid.UUID) (*dto.InvoiceSessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return invoiceSessionToResponse(session), nil
}

func (s *invoiceService) ListSessions(ctx context.Context, filter dto.InvoiceSessionFilter) (*dto.InvoiceSessionListResponse, error) {
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
	data := make([]dto.InvoiceSessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *invoiceSessionToResponse(&sessions[i]))
	}
	return &dto.InvoiceSessionListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// UpdateSession changes status and/or notes. Financial fields are immutable
// after materialization and have no update path.
func (s *invoiceService) UpdateSession(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceSessionRequest) (*dto.InvoiceSessionResponse, error) {
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
	return invoiceSessionToResponse(session), nil
}

// SendReport enqueues the async report job. Sessions already reported are
// refused so the desk does not double-send; the worker-side MarkReported
// latch additionally protects against duplicate deliveries in flight.
func (s *invoiceService) SendReport(ctx context.Context, id uuid.UUID, toEmail string) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrSessionNotFound
	}
	if session.EmailSent {
		return ErrReportAlreadySent
	}
	return s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{
		SessionType: worker.SessionTypeInvoice,
		SessionID:   session.ID.String(),
		ToEmail:     toEmail,
	})
}

// MarkReported flips the EmailSent latch. Idempotent: marking an
// already-reported session is a no-op, not an error.
func (s *invoiceService) MarkReported(ctx context.Context, id uuid.UUID) error {
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

func invoiceSessionToResponse(s *model.InvoiceSession) *dto.InvoiceSessionResponse {
	items := make([]dto.InvoiceLineItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.InvoiceLineItemResponse{
			Description:      it.Description,
			UnitCostUSD:      it.UnitCostUSD,
			CategoryID:       it.CategoryID.String(),
			CategoryName:     it.CategoryName,
			MarkupPercentage: it.MarkupPercentage,
			CostJMD:          it.CostJMD,
			FinalPrice:       it.FinalPrice,
		})
	}
	return &dto.InvoiceSessionResponse{
		ID:             s.ID.String(),
		InvoiceNumber:  s.InvoiceNumber,
		Items:          items,
		ExchangeRate:   s.ExchangeRate,
		RoundingOption: s.RoundingOption,
		TotalValue:     s.TotalValue,
		Status:         s.Status,
		EmailSent:      s.EmailSent,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
