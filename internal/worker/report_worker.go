package worker

// report_worker.go
// Processes pricing report jobs from QueueReport: renders the session PDF,
// emails it through the SMTP circuit breaker, then flips the session's
// EmailSent latch. The latch is idempotent, so a job delivered twice (or a
// retry racing a slow first delivery) converges to the same record state.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omfen/fenntech-internal-system-sub001/internal/infra"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// maxReportRetries caps cron-driven re-deliveries before a job is parked
	// in the DLQ.
	maxReportRetries = 5
	// inProcessAttempts is how many times one job execution retries the SMTP
	// send before handing the job back to the retry cron.
	inProcessAttempts = 3
)

// ReportWorker delivers pricing report emails for both session types.
type ReportWorker struct {
	invoiceRepo     repository.InvoiceSessionRepository
	marketplaceRepo repository.MarketplaceSessionRepository
	mailer          *infra.Mailer
	mailCB          *infra.CircuitBreaker
	rdb             *redis.Client
	pdfStoragePath  string
	companyName     string
}

func NewReportWorker(
	invoiceRepo repository.InvoiceSessionRepository,
	marketplaceRepo repository.MarketplaceSessionRepository,
	mailer *infra.Mailer,
	mailCB *infra.CircuitBreaker,
	rdb *redis.Client,
	pdfStoragePath string,
	companyName string,
) *ReportWorker {
	return &ReportWorker{
		invoiceRepo:     invoiceRepo,
		marketplaceRepo: marketplaceRepo,
		mailer:          mailer,
		mailCB:          mailCB,
		rdb:             rdb,
		pdfStoragePath:  pdfStoragePath,
		companyName:     companyName,
	}
}

// Process handles a single report job:
//  1. Parse ReportJobPayload from the job envelope
//  2. Fetch the session; skip if already reported (idempotent delivery)
//  3. Render the PDF report
//  4. Send the email through the circuit breaker with in-process retries
//  5. On success, set EmailSent; on failure, schedule a cron retry or DLQ
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		log.Error().Str("session_id", payload.SessionID).Msg("report_worker: invalid session_id")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Str("session_id", payload.SessionID).Msg("report_worker: empty to_email — skipping")
		return
	}

	switch payload.SessionType {
	case SessionTypeInvoice:
		w.processInvoice(ctx, sessionID, payload, raw)
	case SessionTypeMarketplace:
		w.processMarketplace(ctx, sessionID, payload, raw)
	default:
		log.Error().Str("session_type", payload.SessionType).Msg("report_worker: unknown session type")
	}
}

func (w *ReportWorker) processInvoice(ctx context.Context, id uuid.UUID, payload ReportJobPayload, raw json.RawMessage) {
	session, err := w.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: invoice session not found")
		return
	}
	if session.EmailSent {
		log.Info().Str("session_id", id.String()).Msg("report_worker: report already sent — skipping")
		return
	}

	pdfPath, err := infra.GenerateInvoiceReportPDF(session, w.companyName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: PDF generation failed")
		w.scheduleInvoiceRetry(ctx, session.ReportRetryCount, id, payload, err, raw)
		return
	}

	subject := fmt.Sprintf("%s — Invoice Pricing Report", w.companyName)
	if session.InvoiceNumber != nil {
		subject = fmt.Sprintf("%s — Invoice %s Pricing Report", w.companyName, *session.InvoiceNumber)
	}
	body := fmt.Sprintf(
		"Invoice pricing session %s\nItems: %d\nTotal (JMD): $%s\n\nThe full report is attached.",
		session.ID, len(session.Items), session.TotalValue.StringFixed(2),
	)

	if err := w.send(ctx, payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: delivery failed")
		w.scheduleInvoiceRetry(ctx, session.ReportRetryCount, id, payload, err, raw)
		return
	}

	if session.MarkReported() {
		if err := w.invoiceRepo.MarkEmailSent(ctx, id); err != nil {
			log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: failed to set email_sent")
			return
		}
	}
	log.Info().Str("session_id", id.String()).Str("to", payload.ToEmail).Msg("report_worker: invoice report sent")
}

func (w *ReportWorker) processMarketplace(ctx context.Context, id uuid.UUID, payload ReportJobPayload, raw json.RawMessage) {
	session, err := w.marketplaceRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: marketplace session not found")
		return
	}
	if session.EmailSent {
		log.Info().Str("session_id", id.String()).Msg("report_worker: report already sent — skipping")
		return
	}

	pdfPath, err := infra.GenerateMarketplaceReportPDF(session, w.companyName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: PDF generation failed")
		w.scheduleMarketplaceRetry(ctx, session.ReportRetryCount, id, payload, err, raw)
		return
	}

	subject := fmt.Sprintf("%s — Marketplace Pricing Report: %s", w.companyName, session.ProductName)
	body := fmt.Sprintf(
		"Marketplace pricing session %s\nProduct: %s\nSelling price (JMD): $%s\n\nThe full report is attached.",
		session.ID, session.ProductName, session.SellingPriceJMD.StringFixed(2),
	)

	if err := w.send(ctx, payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: delivery failed")
		w.scheduleMarketplaceRetry(ctx, session.ReportRetryCount, id, payload, err, raw)
		return
	}

	if session.MarkReported() {
		if err := w.marketplaceRepo.MarkEmailSent(ctx, id); err != nil {
			log.Error().Err(err).Str("session_id", id.String()).Msg("report_worker: failed to set email_sent")
			return
		}
	}
	log.Info().Str("session_id", id.String()).Str("to", payload.ToEmail).Msg("report_worker: marketplace report sent")
}

// send delivers the email through the SMTP circuit breaker with in-process
// retries (1s, 2s backoff).
func (w *ReportWorker) send(ctx context.Context, to, subject, body, pdfPath string) error {
	return withRetry(ctx, inProcessAttempts, func(attempt int) error {
		return w.mailCB.Execute(func() error {
			return w.mailer.SendReport(to, subject, body, pdfPath)
		})
	})
}

// nextRetryDelay backs off linearly per cron-level retry: 2m, 4m, 6m, …
func nextRetryDelay(retryCount int) time.Duration {
	return time.Duration(retryCount+1) * 2 * time.Minute
}

func (w *ReportWorker) scheduleInvoiceRetry(ctx context.Context, retryCount int, id uuid.UUID, payload ReportJobPayload, cause error, raw json.RawMessage) {
	errMsg := cause.Error()
	if retryCount+1 >= maxReportRetries {
		SendToDLQ(ctx, w.rdb, QueueReport, "report", raw, errMsg, retryCount+1)
		_ = w.invoiceRepo.SetReportRetry(ctx, id, retryCount+1, nil, &errMsg, &payload.ToEmail)
		return
	}
	nextAt := time.Now().Add(nextRetryDelay(retryCount))
	_ = w.invoiceRepo.SetReportRetry(ctx, id, retryCount+1, &nextAt, &errMsg, &payload.ToEmail)
}

func (w *ReportWorker) scheduleMarketplaceRetry(ctx context.Context, retryCount int, id uuid.UUID, payload ReportJobPayload, cause error, raw json.RawMessage) {
	errMsg := cause.Error()
	if retryCount+1 >= maxReportRetries {
		SendToDLQ(ctx, w.rdb, QueueReport, "report", raw, errMsg, retryCount+1)
		_ = w.marketplaceRepo.SetReportRetry(ctx, id, retryCount+1, nil, &errMsg, &payload.ToEmail)
		return
	}
	nextAt := time.Now().Add(nextRetryDelay(retryCount))
	_ = w.marketplaceRepo.SetReportRetry(ctx, id, retryCount+1, &nextAt, &errMsg, &payload.ToEmail)
}
