package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omfen/fenntech-internal-system-sub001/internal/infra"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"
)

const (
	retryCronInterval = 30 * time.Second
	retryBatchSize    = 50
)

// RetryCron periodically re-enqueues report jobs whose earlier delivery
// attempts failed. Sessions become eligible once next_report_retry_at has
// elapsed; the recipient persisted at schedule time is reused so the retry
// lands in the same inbox as the original request.
type RetryCron struct {
	invoiceRepo     repository.InvoiceSessionRepository
	marketplaceRepo repository.MarketplaceSessionRepository
	dispatcher      *Dispatcher
	mailCB          *infra.CircuitBreaker
}

func NewRetryCron(
	invoiceRepo repository.InvoiceSessionRepository,
	marketplaceRepo repository.MarketplaceSessionRepository,
	dispatcher *Dispatcher,
	mailCB *infra.CircuitBreaker,
) *RetryCron {
	return &RetryCron{
		invoiceRepo:     invoiceRepo,
		marketplaceRepo: marketplaceRepo,
		dispatcher:      dispatcher,
		mailCB:          mailCB,
	}
}

// Start runs the cron loop until ctx is cancelled.
func (c *RetryCron) Start(ctx context.Context) {
	log.Info().Dur("interval", retryCronInterval).Msg("report retry cron started")
	ticker := time.NewTicker(retryCronInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("report retry cron stopped")
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *RetryCron) tick(ctx context.Context) {
	// While the mail relay breaker is open, re-enqueueing would only burn
	// attempts against a known-bad upstream. Wait for it to half-open.
	if c.mailCB.State() == infra.CBOpen {
		log.Debug().Msg("mail circuit open — skipping report retry tick")
		return
	}

	now := time.Now()

	invoices, err := c.invoiceRepo.ListPendingReportRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry cron: listing invoice sessions failed")
	} else {
		for _, s := range invoices {
			if s.ReportToEmail == nil {
				continue
			}
			payload := ReportJobPayload{
				SessionType: SessionTypeInvoice,
				SessionID:   s.ID.String(),
				ToEmail:     *s.ReportToEmail,
			}
			if err := c.dispatcher.EnqueueReport(ctx, payload); err != nil {
				log.Error().Err(err).Str("session_id", s.ID.String()).Msg("retry cron: enqueue invoice report failed")
				continue
			}
			log.Info().Str("session_id", s.ID.String()).Int("retry_count", s.ReportRetryCount).Msg("invoice report retry enqueued")
		}
	}

	marketplaces, err := c.marketplaceRepo.ListPendingReportRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry cron: listing marketplace sessions failed")
		return
	}
	for _, s := range marketplaces {
		if s.ReportToEmail == nil {
			continue
		}
		payload := ReportJobPayload{
			SessionType: SessionTypeMarketplace,
			SessionID:   s.ID.String(),
			ToEmail:     *s.ReportToEmail,
		}
		if err := c.dispatcher.EnqueueReport(ctx, payload); err != nil {
			log.Error().Err(err).Str("session_id", s.ID.String()).Msg("retry cron: enqueue marketplace report failed")
			continue
		}
		log.Info().Str("session_id", s.ID.String()).Int("retry_count", s.ReportRetryCount).Msg("marketplace report retry enqueued")
	}
}
