package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/session"
	"github.com/spec-kit/admin-console/internal/stores"
)

// workerSID is the synthetic session the refresher authenticates as.
const workerSID = "svc:rate-worker"

// RateWorker keeps the exchange-rate cache warm so dashboards never pay the
// upstream fetch on the request path. It authenticates with a dedicated
// service token rather than a browser session.
type RateWorker struct {
	rates      *stores.ExchangeRateStore
	sessions   *session.Manager
	dispatcher events.Dispatcher
	interval   time.Duration
	token      string
	logger     *zap.Logger
}

// NewRateWorker constructs the worker. An empty token disables it.
func NewRateWorker(rates *stores.ExchangeRateStore, sessions *session.Manager, dispatcher events.Dispatcher, interval time.Duration, token string, logger *zap.Logger) *RateWorker {
	return &RateWorker{
		rates:      rates,
		sessions:   sessions,
		dispatcher: dispatcher,
		interval:   interval,
		token:      token,
		logger:     logger,
	}
}

// Start runs the refresh loop until ctx is done. Returns immediately when
// no service token is configured.
func (w *RateWorker) Start(ctx context.Context) {
	if w.token == "" {
		w.logger.Info("rate worker disabled: no service token configured")
		return
	}
	if err := w.sessions.SetToken(ctx, workerSID, w.token); err != nil {
		w.logger.Warn("rate worker token setup failed", zap.Error(err))
		return
	}

	go w.loop(ctx)
}

func (w *RateWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RateWorker) refresh(ctx context.Context) {
	rate, err := w.rates.Rate(ctx, workerSID, true)
	if err != nil {
		w.logger.Warn("exchange rate refresh failed", zap.Error(err))
		return
	}
	w.logger.Debug("exchange rate refreshed", zap.Float64("usd_to_uzs", rate.USDToUZS))
	_ = w.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventRateUpdated,
		SessionID:  workerSID,
		OccurredAt: time.Now(),
		Fields:     map[string]any{"usd_to_uzs": rate.USDToUZS},
	})
}

// RegisterAuditLog subscribes a zap-backed audit trail for auth lifecycle
// events.
func RegisterAuditLog(dispatcher events.Dispatcher, logger *zap.Logger) {
	log := func(_ context.Context, ev events.Event) error {
		logger.Info("audit",
			zap.String("event", string(ev.Type)),
			zap.String("sid", ev.SessionID),
			zap.String("email", ev.UserEmail),
		)
		return nil
	}
	dispatcher.Subscribe(events.EventSessionLogin, log)
	dispatcher.Subscribe(events.EventSessionLogout, log)
	dispatcher.Subscribe(events.EventSessionRefreshFailed, log)
}
