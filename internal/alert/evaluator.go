package alert

import (
	"context"
	"encoding/json"
	"time"

	"pricetracker/internal/model"
	"pricetracker/internal/store"
	"pricetracker/logger"
	"pricetracker/services/publisher"
)

// Evaluator decides which pending alerts fire for a freshly observed price
// and dispatches their notifications.
type Evaluator struct {
	store      store.Store
	dispatcher Dispatcher
	pub        publisher.Publisher
	log        *logger.Logger
}

// NewEvaluator creates an alert evaluator. pub may be nil when no event feed
// is configured.
func NewEvaluator(st store.Store, dispatcher Dispatcher, pub publisher.Publisher) *Evaluator {
	if pub == nil {
		pub = publisher.Noop{}
	}
	return &Evaluator{
		store:      st,
		dispatcher: dispatcher,
		pub:        pub,
		log:        logger.ForComponent("alerts"),
	}
}

// CheckPrice evaluates the observed price against all active, not yet
// triggered alerts for the source. The triggering condition is
// price <= target. Each firing alert is durably marked triggered before any
// dispatch attempt; delivery failures are logged and never roll that back.
func (e *Evaluator) CheckPrice(ctx context.Context, source *model.Source, productName string, price float64) ([]model.Alert, error) {
	pending, err := e.store.ListPendingAlerts(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	var triggered []model.Alert

	for _, a := range pending {
		if price > a.TargetPrice {
			continue
		}

		e.log.Info().
			Str("alert_id", a.ID).
			Float64("price", price).
			Float64("target", a.TargetPrice).
			Msg("Alert triggered")

		if err := e.store.MarkTriggered(ctx, a.ID); err != nil {
			// If the flag is not durable we must not notify, or a retry
			// could fire the same alert twice.
			e.log.Error().Err(err).Str("alert_id", a.ID).Msg("Failed to mark alert triggered")
			continue
		}
		now := time.Now()
		a.IsTriggered = true
		a.TriggeredAt = &now

		webhook := a.WebhookURL
		if webhook == "" {
			webhook, err = e.store.GetSetting(ctx, model.SettingDefaultWebhook)
			if err != nil {
				e.log.Error().Err(err).Str("alert_id", a.ID).Msg("Failed to read default webhook")
			}
		}

		if webhook == "" {
			e.log.Warn().Str("alert_id", a.ID).Msg("Alert triggered but no webhook configured")
		} else {
			payload := BuildPayload(productName, source.StoreName, price, a.TargetPrice, source.URL)
			if err := e.dispatcher.Send(ctx, webhook, payload); err != nil {
				e.log.Error().Err(err).Str("alert_id", a.ID).Msg("Notification delivery failed")
			}
		}

		e.publishTriggered(a)
		triggered = append(triggered, a)
	}

	return triggered, nil
}

func (e *Evaluator) publishTriggered(a model.Alert) {
	data, err := json.Marshal(a)
	if err != nil {
		e.log.Error().Err(err).Str("alert_id", a.ID).Msg("Failed to marshal alert event")
		return
	}
	if err := e.pub.Publish(publisher.KeyAlertTriggered, data); err != nil {
		e.log.Warn().Err(err).Str("alert_id", a.ID).Msg("Failed to publish alert event")
	}
}
