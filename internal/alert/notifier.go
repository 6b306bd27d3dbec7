package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"pricetracker/logger"
	trackererrors "pricetracker/pkg/errors"
)

// Payload is the webhook notification body. It follows the ntfy.sh shape but
// any endpoint accepting JSON POSTs works.
type Payload struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority int      `json:"priority"`
	Tags     []string `json:"tags"`
	Click    string   `json:"click,omitempty"`
}

// BuildPayload renders the celebratory price-drop notification.
func BuildPayload(productName, storeName string, currentPrice, targetPrice float64, productURL string) Payload {
	return Payload{
		Title:    "🎉 Price Drop Alert!",
		Message:  fmt.Sprintf("%s dropped to $%.2f at %s (target: $%.2f)", productName, currentPrice, storeName, targetPrice),
		Priority: 4,
		Tags:     []string{"moneybag", "chart_with_downwards_trend"},
		Click:    productURL,
	}
}

// Dispatcher delivers a notification payload to a webhook URL.
type Dispatcher interface {
	Send(ctx context.Context, webhookURL string, payload Payload) error
}

// WebhookNotifier POSTs payloads as JSON with a bounded timeout.
type WebhookNotifier struct {
	client *resty.Client
	log    *logger.Logger
}

// NewWebhookNotifier creates a notifier whose requests are bounded by timeout.
func NewWebhookNotifier(timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		client: resty.New().SetTimeout(timeout),
		log:    logger.ForNotifier(),
	}
}

// Send POSTs the payload. Status 200/201/204 is delivery success; anything
// else is a delivery error.
func (n *WebhookNotifier) Send(ctx context.Context, webhookURL string, payload Payload) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(webhookURL)
	if err != nil {
		return trackererrors.NewDelivery(webhookURL, "webhook request failed", err)
	}

	switch resp.StatusCode() {
	case 200, 201, 204:
		n.log.Info().Str("webhook", webhookURL).Msg("Notification sent")
		return nil
	default:
		return trackererrors.NewDelivery(webhookURL,
			fmt.Sprintf("webhook returned status %d: %s", resp.StatusCode(), resp.String()), nil)
	}
}
