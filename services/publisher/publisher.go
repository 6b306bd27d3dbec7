package publisher

// Publisher emits tracker events (price observations, triggered alerts) to an
// external feed so other consumers can follow along.
type Publisher interface {
	// Publish publishes a message under an event key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

// Event keys published by the tracker.
const (
	KeyPriceRecord    = "price_record"
	KeyAlertTriggered = "alert_triggered"
	KeyBatchResult    = "batch_result"
)

// Noop is a Publisher that drops everything. Used when no event feed is
// configured.
type Noop struct{}

func (Noop) Publish(key string, message []byte) error { return nil }
func (Noop) TrimStreams() error                       { return nil }
func (Noop) Close() error                             { return nil }
