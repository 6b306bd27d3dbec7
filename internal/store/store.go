package store

import (
	"context"

	"pricetracker/internal/model"
)

// ProductStore provides CRUD access to tracked products.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *model.Product) (string, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// DeleteProduct removes a product and its sources; a missing id is a
	// not-found error, distinct from a successful delete.
	DeleteProduct(ctx context.Context, id string) error
}

// SourceStore provides CRUD access to monitored sources.
type SourceStore interface {
	CreateSource(ctx context.Context, source *model.Source) (string, error)
	GetSource(ctx context.Context, id string) (*model.Source, error)
	ListSources(ctx context.Context) ([]model.Source, error)
	ListSourcesByProduct(ctx context.Context, productID string) ([]model.Source, error)
	SetSourceActive(ctx context.Context, id string, active bool) error
	DeleteSource(ctx context.Context, id string) error
}

// PriceStore provides append-only access to price observations.
type PriceStore interface {
	AddPriceRecord(ctx context.Context, record *model.PriceRecord) error
	// PriceHistory returns records for a source ordered by timestamp
	// descending, newest first.
	PriceHistory(ctx context.Context, sourceID string, limit int) ([]model.PriceRecord, error)
	LatestPrice(ctx context.Context, sourceID string) (*model.PriceRecord, error)
}

// AlertStore provides access to standing price alerts.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert *model.Alert) (string, error)
	GetAlert(ctx context.Context, id string) (*model.Alert, error)
	ListAlerts(ctx context.Context) ([]model.Alert, error)
	ListAlertsByProduct(ctx context.Context, productID string) ([]model.Alert, error)
	ListAlertsBySource(ctx context.Context, sourceID string) ([]model.Alert, error)
	// ListPendingAlerts returns alerts for a source that are active and not
	// yet triggered; only those are evaluated during a scrape.
	ListPendingAlerts(ctx context.Context, sourceID string) ([]model.Alert, error)
	// UpdateAlert applies only the fields present in the update. Reactivating
	// an alert clears its triggered state and timestamp.
	UpdateAlert(ctx context.Context, id string, update model.AlertUpdate) error
	// MarkTriggered durably flags an alert as fired before any notification
	// dispatch is attempted.
	MarkTriggered(ctx context.Context, id string) error
	DeleteAlert(ctx context.Context, id string) error
}

// SettingStore is a flat key-value configuration store with upsert semantics.
type SettingStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store is the single persistence collaborator handed to the orchestrator,
// the evaluator and the API.
type Store interface {
	ProductStore
	SourceStore
	PriceStore
	AlertStore
	SettingStore

	Close() error
}
