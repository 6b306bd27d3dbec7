package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pricetracker/internal/model"
	"pricetracker/logger"
	trackererrors "pricetracker/pkg/errors"
)

// SQLiteStore implements Store on a single SQLite database via gorm.
type SQLiteStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema.
func Open(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Source{},
		&model.PriceRecord{},
		&model.Alert{},
		&model.Setting{},
	); err != nil {
		return nil, err
	}

	return &SQLiteStore{
		db:  db,
		log: logger.ForStore(),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Products

func (s *SQLiteStore) CreateProduct(ctx context.Context, product *model.Product) (string, error) {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return "", err
	}
	return product.ID, nil
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trackererrors.NewNotFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("created_at").Find(&products).Error
	return products, err
}

func (s *SQLiteStore) DeleteProduct(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return trackererrors.NewNotFound("product", id)
		}
		// Product ownership cascades to its sources.
		return tx.Delete(&model.Source{}, "product_id = ?", id).Error
	})
}

// Sources

func (s *SQLiteStore) CreateSource(ctx context.Context, source *model.Source) (string, error) {
	if err := s.db.WithContext(ctx).Create(source).Error; err != nil {
		return "", err
	}
	return source.ID, nil
}

func (s *SQLiteStore) GetSource(ctx context.Context, id string) (*model.Source, error) {
	var source model.Source
	err := s.db.WithContext(ctx).First(&source, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trackererrors.NewNotFound("source", id)
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (s *SQLiteStore) ListSources(ctx context.Context) ([]model.Source, error) {
	var sources []model.Source
	err := s.db.WithContext(ctx).Order("created_at").Find(&sources).Error
	return sources, err
}

func (s *SQLiteStore) ListSourcesByProduct(ctx context.Context, productID string) ([]model.Source, error) {
	var sources []model.Source
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&sources).Error
	return sources, err
}

func (s *SQLiteStore) SetSourceActive(ctx context.Context, id string, active bool) error {
	res := s.db.WithContext(ctx).Model(&model.Source{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return trackererrors.NewNotFound("source", id)
	}
	return nil
}

func (s *SQLiteStore) DeleteSource(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Source{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return trackererrors.NewNotFound("source", id)
	}
	return nil
}

// Price records

func (s *SQLiteStore) AddPriceRecord(ctx context.Context, record *model.PriceRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.Currency == "" {
		record.Currency = model.DefaultCurrency
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *SQLiteStore) PriceHistory(ctx context.Context, sourceID string, limit int) ([]model.PriceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []model.PriceRecord
	err := s.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (s *SQLiteStore) LatestPrice(ctx context.Context, sourceID string) (*model.PriceRecord, error) {
	var record model.PriceRecord
	err := s.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("timestamp DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trackererrors.NewNotFound("price record", sourceID)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Alerts

func (s *SQLiteStore) CreateAlert(ctx context.Context, alert *model.Alert) (string, error) {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return "", err
	}
	return alert.ID, nil
}

func (s *SQLiteStore) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	var alert model.Alert
	err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trackererrors.NewNotFound("alert", id)
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (s *SQLiteStore) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (s *SQLiteStore) ListAlertsByProduct(ctx context.Context, productID string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (s *SQLiteStore) ListAlertsBySource(ctx context.Context, sourceID string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := s.db.WithContext(ctx).Where("source_id = ?", sourceID).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (s *SQLiteStore) ListPendingAlerts(ctx context.Context, sourceID string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := s.db.WithContext(ctx).
		Where("source_id = ? AND is_active = ? AND is_triggered = ?", sourceID, true, false).
		Find(&alerts).Error
	return alerts, err
}

func (s *SQLiteStore) UpdateAlert(ctx context.Context, id string, update model.AlertUpdate) error {
	if update.IsEmpty() {
		// Nothing to apply; still distinguish a missing alert.
		_, err := s.GetAlert(ctx, id)
		return err
	}

	fields := map[string]interface{}{}
	if update.TargetPrice != nil {
		fields["target_price"] = *update.TargetPrice
	}
	if update.WebhookURL != nil {
		fields["webhook_url"] = *update.WebhookURL
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
		if *update.IsActive {
			// Reactivation re-arms the alert.
			fields["is_triggered"] = false
			fields["triggered_at"] = nil
		}
	}

	res := s.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return trackererrors.NewNotFound("alert", id)
	}
	return nil
}

func (s *SQLiteStore) MarkTriggered(ctx context.Context, id string) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_triggered": true,
		"triggered_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return trackererrors.NewNotFound("alert", id)
	}
	return nil
}

func (s *SQLiteStore) DeleteAlert(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Alert{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return trackererrors.NewNotFound("alert", id)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
