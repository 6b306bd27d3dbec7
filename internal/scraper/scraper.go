package scraper

import (
	"context"
	"encoding/json"

	"pricetracker/internal/model"
	"pricetracker/internal/store"
	"pricetracker/logger"
	"pricetracker/services/publisher"
)

// AlertChecker evaluates a freshly observed price against pending alerts.
// Implemented by the alert evaluator; substituted with a fake in tests.
type AlertChecker interface {
	CheckPrice(ctx context.Context, source *model.Source, productName string, price float64) ([]model.Alert, error)
}

// Scraper runs the extraction pipeline: resolve source, fetch and extract,
// normalize, persist the observation, evaluate alerts.
type Scraper struct {
	store     store.Store
	extractor *Extractor
	alerts    AlertChecker
	pub       publisher.Publisher
	log       *logger.Logger
}

// New creates a scrape orchestrator. pub may be nil when no event feed is
// configured.
func New(st store.Store, extractor *Extractor, alerts AlertChecker, pub publisher.Publisher) *Scraper {
	if pub == nil {
		pub = publisher.Noop{}
	}
	return &Scraper{
		store:     st,
		extractor: extractor,
		alerts:    alerts,
		pub:       pub,
		log:       logger.ForScraper(),
	}
}

// ScrapeSource scrapes a single source by id and returns the observed price.
// Every attempt after the source resolves writes exactly one price record;
// failures write a zero-price record with the error text and then propagate.
func (s *Scraper) ScrapeSource(ctx context.Context, sourceID string) (float64, error) {
	source, err := s.store.GetSource(ctx, sourceID)
	if err != nil {
		return 0, err
	}

	productName := "Product"
	if product, err := s.store.GetProduct(ctx, source.ProductID); err == nil {
		productName = product.Name
	}

	raw, err := s.extractor.Extract(ctx, source.URL, source.Rule())
	if err != nil {
		s.recordFailure(ctx, source.ID, err)
		return 0, err
	}

	price, err := NormalizePrice(raw)
	if err != nil {
		s.recordFailure(ctx, source.ID, err)
		return 0, err
	}

	record := &model.PriceRecord{
		SourceID: source.ID,
		Price:    price,
		Success:  true,
	}
	if err := s.store.AddPriceRecord(ctx, record); err != nil {
		return 0, err
	}

	s.publish(publisher.KeyPriceRecord, record)

	s.log.Debug().
		Str("source_id", source.ID).
		Str("store", source.StoreName).
		Float64("price", price).
		Msg("Scraped price")

	// Alert evaluation runs after the observation is durable. Its failures
	// are logged, not escalated; the price was observed either way.
	if _, err := s.alerts.CheckPrice(ctx, source, productName, price); err != nil {
		s.log.Error().Err(err).Str("source_id", source.ID).Msg("Alert evaluation failed")
	}

	return price, nil
}

// ScrapeAllActive iterates every active source sequentially, catching
// per-source failures so one bad source cannot abort the batch.
func (s *Scraper) ScrapeAllActive(ctx context.Context) (*model.BatchResult, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.BatchResult{Details: []model.SourceResult{}}

	for _, source := range sources {
		// Inactive sources are skipped entirely: no record, no detail entry.
		if !source.IsActive {
			continue
		}

		price, err := s.ScrapeSource(ctx, source.ID)
		if err != nil {
			result.Failed++
			result.Details = append(result.Details, model.SourceResult{
				SourceID: source.ID,
				Status:   model.StatusFailed,
				Error:    err.Error(),
			})
			continue
		}

		result.Success++
		result.Details = append(result.Details, model.SourceResult{
			SourceID: source.ID,
			Status:   model.StatusSuccess,
			Price:    price,
		})
	}

	s.publish(publisher.KeyBatchResult, result)
	if err := s.pub.TrimStreams(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to trim event streams")
	}

	s.log.Info().
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("Batch scrape finished")

	return result, nil
}

// ScrapeAllActiveAsync runs a full batch in the background and returns
// immediately. The batch is detached from the caller's context so it always
// runs to completion.
func (s *Scraper) ScrapeAllActiveAsync() {
	go func() {
		if _, err := s.ScrapeAllActive(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("Background batch scrape failed")
		}
	}()
}

// recordFailure writes the failed attempt's price record. The record is the
// durable trace; if even that write fails we still leave a log line.
func (s *Scraper) recordFailure(ctx context.Context, sourceID string, cause error) {
	record := &model.PriceRecord{
		SourceID:     sourceID,
		Price:        0,
		Success:      false,
		ErrorMessage: cause.Error(),
	}
	if err := s.store.AddPriceRecord(ctx, record); err != nil {
		s.log.Error().Err(err).Str("source_id", sourceID).Msg("Failed to persist failure record")
	}
}

func (s *Scraper) publish(key string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to marshal event")
		return
	}
	if err := s.pub.Publish(key, data); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to publish event")
	}
}
