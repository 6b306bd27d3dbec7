package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricetracker/config"
	"pricetracker/internal/alert"
	"pricetracker/internal/api"
	"pricetracker/internal/scraper"
	"pricetracker/internal/store"
	"pricetracker/internal/urlparse"
	"pricetracker/logger"
	"pricetracker/services/cache"
	"pricetracker/services/publisher"
	"pricetracker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("db_path", cfg.DBPath).
		Str("schedule", cfg.ScrapeSchedule).
		Msg("Starting price tracker")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Open the record store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer st.Close()

	// Initialize optional services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	// Wire the scrape pipeline
	cooldown := cache.NewCooldown(services.Cache, cfg.CooldownBlockTime)
	extractor := scraper.NewExtractor(cfg.ScrapeTimeout, cooldown)
	notifier := alert.NewWebhookNotifier(cfg.WebhookTimeout)
	evaluator := alert.NewEvaluator(st, notifier, services.Publisher)
	sc := scraper.New(st, extractor, evaluator, services.Publisher)
	titles := urlparse.NewTitleFetcher(cfg.TitleFetchTimeout)

	// Start the API server
	server := api.NewServer(cfg.ListenAddr, cfg.Environment)
	server.SetupRoutes(api.NewHandlers(st, sc, titles))
	server.Start()

	// Create and start the periodic worker
	w := worker.NewWorker(ctx, sc, cfg.ScrapeSchedule)

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}
}

// Services holds the optional external services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes the cooldown cache and the event publisher.
// Both are optional: without a memcache address the cooldown cache lives in
// process memory, and without a redis address events are dropped.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using memcache cooldown cache at %s", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-memory cooldown cache")
	}

	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Publishing events to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	} else {
		services.Publisher = publisher.Noop{}
		logger.Info("No Redis configured, events disabled")
	}

	return services
}
