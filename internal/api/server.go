package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricetracker/logger"
)

// Server is the HTTP API surface over the tracker core.
type Server struct {
	router *gin.Engine
	srv    *http.Server
	log    *logger.Logger
}

// NewServer creates the API server listening on addr.
func NewServer(addr string, environment string) *Server {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return &Server{
		router: router,
		srv:    srv,
		log:    logger.ForAPI(),
	}
}

// SetupRoutes registers all routes on the server.
func (s *Server) SetupRoutes(h *Handlers) {
	s.router.GET("/health", h.Health)

	api := s.router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.POST("", h.CreateProduct)
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.DELETE("/:id", h.DeleteProduct)
		}

		sources := api.Group("/sources")
		{
			sources.POST("", h.CreateSource)
			sources.GET("", h.ListSources)
			sources.GET("/:id", h.GetSource)
			sources.PATCH("/:id/active", h.SetSourceActive)
			sources.DELETE("/:id", h.DeleteSource)
		}

		prices := api.Group("/prices")
		{
			prices.GET("/:sourceId", h.PriceHistory)
			prices.GET("/:sourceId/latest", h.LatestPrice)
		}

		alerts := api.Group("/alerts")
		{
			alerts.POST("", h.CreateAlert)
			alerts.GET("", h.ListAlerts)
			alerts.GET("/:id", h.GetAlert)
			alerts.PUT("/:id", h.UpdateAlert)
			alerts.DELETE("/:id", h.DeleteAlert)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/webhook", h.GetDefaultWebhook)
			settings.PUT("/webhook", h.SetDefaultWebhook)
		}

		scraperGroup := api.Group("/scraper")
		{
			scraperGroup.POST("/run", h.RunScrape)
			scraperGroup.POST("/run-sync", h.RunScrapeSync)
			scraperGroup.POST("/test/:sourceId", h.TestScrapeSource)
		}

		api.POST("/url/parse", h.ParseURL)
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("API server listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("API server failed")
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
