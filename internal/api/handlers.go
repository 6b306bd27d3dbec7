package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pricetracker/internal/model"
	"pricetracker/internal/scraper"
	"pricetracker/internal/store"
	"pricetracker/internal/urlparse"
	"pricetracker/logger"
	trackererrors "pricetracker/pkg/errors"
)

// Handlers bundles the collaborators the API needs. All dependencies are
// injected at construction; there is no package-level state.
type Handlers struct {
	store   store.Store
	scraper *scraper.Scraper
	titles  *urlparse.TitleFetcher
	log     *logger.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(st store.Store, sc *scraper.Scraper, titles *urlparse.TitleFetcher) *Handlers {
	return &Handlers{
		store:   st,
		scraper: sc,
		titles:  titles,
		log:     logger.ForAPI(),
	}
}

// Envelope helpers. Every response is {"success": bool, ...}.

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func failFrom(c *gin.Context, err error) {
	if trackererrors.IsNotFound(err) {
		fail(c, http.StatusNotFound, err)
		return
	}
	fail(c, http.StatusInternalServerError, err)
}

// Health is the liveness endpoint.
func (h *Handlers) Health(c *gin.Context) {
	ok(c, gin.H{"status": "ok"})
}

// Products

type createProductRequest struct {
	Name            string `json:"name" binding:"required"`
	IdentifierType  string `json:"identifierType"`
	IdentifierValue string `json:"identifierValue"`
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	product := &model.Product{
		Name:            req.Name,
		IdentifierType:  req.IdentifierType,
		IdentifierValue: req.IdentifierValue,
	}
	id, err := h.store.CreateProduct(c.Request.Context(), product)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.store.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, product)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	if err := h.store.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, nil)
}

// Sources

type createSourceRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	StoreName   string `json:"storeName"`
	URL         string `json:"url" binding:"required"`
	CSSSelector string `json:"cssSelector"`
	JSONPath    string `json:"jsonPath"`
	IsActive    *bool  `json:"isActive"`
}

func (h *Handlers) CreateSource(c *gin.Context) {
	var req createSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	source := &model.Source{
		ProductID:   req.ProductID,
		StoreName:   req.StoreName,
		URL:         req.URL,
		CSSSelector: req.CSSSelector,
		JSONPath:    req.JSONPath,
		IsActive:    true,
	}
	if req.IsActive != nil {
		source.IsActive = *req.IsActive
	}

	// Fill blanks from URL classification when the caller left them out.
	if source.StoreName == "" || source.CSSSelector == "" {
		if parsed := urlparse.Parse(req.URL); parsed.Detected {
			if source.StoreName == "" {
				source.StoreName = parsed.StoreName
			}
			if source.CSSSelector == "" && source.JSONPath == "" {
				source.CSSSelector = parsed.CSSSelector
			}
		}
	}

	id, err := h.store.CreateSource(c.Request.Context(), source)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

func (h *Handlers) ListSources(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		sources []model.Source
		err     error
	)
	if productID := c.Query("productId"); productID != "" {
		sources, err = h.store.ListSourcesByProduct(ctx, productID)
	} else {
		sources, err = h.store.ListSources(ctx)
	}
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, sources)
}

func (h *Handlers) GetSource(c *gin.Context) {
	source, err := h.store.GetSource(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, source)
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h *Handlers) SetSourceActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SetSourceActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handlers) DeleteSource(c *gin.Context) {
	if err := h.store.DeleteSource(c.Request.Context(), c.Param("id")); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, nil)
}

// Prices

func (h *Handlers) PriceHistory(c *gin.Context) {
	limit := 100
	if q := c.Query("limit"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	records, err := h.store.PriceHistory(c.Request.Context(), c.Param("sourceId"), limit)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, records)
}

func (h *Handlers) LatestPrice(c *gin.Context) {
	record, err := h.store.LatestPrice(c.Request.Context(), c.Param("sourceId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, record)
}

// Alerts

type createAlertRequest struct {
	ProductID   string   `json:"productId" binding:"required"`
	SourceID    string   `json:"sourceId" binding:"required"`
	TargetPrice *float64 `json:"targetPrice" binding:"required"`
	WebhookURL  string   `json:"webhookUrl"`
	IsActive    *bool    `json:"isActive"`
}

func (h *Handlers) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	alert := &model.Alert{
		ProductID:   req.ProductID,
		SourceID:    req.SourceID,
		TargetPrice: *req.TargetPrice,
		WebhookURL:  req.WebhookURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		alert.IsActive = *req.IsActive
	}

	id, err := h.store.CreateAlert(c.Request.Context(), alert)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

func (h *Handlers) ListAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		alerts []model.Alert
		err    error
	)
	switch {
	case c.Query("sourceId") != "":
		alerts, err = h.store.ListAlertsBySource(ctx, c.Query("sourceId"))
	case c.Query("productId") != "":
		alerts, err = h.store.ListAlertsByProduct(ctx, c.Query("productId"))
	default:
		alerts, err = h.store.ListAlerts(ctx)
	}
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, alerts)
}

func (h *Handlers) GetAlert(c *gin.Context) {
	alert, err := h.store.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, alert)
}

func (h *Handlers) UpdateAlert(c *gin.Context) {
	var update model.AlertUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.store.UpdateAlert(c.Request.Context(), c.Param("id"), update); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handlers) DeleteAlert(c *gin.Context) {
	if err := h.store.DeleteAlert(c.Request.Context(), c.Param("id")); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, nil)
}

// Settings

func (h *Handlers) GetDefaultWebhook(c *gin.Context) {
	url, err := h.store.GetSetting(c.Request.Context(), model.SettingDefaultWebhook)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"webhookUrl": url})
}

type setWebhookRequest struct {
	WebhookURL string `json:"webhookUrl"`
}

func (h *Handlers) SetDefaultWebhook(c *gin.Context) {
	var req setWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SetSetting(c.Request.Context(), model.SettingDefaultWebhook, req.WebhookURL); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, nil)
}

// Scraper

// RunScrape triggers a batch in the background and returns immediately.
func (h *Handlers) RunScrape(c *gin.Context) {
	h.scraper.ScrapeAllActiveAsync()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Scrape job started in background"})
}

// RunScrapeSync triggers a batch and waits for the full result.
func (h *Handlers) RunScrapeSync(c *gin.Context) {
	result, err := h.scraper.ScrapeAllActive(c.Request.Context())
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, result)
}

// TestScrapeSource scrapes one source immediately. Scrape failures are
// reported in the envelope, not as HTTP errors, so a UI can show them inline.
func (h *Handlers) TestScrapeSource(c *gin.Context) {
	price, err := h.scraper.ScrapeSource(c.Request.Context(), c.Param("sourceId"))
	if err != nil {
		if trackererrors.IsNotFound(err) {
			fail(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	ok(c, gin.H{"price": price})
}

// URL parsing

type parseURLRequest struct {
	URL        string `json:"url" binding:"required"`
	FetchTitle *bool  `json:"fetchTitle"`
}

type parseURLResponse struct {
	urlparse.Result
	SuggestedName string `json:"suggestedName"`
}

func (h *Handlers) ParseURL(c *gin.Context) {
	var req parseURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	resp := parseURLResponse{Result: urlparse.Parse(req.URL)}

	// Title fetch defaults on, and never fails the parse.
	if req.FetchTitle == nil || *req.FetchTitle {
		resp.SuggestedName = h.titles.FetchTitle(c.Request.Context(), req.URL)
	}

	ok(c, resp)
}
