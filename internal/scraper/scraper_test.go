package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/internal/model"
	"pricetracker/internal/store"
	trackererrors "pricetracker/pkg/errors"
)

// recordingChecker captures evaluator invocations
type recordingChecker struct {
	calls []checkCall
}

type checkCall struct {
	sourceID    string
	productName string
	price       float64
}

func (r *recordingChecker) CheckPrice(ctx context.Context, source *model.Source, productName string, price float64) ([]model.Alert, error) {
	r.calls = append(r.calls, checkCall{sourceID: source.ID, productName: productName, price: price})
	return nil, nil
}

type fixture struct {
	store   *store.SQLiteStore
	checker *recordingChecker
	scraper *Scraper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	checker := &recordingChecker{}
	sc := New(st, NewExtractor(5*time.Second, nil), checker, nil)
	return &fixture{store: st, checker: checker, scraper: sc}
}

func (f *fixture) addSource(t *testing.T, url, selector string, active bool) *model.Source {
	t.Helper()
	ctx := context.Background()

	product := &model.Product{Name: "Test Book"}
	_, err := f.store.CreateProduct(ctx, product)
	require.NoError(t, err)

	source := &model.Source{
		ProductID:   product.ID,
		StoreName:   "Test Store",
		URL:         url,
		CSSSelector: selector,
		IsActive:    active,
	}
	_, err = f.store.CreateSource(ctx, source)
	require.NoError(t, err)
	return source
}

func pricePage(price string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><span class="price">` + price + `</span></body></html>`))
	}))
}

func TestScrapeSource(t *testing.T) {
	server := pricePage("$1,234.56")
	defer server.Close()

	f := newFixture(t)
	source := f.addSource(t, server.URL, ".price", true)

	price, err := f.scraper.ScrapeSource(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, price)

	// Exactly one successful record
	history, err := f.store.PriceHistory(context.Background(), source.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 1234.56, history[0].Price)
	assert.Equal(t, model.DefaultCurrency, history[0].Currency)

	// The evaluator saw the observation with display metadata
	require.Len(t, f.checker.calls, 1)
	assert.Equal(t, source.ID, f.checker.calls[0].sourceID)
	assert.Equal(t, "Test Book", f.checker.calls[0].productName)
	assert.Equal(t, 1234.56, f.checker.calls[0].price)
}

func TestScrapeSourceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.scraper.ScrapeSource(context.Background(), "no-such-source")
	assert.True(t, trackererrors.IsNotFound(err))
	assert.Empty(t, f.checker.calls)
}

func TestScrapeSourceFailureWritesRecordAndPropagates(t *testing.T) {
	server := pricePage("Out of stock")
	defer server.Close()

	f := newFixture(t)
	source := f.addSource(t, server.URL, ".price", true)

	_, err := f.scraper.ScrapeSource(context.Background(), source.ID)
	require.Error(t, err)
	assert.Equal(t, trackererrors.ErrorTypeExtraction, trackererrors.TypeOf(err))

	history, err := f.store.PriceHistory(context.Background(), source.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, 0.0, history[0].Price)
	assert.Contains(t, history[0].ErrorMessage, "could not extract price")

	// No alert evaluation for failed attempts
	assert.Empty(t, f.checker.calls)
}

func TestScrapeSourceNoSelector(t *testing.T) {
	f := newFixture(t)
	source := f.addSource(t, "https://example.com/widget", "", true)

	_, err := f.scraper.ScrapeSource(context.Background(), source.ID)
	require.Error(t, err)
	assert.Equal(t, trackererrors.ErrorTypeConfiguration, trackererrors.TypeOf(err))

	// The failed attempt still leaves its record
	history, err := f.store.PriceHistory(context.Background(), source.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}

func TestScrapeAllActive(t *testing.T) {
	good := pricePage("$42.00")
	defer good.Close()
	bad := pricePage("sold out")
	defer bad.Close()

	f := newFixture(t)
	goodSource := f.addSource(t, good.URL, ".price", true)
	badSource := f.addSource(t, bad.URL, ".price", true)
	inactive := f.addSource(t, good.URL, ".price", false)

	result, err := f.scraper.ScrapeAllActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 2)

	byID := map[string]model.SourceResult{}
	for _, d := range result.Details {
		byID[d.SourceID] = d
	}
	assert.Equal(t, model.StatusSuccess, byID[goodSource.ID].Status)
	assert.Equal(t, 42.0, byID[goodSource.ID].Price)
	assert.Equal(t, model.StatusFailed, byID[badSource.ID].Status)
	assert.NotEmpty(t, byID[badSource.ID].Error)

	// The inactive source was skipped entirely: no detail, no record.
	_, ok := byID[inactive.ID]
	assert.False(t, ok)
	history, err := f.store.PriceHistory(context.Background(), inactive.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestEveryAttemptAddsExactlyOneRecord(t *testing.T) {
	server := pricePage("$10.00")
	defer server.Close()

	f := newFixture(t)
	source := f.addSource(t, server.URL, ".price", true)

	for i := 1; i <= 3; i++ {
		_, err := f.scraper.ScrapeSource(context.Background(), source.ID)
		require.NoError(t, err)

		history, err := f.store.PriceHistory(context.Background(), source.ID, 100)
		require.NoError(t, err)
		assert.Len(t, history, i)
	}
}
