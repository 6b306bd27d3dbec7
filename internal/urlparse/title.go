package urlparse

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricetracker/helpers"
	"pricetracker/logger"
)

const maxTitleLength = 100

// titleSuffixes are store boilerplate trimmed off fetched page titles.
var titleSuffixes = []string{
	" - Amazon.com",
	" | Amazon.com",
	": Amazon.com",
	" - Best Buy",
	" | Best Buy",
	" - Walmart.com",
	" | Walmart.com",
	" - Target",
	" | Target",
	" - Newegg.com",
	" | Newegg.com",
	" - B&H Photo",
	" | B&H Photo",
	" - Micro Center",
	" | Micro Center",
	" | eBay",
	" - eBay",
}

// TitleFetcher fetches a product page and extracts a display name from its
// title element. Strictly best effort: every failure degrades to an empty
// string and never aborts the caller's URL parse.
type TitleFetcher struct {
	timeout time.Duration
	log     *logger.Logger
}

// NewTitleFetcher creates a title fetcher with the given fetch timeout.
func NewTitleFetcher(timeout time.Duration) *TitleFetcher {
	return &TitleFetcher{
		timeout: timeout,
		log:     logger.ForComponent("urlparse"),
	}
}

// FetchTitle returns the cleaned page title, or "" when anything fails.
func (f *TitleFetcher) FetchTitle(ctx context.Context, rawURL string) string {
	body, err := helpers.FetchPage(ctx, rawURL, f.timeout)
	if err != nil {
		f.log.Debug().Err(err).Str("url", rawURL).Msg("Title fetch failed")
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		f.log.Debug().Err(err).Str("url", rawURL).Msg("Title parse failed")
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}

	return CleanTitle(title)
}

// CleanTitle strips known store suffixes and truncates verbose titles to the
// display limit.
func CleanTitle(title string) string {
	for _, suffix := range titleSuffixes {
		if strings.HasSuffix(title, suffix) {
			title = strings.TrimSuffix(title, suffix)
			break
		}
	}

	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength-3]) + "..."
	}

	return title
}
