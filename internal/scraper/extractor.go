package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricetracker/helpers"
	"pricetracker/internal/model"
	"pricetracker/logger"
	trackererrors "pricetracker/pkg/errors"
	"pricetracker/services/cache"
)

// Extractor fetches a product page and applies a source's extraction rule to
// pull out the raw price text.
type Extractor struct {
	timeout  time.Duration
	cooldown *cache.Cooldown
	log      *logger.Logger
}

// NewExtractor creates a page extractor. cooldown may be nil when no
// rate-limit tracking is wanted.
func NewExtractor(timeout time.Duration, cooldown *cache.Cooldown) *Extractor {
	return &Extractor{
		timeout:  timeout,
		cooldown: cooldown,
		log:      logger.ForComponent("extractor"),
	}
}

// Extract fetches rawURL and returns the text content of the first element
// matching the rule, in document order.
func (e *Extractor) Extract(ctx context.Context, rawURL string, rule model.ExtractionRule) (string, error) {
	// A source without a usable rule fails before any network call.
	switch rule.Kind {
	case model.RuleSelector:
	case model.RuleStructuredPath:
		return "", trackererrors.NewConfiguration(rawURL, "structured-path rules have no extractor; configure a CSS selector")
	default:
		return "", trackererrors.NewConfiguration(rawURL, "no CSS selector defined")
	}

	host := hostOf(rawURL)
	if e.cooldown.Blocked(host) {
		return "", trackererrors.NewNetwork(rawURL, fmt.Sprintf("host %s is in rate-limit cooldown", host), nil)
	}

	body, err := helpers.FetchPage(ctx, rawURL, e.timeout)
	if err != nil {
		var rateErr *helpers.ErrRateLimited
		if errors.As(err, &rateErr) {
			e.cooldown.Block(host)
			e.log.Warn().Str("host", host).Str("retry_after", rateErr.RetryAfter).Msg("Host rate limited us, backing off")
		}
		return "", trackererrors.NewNetwork(rawURL, "failed to fetch page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", trackererrors.NewExtraction(rawURL, fmt.Sprintf("failed to parse HTML: %v", err))
	}

	selection := doc.Find(rule.Value)
	if selection.Length() == 0 {
		return "", trackererrors.NewExtraction(rawURL, fmt.Sprintf("element not found for selector: %s", rule.Value))
	}

	return selection.First().Text(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
