// Package urlparse infers store identity, a default extraction selector and a
// product identifier from a product URL, without touching the network.
package urlparse

import (
	"net/url"
	"regexp"
	"strings"
)

// Result is the outcome of classifying a URL. An unrecognized store is not an
// error: Detected is simply false and the other fields stay empty.
type Result struct {
	URL             string `json:"url"`
	StoreName       string `json:"storeName"`
	CSSSelector     string `json:"cssSelector"`
	IdentifierType  string `json:"identifierType"`
	IdentifierValue string `json:"identifierValue"`
	Detected        bool   `json:"detected"`
}

// storePattern maps a hostname suffix to store defaults. The table is ordered
// and the first suffix match wins; in practice entries are disjoint domains.
type storePattern struct {
	domain         string
	name           string
	selector       string
	identifierType string
}

var storePatterns = []storePattern{
	{domain: "amazon.com", name: "Amazon", selector: ".a-price .a-offscreen", identifierType: "ASIN"},
	{domain: "bestbuy.com", name: "Best Buy", selector: ".priceView-customer-price span"},
	{domain: "walmart.com", name: "Walmart", selector: `[itemprop="price"]`},
	{domain: "target.com", name: "Target", selector: `[data-test="product-price"]`},
	{domain: "newegg.com", name: "Newegg", selector: ".price-current"},
	{domain: "bhphotovideo.com", name: "B&H Photo", selector: `[data-selenium="pricingPrice"]`},
	{domain: "microcenter.com", name: "Micro Center", selector: "#pricing"},
	{domain: "ebay.com", name: "eBay", selector: ".x-price-primary span"},
}

// asinPatterns match Amazon product identifiers in URL paths, including the
// mobile /gp/aw/d/ form.
var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/aw/d/([A-Z0-9]{10})`),
}

// Parse classifies a product URL. Pure function of the URL string.
func Parse(rawURL string) Result {
	result := Result{URL: rawURL}

	hostname := extractHostname(rawURL)
	if hostname == "" {
		return result
	}

	for _, pattern := range storePatterns {
		if !strings.HasSuffix(hostname, pattern.domain) {
			continue
		}

		result.StoreName = pattern.name
		result.CSSSelector = pattern.selector
		result.Detected = true

		if pattern.identifierType == "ASIN" {
			if asin := extractASIN(rawURL); asin != "" {
				result.IdentifierType = "ASIN"
				result.IdentifierValue = asin
			}
		}

		break
	}

	return result
}

// extractHostname returns the lower-cased host with any leading "www."
// stripped, or an empty string for unparseable URLs.
func extractHostname(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	hostname := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(hostname, "www.")
}

// extractASIN returns the upper-cased first capture of the first matching
// path pattern, or an empty string when none match.
func extractASIN(rawURL string) string {
	for _, pattern := range asinPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}
