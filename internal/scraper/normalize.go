package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	trackererrors "pricetracker/pkg/errors"
)

// priceRe matches the first digit run, optionally grouped by commas and
// followed by a decimal part. Comma is always a thousands separator and dot
// always the decimal point; locale-aware parsing is out of scope.
var priceRe = regexp.MustCompile(`[\d,]+\.?\d*`)

// NormalizePrice converts raw extracted text such as "$1,234.56 " into a
// numeric price. Text without a parseable number yields an extraction error
// carrying the offending input.
func NormalizePrice(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)

	match := priceRe.FindString(trimmed)
	if match != "" {
		clean := strings.ReplaceAll(match, ",", "")
		if price, err := strconv.ParseFloat(clean, 64); err == nil {
			return price, nil
		}
	}

	return 0, trackererrors.NewExtraction("", fmt.Sprintf("could not extract price from %q", trimmed))
}
