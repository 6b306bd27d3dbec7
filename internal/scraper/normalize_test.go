package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	trackererrors "pricetracker/pkg/errors"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain number", "19.99", 19.99},
		{"currency symbol", "$19.99", 19.99},
		{"thousands separator", "$1,234.56", 1234.56},
		{"multiple groups", "1,234,567.89", 1234567.89},
		{"whitespace", "  $49.00  ", 49.00},
		{"integer price", "1,200", 1200},
		{"no decimals", "$35", 35},
		{"trailing text", "99.95 USD", 99.95},
		{"leading text", "Now only 5.49!", 5.49},
		{"trailing dot", "10.", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePriceFailure(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no digits", "Out of stock"},
		{"empty", ""},
		{"only symbols", "$ --"},
		{"lone comma", ", call for price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizePrice(tt.input)
			assert.Error(t, err)
			assert.Equal(t, trackererrors.ErrorTypeExtraction, trackererrors.TypeOf(err))
			assert.Contains(t, err.Error(), "could not extract price")
		})
	}
}
