package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents a source without a usable extraction rule
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeNetwork represents fetch timeouts, connection failures and non-2xx responses
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeExtraction represents selector misses and unparseable price text
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeNotFound represents a missing record referenced by id
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeDelivery represents webhook dispatch failures
	ErrorTypeDelivery ErrorType = "delivery"
	// ErrorTypeRateLimit represents a storefront telling us to back off
	ErrorTypeRateLimit ErrorType = "rate_limit"
)

// TrackerError represents a scrape-pipeline error with its taxonomy type
type TrackerError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	if e.Source == "" {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// New creates a new TrackerError
func New(errType ErrorType, source, message string, err error) *TrackerError {
	return &TrackerError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfiguration creates a new configuration error
func NewConfiguration(source, message string) *TrackerError {
	return New(ErrorTypeConfiguration, source, message, nil)
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *TrackerError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(source, message string) *TrackerError {
	return New(ErrorTypeExtraction, source, message, nil)
}

// NewNotFound creates a new not-found error
func NewNotFound(kind, id string) *TrackerError {
	return New(ErrorTypeNotFound, kind, fmt.Sprintf("%s %s not found", kind, id), nil)
}

// NewDelivery creates a new delivery error
func NewDelivery(webhook, message string, err error) *TrackerError {
	return New(ErrorTypeDelivery, webhook, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(host string, duration time.Duration) *TrackerError {
	return New(ErrorTypeRateLimit, host, fmt.Sprintf("rate limited for %v", duration), nil)
}

// TypeOf returns the taxonomy type of err, or an empty type if err is not a TrackerError
func TypeOf(err error) ErrorType {
	var te *TrackerError
	if stderrors.As(err, &te) {
		return te.Type
	}
	return ""
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}
