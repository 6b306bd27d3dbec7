package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleKind identifies the extraction strategy a source is configured with.
type RuleKind string

const (
	// RuleSelector locates price text with a CSS selector
	RuleSelector RuleKind = "selector"
	// RuleStructuredPath locates price text with a structured path expression
	RuleStructuredPath RuleKind = "structured_path"
	// RuleNone means the source has no usable extraction rule
	RuleNone RuleKind = "none"
)

// ExtractionRule is the tagged extraction instruction for a source. Exactly
// one rule kind is meaningful per source; a source whose columns fill neither
// carries RuleNone and cannot be scraped.
type ExtractionRule struct {
	Kind  RuleKind
	Value string
}

// Source is one (product, store, URL) binding to monitor.
type Source struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   string    `gorm:"type:uuid;not null;index" json:"productId"`
	StoreName   string    `gorm:"type:varchar(100);not null" json:"storeName"`
	URL         string    `gorm:"not null" json:"url"`
	CSSSelector string    `json:"cssSelector"`
	JSONPath    string    `json:"jsonPath"`
	IsActive    bool      `gorm:"default:true;index" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (Source) TableName() string {
	return "sources"
}

// Rule returns the source's extraction rule as a tagged variant. The CSS
// selector wins when both columns are populated.
func (s *Source) Rule() ExtractionRule {
	if s.CSSSelector != "" {
		return ExtractionRule{Kind: RuleSelector, Value: s.CSSSelector}
	}
	if s.JSONPath != "" {
		return ExtractionRule{Kind: RuleStructuredPath, Value: s.JSONPath}
	}
	return ExtractionRule{Kind: RuleNone}
}
