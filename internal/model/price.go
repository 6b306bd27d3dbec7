package model

import "time"

// DefaultCurrency is applied to every price record.
const DefaultCurrency = "USD"

// PriceRecord is one scrape observation. Every attempt, success or failure,
// produces exactly one record; failures carry a zero price and an error text.
type PriceRecord struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceID     string    `gorm:"type:uuid;not null;index" json:"sourceId"`
	Price        float64   `gorm:"type:decimal(12,2)" json:"price"`
	Currency     string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

func (PriceRecord) TableName() string {
	return "price_history"
}
