package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a logical item being tracked across one or more sources.
type Product struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	IdentifierType  string    `gorm:"type:varchar(30)" json:"identifierType"`
	IdentifierValue string    `gorm:"type:varchar(64)" json:"identifierValue"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}
