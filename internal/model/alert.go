package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is a standing "notify when price of source X drops to target"
// condition. Once triggered it is excluded from evaluation until explicitly
// reactivated.
type Alert struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   string     `gorm:"type:uuid;not null;index" json:"productId"`
	SourceID    string     `gorm:"type:uuid;not null;index" json:"sourceId"`
	TargetPrice float64    `gorm:"type:decimal(12,2);not null" json:"targetPrice"`
	WebhookURL  string     `json:"webhookUrl,omitempty"`
	IsActive    bool       `gorm:"default:true;index" json:"isActive"`
	IsTriggered bool       `gorm:"default:false;index" json:"isTriggered"`
	CreatedAt   time.Time  `json:"createdAt"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (Alert) TableName() string {
	return "alerts"
}

// AlertUpdate is a partial update where each field is present only when its
// pointer is non-nil. Absent fields are left untouched by the store.
type AlertUpdate struct {
	TargetPrice *float64 `json:"targetPrice"`
	WebhookURL  *string  `json:"webhookUrl"`
	IsActive    *bool    `json:"isActive"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u AlertUpdate) IsEmpty() bool {
	return u.TargetPrice == nil && u.WebhookURL == nil && u.IsActive == nil
}
