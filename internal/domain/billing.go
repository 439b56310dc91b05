package domain

import (
	"time"
)

// Billing providers recognized by the webhook endpoints.
const (
	BillingProviderStripe = "stripe"
	BillingProviderKiwify = "kiwify"
)

// BillingEvent records a subscription webhook delivery. Payload keeps the
// raw body for auditing.
type BillingEvent struct {
	ID        int64     `json:"id,string"`
	Provider  string    `gorm:"size:16;index" json:"provider"`
	Name      string    `json:"name"`
	Email     string    `gorm:"index" json:"email"`
	Event     string    `gorm:"size:64" json:"event"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (BillingEvent) TableName() string {
	return "billing_event"
}
