package domain

import (
	"strings"
	"time"
)

// Store layout options for the public catalog page.
const (
	LayoutHorizontal = "horizontal"
	LayoutVertical   = "vertical"
)

// Unit delivery modes.
const (
	DeliveryOnly      = "only_delivery"
	PickupOnly        = "only_pickup"
	DeliveryAndPickup = "delivery_and_pickup"
)

// Store is a merchant tenant. Slug identifies the public storefront and
// never changes once set.
type Store struct {
	ID                              int64     `json:"id,string" form:"id"`
	OperatorID                      int64     `gorm:"index" json:"operator_id,string"`
	Slug                            string    `gorm:"uniqueIndex;size:64" json:"slug" form:"slug"`
	Name                            string    `json:"name" form:"name"`
	Description                     string    `json:"description" form:"description"`
	Category                        string    `json:"category" form:"category"`
	LogoURL                         string    `json:"logo_url" form:"logo_url"`
	LayoutType                      string    `gorm:"size:16" json:"layout_type" form:"layout_type"`
	IsVisible                       bool      `json:"is_visible" form:"is_visible"`
	PaymentMethods                  []string  `gorm:"serializer:json" json:"payment_methods" form:"payment_methods"`
	AcceptsOrdersOnWhatsApp         bool      `json:"accepts_orders_on_whatsapp" form:"accepts_orders_on_whatsapp"`
	AcceptsOrdersOutsideBusinessHours bool    `json:"accepts_orders_outside_business_hours" form:"accepts_orders_outside_business_hours"`
	Units                           []Unit    `gorm:"constraint:OnDelete:CASCADE" json:"units,omitempty"`
	CreatedAt                       time.Time `json:"created_at"`
	UpdatedAt                       time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Store) TableName() string {
	return "store"
}

// Unit is a physical location of a store with its own contact phone,
// delivery mode and weekly schedule.
type Unit struct {
	ID            int64          `json:"id,string" form:"id"`
	StoreID       int64          `gorm:"index" json:"store_id,string" form:"store_id"`
	Name          string         `json:"name" form:"name"`
	Cep           string         `gorm:"size:16" json:"cep" form:"cep"`
	Address       string         `json:"address" form:"address"`
	Phone         string         `gorm:"size:24" json:"phone" form:"phone"`
	DeliveryType  string         `gorm:"size:32" json:"delivery_type" form:"delivery_type"`
	BusinessHours []BusinessHour `gorm:"constraint:OnDelete:CASCADE" json:"business_hours,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (Unit) TableName() string {
	return "store_unit"
}

// ClosedMarker in the Open column means the unit does not open that day.
const ClosedMarker = "closed"

// BusinessHour is one weekday row of a unit schedule. Day holds the
// Portuguese weekday name (Domingo..Sábado); Open and Close hold H:MM
// wall-clock times, or Open holds ClosedMarker.
type BusinessHour struct {
	ID     int64  `json:"id,string" form:"id"`
	UnitID int64  `gorm:"index" json:"unit_id,string" form:"unit_id"`
	Day    string `gorm:"size:16" json:"day" form:"day"`
	Open   string `gorm:"size:8" json:"open" form:"open"`
	Close  string `gorm:"size:8" json:"close" form:"close"`
}

// TableName Specify table name
func (BusinessHour) TableName() string {
	return "store_business_hour"
}

// Closed reports whether this weekday is marked closed.
func (h BusinessHour) Closed() bool {
	return strings.EqualFold(strings.TrimSpace(h.Open), ClosedMarker)
}
