package domain

import (
	"time"
)

// Item price display modes.
const (
	PriceTypeIs       = "is"
	PriceTypeStartsAt = "starts_at"
)

// Item is a sellable catalog product. Price is stored in minor currency
// units (centavos).
type Item struct {
	ID                      int64                   `json:"id,string" form:"id"`
	StoreID                 int64                   `gorm:"index" json:"store_id,string" form:"store_id"`
	Name                    string                  `json:"name" form:"name"`
	Description             string                  `json:"description" form:"description"`
	Price                   int64                   `json:"price" form:"price"`
	PriceType               string                  `gorm:"size:16" json:"price_type" form:"price_type"`
	Images                  []string                `gorm:"serializer:json" json:"images" form:"images"`
	IsAvailable             bool                    `json:"is_available" form:"is_available"`
	Tags                    []Tag                   `gorm:"many2many:item_tags" json:"tags,omitempty"`
	CustomizationCategories []CustomizationCategory `gorm:"constraint:OnDelete:CASCADE" json:"customization_categories,omitempty"`
	CreatedAt               time.Time               `json:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at"`
}

// TableName Specify table name
func (Item) TableName() string {
	return "catalog_item"
}

// Tag labels items; categories select items by tag subsets.
type Tag struct {
	ID      int64  `json:"id,string" form:"id"`
	StoreID int64  `gorm:"index" json:"store_id,string" form:"store_id"`
	Name    string `gorm:"size:64" json:"name" form:"name"`
}

// TableName Specify table name
func (Tag) TableName() string {
	return "catalog_tag"
}

// Category is a storefront section. An item belongs to the category when
// the category's tag set is a subset of the item's tags; a category with
// no tags matches every item.
type Category struct {
	ID        int64     `json:"id,string" form:"id"`
	StoreID   int64     `gorm:"index" json:"store_id,string" form:"store_id"`
	Name      string    `json:"name" form:"name"`
	Sort      int       `json:"sort" form:"sort"`
	Tags      []Tag     `gorm:"many2many:category_tags" json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "catalog_category"
}

// CustomizationCategory groups optional add-ons of an item, e.g.
// "Toppings" with min/max selection bounds.
type CustomizationCategory struct {
	ID          int64               `json:"id,string" form:"id"`
	ItemID      int64               `gorm:"index" json:"item_id,string" form:"item_id"`
	Name        string              `json:"name" form:"name"`
	MinRequired int                 `json:"min_required" form:"min_required"`
	MaxAllowed  int                 `json:"max_allowed" form:"max_allowed"`
	Items       []CustomizationItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName Specify table name
func (CustomizationCategory) TableName() string {
	return "catalog_customization_category"
}

// CustomizationItem is a single add-on choice. Price is in minor units
// and is added once per chosen quantity.
type CustomizationItem struct {
	ID         int64  `json:"id,string" form:"id"`
	CategoryID int64  `gorm:"index" json:"category_id,string" form:"category_id"`
	Name       string `json:"name" form:"name"`
	Price      int64  `json:"price" form:"price"`
}

// TableName Specify table name
func (CustomizationItem) TableName() string {
	return "catalog_customization_item"
}
