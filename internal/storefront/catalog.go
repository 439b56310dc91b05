package storefront

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zencartio/zencart/internal/domain"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound = errors.New("storefront: store not found")
	ErrItemNotFound  = errors.New("storefront: item not found")
)

// StoreView is the public catalog page of one store: profile, units with
// schedules and the categorized item list.
type StoreView struct {
	Store      domain.Store   `json:"store"`
	Units      []domain.Unit  `json:"units"`
	Categories []CategoryView `json:"categories"`
}

// CategoryView is one storefront section with the items it matched.
type CategoryView struct {
	ID    int64         `json:"id,string"`
	Name  string        `json:"name"`
	Items []domain.Item `json:"items"`
}

// Loader assembles storefront views from the catalog tables.
type Loader struct {
	db *gorm.DB
}

func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// LoadBySlug builds the public view of a visible store. Hidden or unknown
// slugs both come back as ErrStoreNotFound so the storefront cannot leak
// which stores exist.
func (l *Loader) LoadBySlug(ctx context.Context, slug string) (*StoreView, error) {
	db := l.db.WithContext(ctx)

	var store domain.Store
	err := db.Preload("Units.BusinessHours").
		Where("slug = ? and is_visible = ?", slug, true).
		First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, errors.Wrap(err, "storefront: load store")
	}

	var items []domain.Item
	err = db.Preload("Tags").
		Preload("CustomizationCategories.Items").
		Where("store_id = ? and is_available = ?", store.ID, true).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "storefront: load items")
	}

	var categories []domain.Category
	err = db.Preload("Tags").
		Where("store_id = ?", store.ID).
		Order("sort, created_at").
		Find(&categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "storefront: load categories")
	}

	view := &StoreView{Store: store, Units: store.Units}
	view.Store.Units = nil
	for _, cat := range categories {
		cv := CategoryView{ID: cat.ID, Name: cat.Name, Items: []domain.Item{}}
		for _, item := range items {
			if TagsSubset(cat.Tags, item.Tags) {
				cv.Items = append(cv.Items, item)
			}
		}
		view.Categories = append(view.Categories, cv)
	}
	return view, nil
}

// FindItem returns one available item of the store with its add-ons.
func (l *Loader) FindItem(ctx context.Context, storeID, itemID int64) (*domain.Item, error) {
	var item domain.Item
	err := l.db.WithContext(ctx).
		Preload("CustomizationCategories.Items").
		Where("id = ? and store_id = ? and is_available = ?", itemID, storeID, true).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errors.Wrap(err, "storefront: load item")
	}
	return &item, nil
}

// TagsSubset reports whether every category tag appears among the item
// tags. An empty category tag set matches every item.
func TagsSubset(categoryTags, itemTags []domain.Tag) bool {
	if len(categoryTags) == 0 {
		return true
	}
	have := make(map[int64]struct{}, len(itemTags))
	for _, t := range itemTags {
		have[t.ID] = struct{}{}
	}
	for _, t := range categoryTags {
		if _, found := have[t.ID]; !found {
			return false
		}
	}
	return true
}
