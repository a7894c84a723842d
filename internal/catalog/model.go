package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TagItem is one selectable add-on inside a TagGroup.
type TagItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	MaxQuantity int             `json:"maxQuantity"`
	MinQuantity int             `json:"minQuantity"`
	IsDefault   bool            `json:"isDefault"`
	IsMandatory bool            `json:"isMandatory"`
	SortOrder   int             `json:"sortOrder"`
}

// TagGroup is a named set of add-on choices attached to a portion,
// e.g. "Extras". Selections must satisfy MinSelected <= n <= MaxSelected.
type TagGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MinSelected int       `json:"minSelected"`
	MaxSelected int       `json:"maxSelected"`
	FreeTagging bool      `json:"freeTagging"`
	SortOrder   int       `json:"sortOrder"`
	Items       []TagItem `json:"orderTagItems"`
}

func (g TagGroup) SingleSelect() bool {
	return g.MaxSelected == 1
}

func (g TagGroup) Item(itemID string) (TagItem, bool) {
	for _, it := range g.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return TagItem{}, false
}

// Validate checks the group bounds loaded from the catalog.
func (g TagGroup) Validate() error {
	if g.MinSelected < 0 || g.MaxSelected < 1 || g.MinSelected > g.MaxSelected {
		return fmt.Errorf("%w: tag group %q min=%d max=%d",
			ErrInvalidTagGroup, g.ID, g.MinSelected, g.MaxSelected)
	}
	for _, it := range g.Items {
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: tag item %q", ErrNegativePrice, it.ID)
		}
	}
	return nil
}

// Portion is one purchasable size/variant of a product.
type Portion struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	CampaignPrice *decimal.Decimal `json:"campaignPrice"`
	SpecialPrice  *decimal.Decimal `json:"specialPrice"`
	TagGroups     []TagGroup       `json:"orderTags"`
}

func (p Portion) TagGroup(groupID string) (TagGroup, bool) {
	for _, g := range p.TagGroups {
		if g.ID == groupID {
			return g, true
		}
	}
	return TagGroup{}, false
}

func (p Portion) Validate() error {
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: portion %q", ErrNonPositivePrice, p.ID)
	}
	if p.CampaignPrice != nil && p.CampaignPrice.IsNegative() {
		return fmt.Errorf("%w: portion %q campaign price", ErrNegativePrice, p.ID)
	}
	if p.SpecialPrice != nil && p.SpecialPrice.IsNegative() {
		return fmt.Errorf("%w: portion %q special price", ErrNegativePrice, p.ID)
	}
	for _, g := range p.TagGroups {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type Product struct {
	ID                   string    `json:"id"`
	SortOrder            int       `json:"sortOrder"`
	ImageURL             string    `json:"imageURL"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Recommendation       bool      `json:"recommendation"`
	Hide                 bool      `json:"hide"`
	CategoryID           string    `json:"categoryId"`
	CategoryName         string    `json:"categoryName"`
	CategoryImage        string    `json:"categoryImage"`
	CategorySortOrder    int       `json:"categorySortOrder"`
	SubCategoryID        *string   `json:"subCategoryId"`
	SubCategoryName      *string   `json:"subCategoryName"`
	SubCategoryImage     *string   `json:"subCategoryImage"`
	SubCategorySortOrder int       `json:"subCategorySortOrder"`
	Portions             []Portion `json:"portions"`
}

func (p Product) Portion(portionID string) (Portion, bool) {
	for _, po := range p.Portions {
		if po.ID == portionID {
			return po, true
		}
	}
	return Portion{}, false
}

func (p Product) Validate() error {
	if len(p.Portions) == 0 {
		return fmt.Errorf("%w: product %q", ErrNoPortions, p.ID)
	}
	for _, po := range p.Portions {
		if err := po.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", p.ID, err)
		}
	}
	return nil
}

// SelectedTag is a chosen add-on inside a cart line. Quantity multiplies the
// add-on price independently of the line quantity.
type SelectedTag struct {
	TagID    string          `json:"tagId"`
	TagName  string          `json:"tagName"`
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}
