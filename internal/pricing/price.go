package pricing

import (
	"liwamenu-be/internal/catalog"

	"github.com/shopspring/decimal"
)

type PriceKind string

const (
	PriceNormal   PriceKind = "normal"
	PriceCampaign PriceKind = "campaign"
	PriceSpecial  PriceKind = "special"
)

// UnitPrice is the effective price of one portion. OriginalPrice is set
// only when a campaign or special price overrides the normal one, so the
// menu can show it struck through.
type UnitPrice struct {
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Kind          PriceKind        `json:"kind"`
}

// ResolveUnitPrice picks the portion's effective price.
// Precedence: special (only while special pricing is active), campaign, normal.
func ResolveUnitPrice(p catalog.Portion, specialActive bool) UnitPrice {
	original := p.Price

	if specialActive && p.SpecialPrice != nil {
		return UnitPrice{Price: *p.SpecialPrice, OriginalPrice: &original, Kind: PriceSpecial}
	}
	if p.CampaignPrice != nil {
		return UnitPrice{Price: *p.CampaignPrice, OriginalPrice: &original, Kind: PriceCampaign}
	}
	return UnitPrice{Price: p.Price, Kind: PriceNormal}
}

// LowestPortionPrice is the "from" price shown on a product card: the
// smallest effective unit price across its portions.
func LowestPortionPrice(p catalog.Product, specialActive bool) (UnitPrice, bool) {
	if len(p.Portions) == 0 {
		return UnitPrice{}, false
	}
	best := ResolveUnitPrice(p.Portions[0], specialActive)
	for _, po := range p.Portions[1:] {
		if up := ResolveUnitPrice(po, specialActive); up.Price.LessThan(best.Price) {
			best = up
		}
	}
	return best, true
}
