package cart

import (
	"liwamenu-be/internal/pricing"

	"github.com/shopspring/decimal"
)

// ComputeLine prices a line:
//
//	addOnTotal = sum(tag.Price * tag.Quantity)
//	lineTotal  = (unitPrice + addOnTotal) * quantity
//
// Add-on quantities are per unit of the line, not multiplied into it.
func ComputeLine(l Line, specialActive bool) LineTotals {
	unit := pricing.ResolveUnitPrice(l.Portion, specialActive)

	addOn := decimal.Zero
	for _, t := range l.SelectedTags {
		addOn = addOn.Add(t.Price.Mul(decimal.NewFromInt(int64(t.Quantity))))
	}

	return LineTotals{
		UnitPrice:  unit,
		AddOnTotal: addOn,
		LineTotal:  unit.Price.Add(addOn).Mul(decimal.NewFromInt(int64(l.Quantity))),
	}
}

func ComputeTotal(lines []Line, specialActive bool) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(ComputeLine(l, specialActive).LineTotal)
	}
	return total
}

// ItemCount sums quantities; a quantity-3 line counts as 3.
func ItemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
