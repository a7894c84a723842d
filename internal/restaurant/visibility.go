package restaurant

import (
	"sort"
	"time"

	"liwamenu-be/internal/catalog"

	"github.com/shopspring/decimal"
)

// ActiveMenu returns the first menu with a plan whose days contain now's
// weekday (0=Sunday) and whose inclusive [StartTime, EndTime] contains now.
// Overlapping plans resolve to the first match in declaration order.
func ActiveMenu(menus []Menu, now time.Time) *Menu {
	day := int(now.Weekday())
	clock := ClockString(now)

	for i := range menus {
		for _, plan := range menus[i].Plans {
			if !containsDay(plan.Days, day) {
				continue
			}
			if plan.StartTime <= clock && clock <= plan.EndTime {
				m := menus[i]
				return &m
			}
		}
	}
	return nil
}

// allowedCategories is nil when no plan restricts the menu.
func allowedCategories(menus []Menu, now time.Time) map[string]struct{} {
	m := ActiveMenu(menus, now)
	if m == nil {
		return nil
	}
	allowed := make(map[string]struct{}, len(m.CategoryIDs))
	for _, id := range m.CategoryIDs {
		allowed[id] = struct{}{}
	}
	return allowed
}

func visible(p catalog.Product, allowed map[string]struct{}) bool {
	if p.Hide {
		return false
	}
	if allowed == nil {
		return true
	}
	_, ok := allowed[p.CategoryID]
	return ok
}

// VisibleCategories groups the products visible at now by category. Products
// are sorted by SortOrder inside each category and categories by their own
// SortOrder.
func VisibleCategories(products []catalog.Product, menus []Menu, now time.Time) []Category {
	allowed := allowedCategories(menus, now)

	byID := make(map[string]*Category)
	order := make([]string, 0)

	for _, p := range products {
		if !visible(p, allowed) {
			continue
		}
		c, ok := byID[p.CategoryID]
		if !ok {
			c = &Category{
				ID:        p.CategoryID,
				Name:      p.CategoryName,
				Image:     p.CategoryImage,
				SortOrder: p.CategorySortOrder,
			}
			byID[p.CategoryID] = c
			order = append(order, p.CategoryID)
		}
		c.Products = append(c.Products, p)
	}

	out := make([]Category, 0, len(order))
	for _, id := range order {
		c := byID[id]
		sort.SliceStable(c.Products, func(i, j int) bool {
			return c.Products[i].SortOrder < c.Products[j].SortOrder
		})
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// RecommendedProducts applies the same visibility rules to recommended
// products.
func RecommendedProducts(products []catalog.Product, menus []Menu, now time.Time) []catalog.Product {
	allowed := allowedCategories(menus, now)
	out := make([]catalog.Product, 0)
	for _, p := range products {
		if p.Recommendation && visible(p, allowed) {
			out = append(out, p)
		}
	}
	return out
}

func EnabledPaymentMethods(s State) []PaymentMethod {
	out := make([]PaymentMethod, 0, len(s.PaymentMethods))
	for _, pm := range s.PaymentMethods {
		if pm.Enabled {
			out = append(out, pm)
		}
	}
	return out
}

// FormatPrice renders price with two decimals, prefixed by the money sign
// when one is configured.
func FormatPrice(s State, price decimal.Decimal) string {
	formatted := price.StringFixed(2)
	if s.MoneySign != nil && *s.MoneySign != "" {
		return *s.MoneySign + formatted
	}
	return formatted
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
