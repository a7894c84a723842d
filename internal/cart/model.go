package cart

import (
	"sync"
	"time"

	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/pricing"

	"github.com/shopspring/decimal"
)

// Line is one product/portion with its add-on picks. Quantity is always
// at least 1; dropping to zero removes the line.
type Line struct {
	ID           string                `json:"id"`
	Product      catalog.Product       `json:"product"`
	Portion      catalog.Portion       `json:"portion"`
	Quantity     int                   `json:"quantity"`
	SelectedTags []catalog.SelectedTag `json:"selectedTags"`
	Note         string                `json:"note,omitempty"`
}

// LineTotals is the priced view of a Line.
type LineTotals struct {
	UnitPrice  pricing.UnitPrice `json:"unitPrice"`
	AddOnTotal decimal.Decimal   `json:"addOnTotal"`
	LineTotal  decimal.Decimal   `json:"lineTotal"`
}

// Cart is a diner session's cart. Its lines are guarded by mu; callers go
// through the methods below.
type Cart struct {
	SessionID string

	mu        sync.Mutex
	lines     []Line
	updatedAt time.Time
}

func newCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, updatedAt: time.Now()}
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

func (c *Cart) add(l Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, l)
	c.updatedAt = time.Now()
}

func (c *Cart) remove(lineID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// removeLines drops the given line ids and reports how many were found.
func (c *Cart) removeLines(ids []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.lines[:0]
	for _, l := range c.lines {
		if _, ok := drop[l.ID]; !ok {
			kept = append(kept, l)
		}
	}
	removed := len(c.lines) - len(kept)
	c.lines = kept
	if removed > 0 {
		c.updatedAt = time.Now()
	}
	return removed
}

// setQuantity removes the line when quantity <= 0.
func (c *Cart) setQuantity(lineID string, quantity int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID != lineID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		c.updatedAt = time.Now()
		return true
	}
	return false
}

func (c *Cart) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.updatedAt = time.Now()
}

// AddItemParams describes a new line. Tags are resolved against the
// portion's tag groups.
type AddItemParams struct {
	SessionID string
	ProductID string            `json:"productId"`
	PortionID string            `json:"portionId"`
	Tags      []catalog.TagPick `json:"tags"`
	Quantity  int               `json:"quantity"`
	Note      string            `json:"note"`
}
