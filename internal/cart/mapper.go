package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineView struct {
	Line
	LineTotals
}

// Summary is the cart as shown to the diner.
type Summary struct {
	SessionID string          `json:"sessionId"`
	Lines     []LineView      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// LineIDs lists the ids of the summarised lines.
func (s Summary) LineIDs() []string {
	ids := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		ids[i] = l.ID
	}
	return ids
}

func NewSummary(c *Cart, specialActive bool) Summary {
	lines := c.Lines()

	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, LineView{Line: l, LineTotals: ComputeLine(l, specialActive)})
	}

	return Summary{
		SessionID: c.SessionID,
		Lines:     views,
		Subtotal:  ComputeTotal(lines, specialActive),
		ItemCount: ItemCount(lines),
		UpdatedAt: c.UpdatedAt(),
	}
}
