package catalog

import "fmt"

// Selection tracks the add-on picks for one portion, per tag group.
//
// Single-select groups (MaxSelected == 1) replace their pick on Toggle;
// multi-select groups toggle items individually and refuse to grow past
// MaxSelected.
type Selection struct {
	picks map[string][]SelectedTag
	order []string
}

func NewSelection() *Selection {
	return &Selection{picks: make(map[string][]SelectedTag)}
}

// Toggle applies an interactive click on item within group.
func (s *Selection) Toggle(group TagGroup, item TagItem) error {
	current := s.picks[group.ID]

	if idx := indexOf(current, item.ID); idx >= 0 {
		if group.SingleSelect() {
			s.set(group.ID, nil)
			return nil
		}
		next := make([]SelectedTag, 0, len(current)-1)
		next = append(next, current[:idx]...)
		next = append(next, current[idx+1:]...)
		s.set(group.ID, next)
		return nil
	}

	pick := newPick(group, item, 1)

	if group.SingleSelect() {
		s.set(group.ID, []SelectedTag{pick})
		return nil
	}

	if len(current) >= group.MaxSelected {
		return fmt.Errorf("%w: %q allows at most %d", ErrMaxSelectionReached, group.Name, group.MaxSelected)
	}

	s.set(group.ID, append(append([]SelectedTag(nil), current...), pick))
	return nil
}

// Add records an explicit pick with a quantity. Unlike Toggle it never
// removes or replaces an existing pick.
func (s *Selection) Add(group TagGroup, item TagItem, quantity int) error {
	if quantity < 1 || (item.MaxQuantity > 0 && quantity > item.MaxQuantity) {
		return fmt.Errorf("%w: %q quantity %d", ErrInvalidTagQuantity, item.Name, quantity)
	}

	current := s.picks[group.ID]
	if indexOf(current, item.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateSelection, item.Name)
	}
	if len(current) >= group.MaxSelected {
		return fmt.Errorf("%w: %q allows at most %d", ErrMaxSelectionReached, group.Name, group.MaxSelected)
	}

	s.set(group.ID, append(append([]SelectedTag(nil), current...), newPick(group, item, quantity)))
	return nil
}

func (s *Selection) IsSelected(groupID, itemID string) bool {
	return indexOf(s.picks[groupID], itemID) >= 0
}

func (s *Selection) Count(groupID string) int {
	return len(s.picks[groupID])
}

// Validate checks every group of the portion against its bounds.
func (s *Selection) Validate(groups []TagGroup) error {
	for _, g := range groups {
		n := s.Count(g.ID)
		if n < g.MinSelected {
			return fmt.Errorf("%w: %q requires at least %d", ErrMinSelectionNotMet, g.Name, g.MinSelected)
		}
		if n > g.MaxSelected {
			return fmt.Errorf("%w: %q allows at most %d", ErrMaxSelectionExceeded, g.Name, g.MaxSelected)
		}
	}
	return nil
}

// Flatten returns all picks, groups in first-touched order.
func (s *Selection) Flatten() []SelectedTag {
	out := make([]SelectedTag, 0)
	for _, id := range s.order {
		out = append(out, s.picks[id]...)
	}
	return out
}

// TagPick is an add-on choice as sent by a client.
type TagPick struct {
	TagID    string `json:"tagId"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// BuildSelection resolves client picks against the portion's tag groups and
// validates the result.
func BuildSelection(portion Portion, picks []TagPick) (*Selection, error) {
	sel := NewSelection()
	for _, p := range picks {
		group, ok := portion.TagGroup(p.TagID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrTagGroupNotFound, p.TagID)
		}
		item, ok := group.Item(p.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrTagItemNotFound, p.ItemID)
		}
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		if err := sel.Add(group, item, qty); err != nil {
			return nil, err
		}
	}
	if err := sel.Validate(portion.TagGroups); err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *Selection) set(groupID string, picks []SelectedTag) {
	if _, seen := s.picks[groupID]; !seen {
		s.order = append(s.order, groupID)
	}
	s.picks[groupID] = picks
}

func newPick(group TagGroup, item TagItem, quantity int) SelectedTag {
	return SelectedTag{
		TagID:    group.ID,
		TagName:  group.Name,
		ItemID:   item.ID,
		ItemName: item.Name,
		Price:    item.Price,
		Quantity: quantity,
	}
}

func indexOf(picks []SelectedTag, itemID string) int {
	for i, p := range picks {
		if p.ItemID == itemID {
			return i
		}
	}
	return -1
}
