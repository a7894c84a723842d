package restaurant

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type document struct {
	RestaurantData State `json:"restaurantData"`
}

// LoadFile reads a YAML (or JSON) restaurant document of the form
// `restaurantData: {...}` and validates it.
func LoadFile(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	return Parse(raw)
}

// Parse decodes YAML into the JSON-tagged model. The document goes through
// a generic tree first so decimal fields use their JSON decoding.
func Parse(raw []byte) (*State, error) {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeConfig, err)
	}

	asJSON, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeConfig, err)
	}

	var doc document
	if err := json.Unmarshal(asJSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeConfig, err)
	}

	if err := Validate(doc.RestaurantData); err != nil {
		return nil, err
	}
	return &doc.RestaurantData, nil
}

func Validate(s State) error {
	seen := make(map[int]bool, 7)
	for _, wh := range s.WorkingHours {
		if wh.Day < 1 || wh.Day > 7 {
			return fmt.Errorf("%w: day %d", ErrInvalidWorkingHour, wh.Day)
		}
		if seen[wh.Day] {
			return fmt.Errorf("%w: day %d", ErrDuplicateWorkingDay, wh.Day)
		}
		seen[wh.Day] = true
		if wh.IsClosed {
			continue
		}
		if !validClock(wh.Open) || !validClock(wh.Close) {
			return fmt.Errorf("%w: day %d %q-%q", ErrInvalidWorkingHour, wh.Day, wh.Open, wh.Close)
		}
	}

	for _, m := range s.Menus {
		for _, p := range m.Plans {
			for _, d := range p.Days {
				if d < 0 || d > 6 {
					return fmt.Errorf("%w: plan %q day %d", ErrInvalidMenuPlan, p.ID, d)
				}
			}
			if !validClock(p.StartTime) || !validClock(p.EndTime) {
				return fmt.Errorf("%w: plan %q %q-%q", ErrInvalidMenuPlan, p.ID, p.StartTime, p.EndTime)
			}
		}
	}

	hundred := decimal.NewFromInt(100)
	for _, rate := range []decimal.Decimal{s.TableOrderDiscountRate, s.OnlineOrderDiscountRate} {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s", ErrInvalidRate, rate)
		}
	}
	if s.MinOrderAmount.IsNegative() || s.DeliveryPrice.IsNegative() {
		return ErrInvalidAmount
	}

	for _, p := range s.Products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
	}
	return nil
}

func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
