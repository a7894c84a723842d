package restaurant

import (
	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/geo"

	"github.com/shopspring/decimal"
)

// WorkingHour is one weekday's schedule. Day follows ISO numbering
// (1=Monday .. 7=Sunday); Open and Close are zero-padded "HH:MM".
type WorkingHour struct {
	Day      int    `json:"Day"`
	IsClosed bool   `json:"IsClosed"`
	Open     string `json:"Open"`
	Close    string `json:"Close"`
}

// MenuPlan is a recurring window. Days use time.Weekday numbering
// (0=Sunday .. 6=Saturday), unlike WorkingHour.
type MenuPlan struct {
	ID        string `json:"id"`
	Days      []int  `json:"days"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Menu struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Plans       []MenuPlan `json:"plans"`
	CategoryIDs []string   `json:"categoryIds"`
}

type PaymentMethod struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// State is the restaurant configuration loaded at startup. It is read-only
// once loaded.
type State struct {
	RestaurantID string  `json:"restaurantId"`
	Name         string  `json:"name"`
	PhoneNumber  string  `json:"phoneNumber"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	IsActive        bool `json:"isActive"`
	LicenseIsActive bool `json:"licenseIsActive"`
	Hide            bool `json:"hide"`
	OnlineOrder     bool `json:"onlineOrder"`
	InPersonOrder   bool `json:"inPersonOrder"`

	// MaxDistance is the delivery radius in km.
	MaxDistance                float64 `json:"maxDistance"`
	CheckTableOrderDistance    bool    `json:"checkTableOrderDistance"`
	MaxTableOrderDistanceMeter float64 `json:"maxTableOrderDistanceMeter"`

	TableOrderDiscountRate  decimal.Decimal `json:"tableOrderDiscountRate"`
	OnlineOrderDiscountRate decimal.Decimal `json:"onlineOrderDiscountRate"`
	MinOrderAmount          decimal.Decimal `json:"minOrderAmount"`
	DeliveryPrice           decimal.Decimal `json:"deliveryPrice"`

	IsSpecialPriceActive bool    `json:"isSpecialPriceActive"`
	SpecialPriceName     string  `json:"specialPriceName"`
	MoneySign            *string `json:"moneySign"`

	WorkingHours   []WorkingHour     `json:"WorkingHours"`
	Products       []catalog.Product `json:"Products"`
	Menus          []Menu            `json:"Menus"`
	PaymentMethods []PaymentMethod   `json:"PaymentMethods"`
}

func (s State) Coordinates() geo.Coordinates {
	return geo.Coordinates{Latitude: s.Latitude, Longitude: s.Longitude}
}

func (s State) Product(productID string) (catalog.Product, bool) {
	for _, p := range s.Products {
		if p.ID == productID {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s State) PaymentMethod(id string) (PaymentMethod, bool) {
	for _, pm := range s.PaymentMethods {
		if pm.ID == id {
			return pm, true
		}
	}
	return PaymentMethod{}, false
}

// Category groups visible products for display.
type Category struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Image     string            `json:"image"`
	SortOrder int               `json:"sortOrder"`
	Products  []catalog.Product `json:"products"`
}
