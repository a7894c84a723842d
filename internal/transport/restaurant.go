package transport

import (
	"net/http"
	"time"

	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/pricing"
	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// StateSource supplies the restaurant and the clock in its time zone.
type StateSource interface {
	State() restaurant.State
	Now() time.Time
}

type RestaurantHandler struct {
	state StateSource
}

func NewRestaurantHandler(state StateSource) *RestaurantHandler {
	return &RestaurantHandler{state: state}
}

func (h *RestaurantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/restaurant", h.Get)
	r.Get("/menu", h.Menu)
}

type restaurantResponse struct {
	RestaurantID            string                     `json:"restaurantId"`
	Name                    string                     `json:"name"`
	PhoneNumber             string                     `json:"phoneNumber"`
	Address                 string                     `json:"address"`
	Latitude                float64                    `json:"latitude"`
	Longitude               float64                    `json:"longitude"`
	MoneySign               *string                    `json:"moneySign"`
	MinOrderAmount          decimal.Decimal            `json:"minOrderAmount"`
	DeliveryPrice           decimal.Decimal            `json:"deliveryPrice"`
	TableOrderDiscountRate  decimal.Decimal            `json:"tableOrderDiscountRate"`
	OnlineOrderDiscountRate decimal.Decimal            `json:"onlineOrderDiscountRate"`
	MaxDistance             float64                    `json:"maxDistance"`
	IsSpecialPriceActive    bool                       `json:"isSpecialPriceActive"`
	SpecialPriceName        string                     `json:"specialPriceName,omitempty"`
	WorkingHours            []restaurant.WorkingHour   `json:"workingHours"`
	PaymentMethods          []restaurant.PaymentMethod `json:"paymentMethods"`
	Availability            restaurant.Availability    `json:"availability"`
}

// Get handles GET /restaurant: the public profile plus the ordering gates
// evaluated now.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	st := h.state.State()
	now := h.state.Now()

	utils.WriteJSON(w, http.StatusOK, restaurantResponse{
		RestaurantID:            st.RestaurantID,
		Name:                    st.Name,
		PhoneNumber:             st.PhoneNumber,
		Address:                 st.Address,
		Latitude:                st.Latitude,
		Longitude:               st.Longitude,
		MoneySign:               st.MoneySign,
		MinOrderAmount:          st.MinOrderAmount,
		DeliveryPrice:           st.DeliveryPrice,
		TableOrderDiscountRate:  st.TableOrderDiscountRate,
		OnlineOrderDiscountRate: st.OnlineOrderDiscountRate,
		MaxDistance:             st.MaxDistance,
		IsSpecialPriceActive:    st.IsSpecialPriceActive,
		SpecialPriceName:        st.SpecialPriceName,
		WorkingHours:            st.WorkingHours,
		PaymentMethods:          restaurant.EnabledPaymentMethods(st),
		Availability:            restaurant.Evaluate(st, now),
	})
}

// menuProduct is a product card with its "from" price resolved.
type menuProduct struct {
	catalog.Product
	FromPrice      *pricing.UnitPrice `json:"fromPrice,omitempty"`
	FormattedPrice string             `json:"formattedPrice,omitempty"`
}

type menuCategory struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Image     string        `json:"image"`
	SortOrder int           `json:"sortOrder"`
	Products  []menuProduct `json:"products"`
}

type menuResponse struct {
	ActiveMenu  *restaurant.Menu `json:"activeMenu"`
	Categories  []menuCategory   `json:"categories"`
	Recommended []menuProduct    `json:"recommended"`
}

// Menu handles GET /menu: categories and recommendations visible now.
func (h *RestaurantHandler) Menu(w http.ResponseWriter, r *http.Request) {
	st := h.state.State()
	now := h.state.Now()

	cats := restaurant.VisibleCategories(st.Products, st.Menus, now)
	res := menuResponse{
		ActiveMenu:  restaurant.ActiveMenu(st.Menus, now),
		Categories:  make([]menuCategory, 0, len(cats)),
		Recommended: toMenuProducts(st, restaurant.RecommendedProducts(st.Products, st.Menus, now)),
	}
	for _, c := range cats {
		res.Categories = append(res.Categories, menuCategory{
			ID:        c.ID,
			Name:      c.Name,
			Image:     c.Image,
			SortOrder: c.SortOrder,
			Products:  toMenuProducts(st, c.Products),
		})
	}

	utils.WriteJSON(w, http.StatusOK, res)
}

func toMenuProducts(st restaurant.State, products []catalog.Product) []menuProduct {
	out := make([]menuProduct, 0, len(products))
	for _, p := range products {
		mp := menuProduct{Product: p}
		if up, ok := pricing.LowestPortionPrice(p, st.IsSpecialPriceActive); ok {
			mp.FromPrice = &up
			mp.FormattedPrice = restaurant.FormatPrice(st, up.Price)
		}
		out = append(out, mp)
	}
	return out
}
