package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/order"
	"liwamenu-be/internal/pricing"
	"liwamenu-be/internal/reservation"
	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/waiter"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---- Mocks ----

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, params cart.AddItemParams) (*cart.Line, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Line), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID, lineID string) error {
	return m.Called(ctx, sessionID, lineID).Error(0)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) error {
	return m.Called(ctx, sessionID, lineID, quantity).Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCartService) RemoveLines(ctx context.Context, sessionID string, lineIDs []string) error {
	return m.Called(ctx, sessionID, lineIDs).Error(0)
}

func (m *MockCartService) Summary(ctx context.Context, sessionID string) (cart.Summary, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(cart.Summary), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Quote(ctx context.Context, sess *session.Claims, orderType pricing.OrderType) (*order.Quote, error) {
	args := m.Called(ctx, sess, orderType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Quote), args.Error(1)
}

func (m *MockOrderService) Checkout(ctx context.Context, sess *session.Claims, req order.CheckoutRequest) (*order.Order, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) History(ctx context.Context, sessionID string) ([]*order.Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	return m.Called(ctx, orderID, status).Error(0)
}

type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) Change(ctx context.Context, sess *session.Claims, scanned string) (string, *session.Claims, error) {
	args := m.Called(ctx, sess, scanned)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*session.Claims), args.Error(2)
}

type MockWaiterService struct {
	mock.Mock
}

func (m *MockWaiterService) Call(ctx context.Context, tableNumber *int, reason string) (*waiter.Call, error) {
	args := m.Called(ctx, tableNumber, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*waiter.Call), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) RequestCode(ctx context.Context, req reservation.Request) (reservation.Channel, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(reservation.Channel), args.Error(1)
}

func (m *MockReservationService) Submit(ctx context.Context, req reservation.Request, code string) (*reservation.Confirmation, error) {
	args := m.Called(ctx, req, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Confirmation), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error { return p.err }

// ---- Fixture ----

const testInternalSecret = "internal-secret"

// Monday 2025-06-02 12:00 UTC
var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testState() restaurant.State {
	sign := "₺"
	campaign := dec("80")
	hours := make([]restaurant.WorkingHour, 0, 7)
	for d := 1; d <= 7; d++ {
		hours = append(hours, restaurant.WorkingHour{Day: d, Open: "09:00", Close: "22:00"})
	}
	return restaurant.State{
		RestaurantID:            "r-1",
		Name:                    "Liwa Cafe",
		IsActive:                true,
		LicenseIsActive:         true,
		OnlineOrder:             true,
		InPersonOrder:           true,
		MinOrderAmount:          dec("50"),
		DeliveryPrice:           dec("15"),
		OnlineOrderDiscountRate: dec("10"),
		MoneySign:               &sign,
		WorkingHours:            hours,
		PaymentMethods: []restaurant.PaymentMethod{
			{ID: "cash", Name: "Cash", Enabled: true},
			{ID: "card", Name: "Card", Enabled: false},
		},
		Menus: []restaurant.Menu{{
			ID:          1,
			Name:        "Breakfast",
			Plans:       []restaurant.MenuPlan{{ID: "b", Days: []int{1}, StartTime: "08:00", EndTime: "11:00"}},
			CategoryIDs: []string{"breakfast"},
		}},
		Products: []catalog.Product{
			{
				ID: "burger", Name: "Burger", Recommendation: true,
				CategoryID: "mains", CategoryName: "Mains", CategorySortOrder: 2,
				Portions: []catalog.Portion{
					{ID: "big", Price: dec("120")},
					{ID: "regular", Price: dec("100"), CampaignPrice: &campaign},
				},
			},
			{
				ID: "tea", Name: "Tea", SortOrder: 1,
				CategoryID: "drinks", CategoryName: "Drinks", CategorySortOrder: 1,
				Portions: []catalog.Portion{{ID: "cup", Price: dec("20")}},
			},
			{
				ID: "eggs", Name: "Eggs",
				CategoryID: "breakfast", CategoryName: "Breakfast", CategorySortOrder: 0,
				Portions: []catalog.Portion{{ID: "plate", Price: dec("60")}},
			},
		},
	}
}

type fixture struct {
	issuer       *session.Issuer
	cart         *MockCartService
	orders       *MockOrderService
	tables       *MockTableService
	waiters      *MockWaiterService
	reservations *MockReservationService
	pinger       *stubPinger
	router       http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	issuer, err := session.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		issuer:       issuer,
		cart:         new(MockCartService),
		orders:       new(MockOrderService),
		tables:       new(MockTableService),
		waiters:      new(MockWaiterService),
		reservations: new(MockReservationService),
		pinger:       &stubPinger{},
	}
	store := restaurant.NewStore(testState(), time.UTC).WithClock(func() time.Time { return testNow })

	f.router = NewRouter(Deps{
		Sessions:       NewSessionHandler(issuer, false),
		Restaurant:     NewRestaurantHandler(store),
		Cart:           NewCartHandler(f.cart),
		Orders:         NewOrderHandler(f.orders),
		Tables:         NewTableHandler(f.tables, f.waiters, false),
		Reservations:   NewReservationHandler(f.reservations),
		Parser:         issuer,
		Metrics:        http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, "# metrics") }),
		DB:             f.pinger,
		InternalSecret: testInternalSecret,
		AllowedOrigins: []string{"*"},
	})

	t.Cleanup(func() {
		f.cart.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.tables.AssertExpectations(t)
		f.waiters.AssertExpectations(t)
		f.reservations.AssertExpectations(t)
	})
	return f
}

// diner is a signed-in session.
type diner struct {
	claims *session.Claims
	token  string
}

func (f *fixture) login(t *testing.T, table *int) *diner {
	t.Helper()
	token, claims, err := f.issuer.Issue(table)
	require.NoError(t, err)
	return &diner{claims: claims, token: token}
}

func (f *fixture) do(method, path, body string, d *diner) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if d != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: d.token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// sameSession matches the claims the middleware parsed from a cookie.
func sameSession(d *diner) any {
	return mock.MatchedBy(func(c *session.Claims) bool {
		return c != nil && c.SessionID == d.claims.SessionID
	})
}
