package reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedState struct{ now time.Time }

func (f fixedState) State() restaurant.State {
	return restaurant.State{RestaurantID: "r-1", Name: "Liwa Cafe", Address: "Kadikoy"}
}
func (f fixedState) Now() time.Time { return f.now }

var today = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

// endpoint records the JSON bodies it receives.
type endpoint struct {
	mu     sync.Mutex
	bodies []map[string]any
	status int
	reply  string
	srv    *httptest.Server
}

func newEndpoint(t *testing.T, status int, reply string) *endpoint {
	e := &endpoint{status: status, reply: reply}
	e.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		e.mu.Lock()
		e.bodies = append(e.bodies, body)
		status, reply := e.status, e.reply
		e.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(e.srv.Close)
	return e
}

func (e *endpoint) respond(status int, reply string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status, e.reply = status, reply
}

func (e *endpoint) client(target string) *upstream.Client {
	return upstream.New(target, e.srv.URL, time.Second, nil)
}

func (e *endpoint) last() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.bodies) == 0 {
		return nil
	}
	return e.bodies[len(e.bodies)-1]
}

func (e *endpoint) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.bodies)
}

type fixture struct {
	sms, email, submit *endpoint
	svc                *service
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		sms:    newEndpoint(t, http.StatusOK, `{}`),
		email:  newEndpoint(t, http.StatusOK, `{}`),
		submit: newEndpoint(t, http.StatusCreated, `{"confirmationCode":"RZ-4821"}`),
	}
	svc := NewService(fixedState{now: today}, Clients{
		SMS:    f.sms.client("reservation_sms"),
		Email:  f.email.client("reservation_email"),
		Submit: f.submit.client("reservation"),
	}, nil, Options{}).(*service)
	svc.codes.cost = bcrypt.MinCost
	svc.newCode = func() (string, error) { return "123456", nil }
	f.svc = svc
	return f
}

func validRequest() Request {
	return Request{
		FullName:    "Ayse Yilmaz",
		CountryCode: "tr",
		Phone:       "0532 123 45 67",
		Email:       "ayse@example.com",
		Date:        "2025-06-03",
		Time:        "19:30",
		Guests:      4,
		Notes:       "window seat",
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		want   error
	}{
		{"Valid", func(*Request) {}, nil},
		{"Today is fine", func(r *Request) { r.Date = "2025-06-02" }, nil},
		{"Name", func(r *Request) { r.FullName = "  " }, ErrNameRequired},
		{"Phone", func(r *Request) { r.Phone = "" }, ErrPhoneRequired},
		{"Short phone", func(r *Request) { r.Phone = "123" }, ErrInvalidPhone},
		{"Country", func(r *Request) { r.CountryCode = "XX" }, ErrUnknownCountry},
		{"Email", func(r *Request) { r.Email = "ayse.example.com" }, ErrInvalidEmail},
		{"Date", func(r *Request) { r.Date = "" }, ErrDateRequired},
		{"Bad date", func(r *Request) { r.Date = "03/06/2025" }, ErrDateRequired},
		{"Past", func(r *Request) { r.Date = "2025-06-01" }, ErrDateInPast},
		{"Time", func(r *Request) { r.Time = "" }, ErrTimeRequired},
		{"Guests", func(r *Request) { r.Guests = 0 }, ErrInvalidGuests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)
			err := r.Normalize().Validate(today)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestChannelFor(t *testing.T) {
	assert.Equal(t, ChannelSMS, ChannelFor("TR", "TR"))
	assert.Equal(t, ChannelSMS, ChannelFor("tr", "TR"))
	assert.Equal(t, ChannelEmail, ChannelFor("DE", "TR"))
}

func TestService_RequestCode(t *testing.T) {
	ctx := context.Background()

	t.Run("Local number gets SMS", func(t *testing.T) {
		f := newFixture(t)
		ch, err := f.svc.RequestCode(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, ChannelSMS, ch)

		body := f.sms.last()
		require.NotNil(t, body)
		assert.Equal(t, "+905321234567", body["phone"])
		assert.Equal(t, "123456", body["code"])
		assert.Equal(t, "r-1", body["restaurantId"])
		assert.Zero(t, f.email.count())
	})

	t.Run("Foreign number gets email", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.CountryCode = "DE"
		req.Phone = "+49 151 2345678"

		ch, err := f.svc.RequestCode(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, ChannelEmail, ch)
		assert.Equal(t, "ayse@example.com", f.email.last()["email"])
		assert.Zero(t, f.sms.count())
	})

	t.Run("Invalid form sends nothing", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.Guests = 0

		_, err := f.svc.RequestCode(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidGuests)
		assert.Zero(t, f.sms.count())
	})

	t.Run("Delivery failure drops the code", func(t *testing.T) {
		f := newFixture(t)
		f.sms.respond(http.StatusServiceUnavailable, `down`)

		_, err := f.svc.RequestCode(ctx, validRequest())
		assert.ErrorIs(t, err, ErrCodeDeliveryFailed)

		_, err = f.svc.Submit(ctx, validRequest(), "123456")
		assert.ErrorIs(t, err, ErrCodeNotRequested)
	})

	t.Run("Unconfigured channel", func(t *testing.T) {
		f := newFixture(t)
		f.svc.clients.SMS = upstream.New("reservation_sms", "", 0, nil)

		_, err := f.svc.RequestCode(ctx, validRequest())
		assert.ErrorIs(t, err, ErrCodeDeliveryFailed)
		assert.ErrorIs(t, err, upstream.ErrNotConfigured)
	})
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RequestCode(ctx, validRequest())
		require.NoError(t, err)

		conf, err := f.svc.Submit(ctx, validRequest(), " 123456 ")
		require.NoError(t, err)
		assert.Equal(t, "RZ-4821", conf.ConfirmationCode)
		assert.Equal(t, "Liwa Cafe", conf.RestaurantName)
		assert.Equal(t, 4, conf.Guests)

		body := f.submit.last()
		assert.Equal(t, "Ayse Yilmaz", body["fullName"])
		assert.Equal(t, "+905321234567", body["phone"])
		assert.Equal(t, float64(4), body["guests"])
		assert.Equal(t, "window seat", body["notes"])
		assert.Equal(t, "123456", body["verificationCode"])

		// codes are single use
		_, err = f.svc.Submit(ctx, validRequest(), "123456")
		assert.ErrorIs(t, err, ErrCodeNotRequested)
	})

	t.Run("Wrong code then lockout", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RequestCode(ctx, validRequest())
		require.NoError(t, err)

		for i := 0; i < MaxCodeAttempts; i++ {
			_, err = f.svc.Submit(ctx, validRequest(), "000000")
			assert.ErrorIs(t, err, ErrCodeMismatch)
		}
		_, err = f.svc.Submit(ctx, validRequest(), "123456")
		assert.ErrorIs(t, err, ErrTooManyAttempts)
		assert.Zero(t, f.submit.count())
	})

	t.Run("Missing code", func(t *testing.T) {
		_, err := newFixture(t).svc.Submit(ctx, validRequest(), "")
		assert.ErrorIs(t, err, ErrCodeRequired)
	})

	t.Run("Upstream failure is not a confirmation", func(t *testing.T) {
		f := newFixture(t)
		f.submit.respond(http.StatusInternalServerError, `{}`)
		_, err := f.svc.RequestCode(ctx, validRequest())
		require.NoError(t, err)

		conf, err := f.svc.Submit(ctx, validRequest(), "123456")
		assert.Nil(t, conf)
		assert.ErrorIs(t, err, ErrSubmissionFailed)

		// the code survives for a retry
		f.submit.respond(http.StatusCreated, `{"confirmationCode":"RZ-4821"}`)
		conf, err = f.svc.Submit(ctx, validRequest(), "123456")
		require.NoError(t, err)
		assert.Equal(t, "RZ-4821", conf.ConfirmationCode)
	})

	t.Run("Response without confirmation code", func(t *testing.T) {
		f := newFixture(t)
		f.submit.respond(http.StatusCreated, `{}`)
		_, err := f.svc.RequestCode(ctx, validRequest())
		require.NoError(t, err)

		_, err = f.svc.Submit(ctx, validRequest(), "123456")
		assert.ErrorIs(t, err, ErrSubmissionFailed)
	})
}

func TestCodeStore_Expiry(t *testing.T) {
	s := newCodeStore(20 * time.Millisecond)
	s.cost = bcrypt.MinCost
	require.NoError(t, s.put("k", "111111"))
	require.NoError(t, s.verify("k", "111111"))

	assert.Eventually(t, func() bool {
		return s.verify("k", "111111") == ErrCodeNotRequested
	}, time.Second, 10*time.Millisecond)
}
