package reservation

import (
	"strings"
	"time"

	"liwamenu-be/internal/utils"
)

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Request is the reservation form. CountryCode is the ISO code picked
// next to the phone field.
type Request struct {
	FullName    string `json:"fullName"`
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Guests      int    `json:"guests"`
	Notes       string `json:"notes"`
}

// Normalize trims the form and rewrites the phone in international form.
func (r Request) Normalize() Request {
	r.FullName = strings.TrimSpace(r.FullName)
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	r.Phone = utils.NormalizePhone(r.CountryCode, r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.Notes = strings.TrimSpace(r.Notes)
	return r
}

// Validate checks a normalized request. today is the restaurant's current
// date; reservations for earlier days are rejected.
func (r Request) Validate(today time.Time) error {
	if r.FullName == "" {
		return ErrNameRequired
	}
	if r.Phone == "" {
		return ErrPhoneRequired
	}
	if _, ok := utils.CountryDialCodes[r.CountryCode]; !ok {
		return ErrUnknownCountry
	}
	if !utils.IsValidPhone(r.Phone) {
		return ErrInvalidPhone
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if r.Date == "" {
		return ErrDateRequired
	}
	d, err := time.ParseInLocation(dateLayout, r.Date, today.Location())
	if err != nil {
		return ErrDateRequired
	}
	y, m, day := today.Date()
	if d.Before(time.Date(y, m, day, 0, 0, 0, 0, today.Location())) {
		return ErrDateInPast
	}
	if _, err := time.Parse(timeLayout, r.Time); err != nil {
		return ErrTimeRequired
	}
	if r.Guests < 1 {
		return ErrInvalidGuests
	}
	return nil
}

// key identifies whose code is pending.
func (r Request) key() string {
	return r.Phone + "|" + strings.ToLower(r.Email)
}

// Confirmation is returned once the reservation endpoint accepted the form.
type Confirmation struct {
	ConfirmationCode string    `json:"confirmationCode"`
	RestaurantName   string    `json:"restaurantName"`
	RestaurantAddr   string    `json:"restaurantAddress"`
	FullName         string    `json:"fullName"`
	Phone            string    `json:"phone"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Guests           int       `json:"guests"`
	CreatedAt        time.Time `json:"createdAt"`
}

type codePayload struct {
	RestaurantID string `json:"restaurantId"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Code         string `json:"code"`
}

type submitPayload struct {
	RestaurantID     string `json:"restaurantId"`
	FullName         string `json:"fullName"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Guests           int    `json:"guests"`
	Notes            string `json:"notes"`
	VerificationCode string `json:"verificationCode"`
}

type submitResponse struct {
	ConfirmationCode string `json:"confirmationCode"`
}
