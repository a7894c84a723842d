package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/metrics"
	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/upstream"
	"liwamenu-be/internal/utils"

	"go.uber.org/zap"
)

const DefaultLocalCountry = "TR"

type StateSource interface {
	State() restaurant.State
	Now() time.Time
}

type Service interface {
	// RequestCode validates the form and sends a verification code,
	// returning the channel it went out on.
	RequestCode(ctx context.Context, req Request) (Channel, error)
	// Submit verifies code and posts the reservation.
	Submit(ctx context.Context, req Request, code string) (*Confirmation, error)
}

// Clients are the reservation endpoints. Any of them may be unconfigured.
type Clients struct {
	SMS    *upstream.Client
	Email  *upstream.Client
	Submit *upstream.Client
}

type Options struct {
	// LocalCountry is the ISO code whose numbers get SMS codes; others
	// get email. Defaults to DefaultLocalCountry.
	LocalCountry string
	CodeTTL      time.Duration
}

type service struct {
	state        StateSource
	clients      Clients
	codes        *codeStore
	localCountry string
	metrics      *metrics.Collector
	newCode      func() (string, error)
}

func NewService(state StateSource, clients Clients, collector *metrics.Collector, opts Options) Service {
	country := strings.ToUpper(strings.TrimSpace(opts.LocalCountry))
	if country == "" {
		country = DefaultLocalCountry
	}
	return &service{
		state:        state,
		clients:      clients,
		codes:        newCodeStore(opts.CodeTTL),
		localCountry: country,
		metrics:      collector,
		newCode:      func() (string, error) { return utils.GenerateNumericCode(CodeDigits) },
	}
}

// ChannelFor picks SMS for local numbers and email for everyone else.
func ChannelFor(countryCode, localCountry string) Channel {
	if strings.EqualFold(countryCode, localCountry) {
		return ChannelSMS
	}
	return ChannelEmail
}

func (s *service) RequestCode(ctx context.Context, req Request) (Channel, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RequestCode"),
	)

	req = req.Normalize()
	if err := req.Validate(s.state.Now()); err != nil {
		log.Info("invalid reservation form", zap.Error(err))
		return "", err
	}

	code, err := s.newCode()
	if err != nil {
		log.Error("failed to generate code", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrCodeDeliveryFailed, err)
	}

	channel := ChannelFor(req.CountryCode, s.localCountry)
	payload := codePayload{
		RestaurantID: s.state.State().RestaurantID,
		FullName:     req.FullName,
		Code:         code,
	}
	client := s.clients.Email
	if channel == ChannelSMS {
		client = s.clients.SMS
		payload.Phone = req.Phone
	} else {
		payload.Email = req.Email
	}

	// 1️⃣ Store first so a fast reply from the diner finds the code
	if err := s.codes.put(req.key(), code); err != nil {
		log.Error("failed to hash code", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrCodeDeliveryFailed, err)
	}

	// 2️⃣ Deliver
	if err := client.PostJSON(ctx, payload, nil); err != nil {
		s.codes.consume(req.key())
		log.Error("failed to send code", zap.String("channel", string(channel)), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrCodeDeliveryFailed, err)
	}

	s.metrics.CodeSent(string(channel))
	log.Info("verification code sent", zap.String("channel", string(channel)))
	return channel, nil
}

func (s *service) Submit(ctx context.Context, req Request, code string) (*Confirmation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
	)

	req = req.Normalize()
	now := s.state.Now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if err := s.codes.verify(req.key(), code); err != nil {
		log.Info("verification failed", zap.Error(err))
		return nil, err
	}

	st := s.state.State()
	var res submitResponse
	err := s.clients.Submit.PostJSON(ctx, submitPayload{
		RestaurantID:     st.RestaurantID,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Email:            req.Email,
		Date:             req.Date,
		Time:             req.Time,
		Guests:           req.Guests,
		Notes:            req.Notes,
		VerificationCode: code,
	}, &res)
	if err != nil {
		log.Error("reservation submission failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if res.ConfirmationCode == "" {
		log.Error("reservation response carried no confirmation code")
		return nil, fmt.Errorf("%w: missing confirmation code", ErrSubmissionFailed)
	}

	s.codes.consume(req.key())

	log.Info("reservation confirmed",
		zap.String("confirmation_code", res.ConfirmationCode),
		zap.String("date", req.Date),
		zap.Int("guests", req.Guests),
	)
	return &Confirmation{
		ConfirmationCode: res.ConfirmationCode,
		RestaurantName:   st.Name,
		RestaurantAddr:   st.Address,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Date:             req.Date,
		Time:             req.Time,
		Guests:           req.Guests,
		CreatedAt:        now,
	}, nil
}
