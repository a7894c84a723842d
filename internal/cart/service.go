package cart

import (
	"context"
	"errors"
	"fmt"

	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/restaurant"

	"go.uber.org/zap"
)

// StateSource supplies the loaded restaurant, including its catalog.
type StateSource interface {
	State() restaurant.State
}

// Service defines the cart operations of a diner session.
type Service interface {
	AddItem(ctx context.Context, params AddItemParams) (*Line, error)
	RemoveItem(ctx context.Context, sessionID, lineID string) error
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) error
	Clear(ctx context.Context, sessionID string) error
	// RemoveLines drops only the given lines, leaving any added since.
	RemoveLines(ctx context.Context, sessionID string, lineIDs []string) error
	Summary(ctx context.Context, sessionID string) (Summary, error)
}

type service struct {
	repo  Repository
	state StateSource
}

func NewService(repo Repository, state StateSource) Service {
	return &service{repo: repo, state: state}
}

func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("session_id", params.SessionID),
		zap.String("product_id", params.ProductID),
		zap.String("portion_id", params.PortionID),
	)

	if params.SessionID == "" {
		return nil, ErrMissingSession
	}
	if params.Quantity < 1 {
		log.Warn("invalid quantity", zap.Int("quantity", params.Quantity))
		return nil, ErrInvalidQuantity
	}

	// 1️⃣ Resolve product and portion from the catalog
	product, ok := s.state.State().Product(params.ProductID)
	if !ok || product.Hide {
		return nil, ErrProductNotFound
	}
	portion, ok := product.Portion(params.PortionID)
	if !ok {
		return nil, ErrPortionNotFound
	}
	if portion.ProductID != "" && portion.ProductID != product.ID {
		return nil, ErrPortionMismatch
	}

	// 2️⃣ Check add-on picks against the portion's tag groups
	sel, err := catalog.BuildSelection(portion, params.Tags)
	if err != nil {
		log.Info("add-on selection rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	line := Line{
		ID:           newLineID(product.ID, portion.ID),
		Product:      product,
		Portion:      portion,
		Quantity:     params.Quantity,
		SelectedTags: sel.Flatten(),
		Note:         params.Note,
	}

	// 3️⃣ Append to the session cart
	c := s.repo.Load(ctx, params.SessionID)
	c.add(line)
	s.repo.Touch(ctx, c)

	log.Info("cart line added", zap.String("line_id", line.ID), zap.Int("quantity", line.Quantity))
	return &line, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, lineID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RemoveItem"),
		zap.String("session_id", sessionID),
		zap.String("line_id", lineID),
	)

	if sessionID == "" {
		return ErrMissingSession
	}

	c := s.repo.Load(ctx, sessionID)
	if !c.remove(lineID) {
		log.Info("line not found")
		return ErrCartItemNotFound
	}
	s.repo.Touch(ctx, c)

	log.Info("cart line removed")
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateQuantity"),
		zap.String("session_id", sessionID),
		zap.String("line_id", lineID),
		zap.Int("quantity", quantity),
	)

	if sessionID == "" {
		return ErrMissingSession
	}

	c := s.repo.Load(ctx, sessionID)
	if !c.setQuantity(lineID, quantity) {
		log.Info("line not found")
		return ErrCartItemNotFound
	}
	s.repo.Touch(ctx, c)

	log.Info("cart line quantity updated")
	return nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrMissingSession
	}
	s.repo.Load(ctx, sessionID).clear()

	logger.FromCtx(ctx).Info("cart cleared",
		zap.String("layer", "service"),
		zap.String("method", "Clear"),
		zap.String("session_id", sessionID),
	)
	return nil
}

func (s *service) RemoveLines(ctx context.Context, sessionID string, lineIDs []string) error {
	if sessionID == "" {
		return ErrMissingSession
	}
	c := s.repo.Load(ctx, sessionID)
	removed := c.removeLines(lineIDs)
	s.repo.Touch(ctx, c)

	logger.FromCtx(ctx).Info("cart lines settled",
		zap.String("layer", "service"),
		zap.String("method", "RemoveLines"),
		zap.String("session_id", sessionID),
		zap.Int("removed", removed),
		zap.Int("remaining", len(c.Lines())),
	)
	return nil
}

func (s *service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	if sessionID == "" {
		return Summary{}, ErrMissingSession
	}
	c := s.repo.Load(ctx, sessionID)
	return NewSummary(c, s.state.State().IsSpecialPriceActive), nil
}

// IsValidationError reports whether err is caused by diner input rather
// than by state.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrPortionMismatch)
}
