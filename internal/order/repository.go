package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/pricing"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const DefaultHistoryLimit = 50

// Repository is the order history of diner sessions.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*Order, error)
	GetStatus(ctx context.Context, orderID string) (Status, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID),
	)

	start := time.Now()
	log.Debug("start create order")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin tx", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
	}
	defer tx.Rollback()

	var customerName, customerPhone, customerAddress sql.NullString
	if c := o.CustomerInfo; c != nil {
		customerName = sql.NullString{String: c.Name, Valid: true}
		customerPhone = sql.NullString{String: c.Phone, Valid: true}
		customerAddress = sql.NullString{String: c.Address, Valid: c.Address != ""}
	}

	var tableNumber sql.NullInt64
	if o.TableNumber != nil {
		tableNumber = sql.NullInt64{Int64: int64(*o.TableNumber), Valid: true}
	}

	// 1. Insert order
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, session_id, restaurant_id, order_type, status,
			table_number, customer_name, customer_phone, customer_address,
			payment_method_id, payment_method_name, order_note,
			subtotal, discount_rate, discount_amount, delivery_fee, total_amount,
			submission_mode, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		o.ID,
		o.SessionID,
		o.RestaurantID,
		string(o.OrderType),
		string(o.Status),
		tableNumber,
		customerName,
		customerPhone,
		customerAddress,
		nullString(o.PaymentMethodID),
		nullString(o.PaymentMethodName),
		nullString(o.OrderNote),
		o.Checkout.Subtotal,
		o.Checkout.DiscountRate,
		o.Checkout.DiscountAmount,
		o.Checkout.DeliveryFee,
		o.TotalAmount,
		o.Mode,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
	}

	// 2. Insert items in cart order
	for i, item := range o.Items {
		tags, err := json.Marshal(item.SelectedTags)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, product_id, product_name,
				portion_id, portion_name, unit_price, quantity,
				selected_tags, item_total, note
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			o.ID,
			i,
			item.ProductID,
			item.ProductName,
			item.PortionID,
			item.PortionName,
			item.UnitPrice,
			item.Quantity,
			tags,
			item.ItemTotal,
			item.Note,
		)
		if err != nil {
			log.Error("failed to insert order item", zap.Int("position", i), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
	}

	log.Info("success create order",
		zap.Int("items", len(o.Items)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// ListBySession returns the session's orders, most recent first.
func (r *repository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListBySession"),
		zap.String("session_id", sessionID),
	)

	start := time.Now()
	log.Info("query started")

	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, session_id, restaurant_id, order_type, status,
			table_number, customer_name, customer_phone, customer_address,
			payment_method_id, payment_method_name, order_note,
			subtotal, discount_rate, discount_amount, delivery_fee, total_amount,
			submission_mode, created_at, updated_at
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedGetOrders, err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	byID := make(map[string]*Order)
	ids := make([]string, 0)

	for rows.Next() {
		var (
			o                                         Order
			orderType, status                         string
			tableNumber                               sql.NullInt64
			customerName, customerPhone, customerAddr sql.NullString
			pmID, pmName, note                        sql.NullString
		)
		if err := rows.Scan(
			&o.ID, &o.SessionID, &o.RestaurantID, &orderType, &status,
			&tableNumber, &customerName, &customerPhone, &customerAddr,
			&pmID, &pmName, &note,
			&o.Checkout.Subtotal, &o.Checkout.DiscountRate, &o.Checkout.DiscountAmount,
			&o.Checkout.DeliveryFee, &o.TotalAmount,
			&o.Mode, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrFailedGetOrders, err)
		}

		o.OrderType = pricing.OrderType(orderType)
		o.Checkout.OrderType = o.OrderType
		o.Checkout.Total = o.TotalAmount
		o.Status = Status(status)
		if tableNumber.Valid {
			n := int(tableNumber.Int64)
			o.TableNumber = &n
		}
		if customerName.Valid {
			o.CustomerInfo = &CustomerInfo{
				Name:    customerName.String,
				Phone:   customerPhone.String,
				Address: customerAddr.String,
			}
		}
		o.PaymentMethodID = pmID.String
		o.PaymentMethodName = pmName.String
		o.OrderNote = note.String
		o.Items = []Item{}

		orders = append(orders, &o)
		byID[o.ID] = &o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows error", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedGetOrders, err)
	}

	if len(ids) == 0 {
		log.Info("query finished", zap.Int("count", 0), zap.Duration("duration", time.Since(start)))
		return orders, nil
	}

	if err := r.loadItems(ctx, ids, byID); err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedGetOrders, err)
	}

	log.Info("query finished",
		zap.Int("count", len(orders)),
		zap.Duration("duration", time.Since(start)),
	)
	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, ids []string, byID map[string]*Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			order_id, product_id, product_name, portion_id, portion_name,
			unit_price, quantity, selected_tags, item_total, note
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    Item
			tags    []byte
		)
		if err := rows.Scan(
			&orderID, &item.ProductID, &item.ProductName, &item.PortionID, &item.PortionName,
			&item.UnitPrice, &item.Quantity, &tags, &item.ItemTotal, &item.Note,
		); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &item.SelectedTags); err != nil {
				return err
			}
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *repository) GetStatus(ctx context.Context, orderID string) (Status, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order status",
			zap.String("layer", "repository"),
			zap.String("method", "GetStatus"),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrFailedGetOrders, err)
	}
	return Status(status), nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, string(status), orderID)
	if err != nil {
		log.Error("failed to update status", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedUpdateStatus, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedUpdateStatus, err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	log.Info("order status updated")
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
