package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
	"samovar/internal/errors"
	"samovar/internal/lifecycle"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderWriter interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error
}

type OrderItemWriter interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error
}

type ProductReader interface {
	FindByID(ctx context.Context, tx *sql.Tx, id string) (*domain.Product, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, exchange string, body []byte) error
}

// CheckoutService creates an order and its items atomically. Unit
// prices are snapshotted from the catalog inside the transaction;
// total_amount is frozen at creation and never re-derived.
type CheckoutService struct {
	db          TransactionManager
	orderRepo   OrderWriter
	itemRepo    OrderItemWriter
	productRepo ProductReader
	publisher   EventPublisher
	deliveryFee int64
	logger      *zap.Logger
	now         func() time.Time
}

func NewCheckoutService(
	db TransactionManager,
	orderRepo OrderWriter,
	itemRepo OrderItemWriter,
	productRepo ProductReader,
	publisher EventPublisher,
	deliveryFee int64,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		db:          db,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		publisher:   publisher,
		deliveryFee: deliveryFee,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op after commit.
	defer tx.Rollback()

	now := s.now()
	order := s.newOrder(req, now)

	var total int64
	for _, input := range req.Items {
		item, err := s.buildItem(txCtx, tx, order.ID, input, now)
		if err != nil {
			return nil, err
		}
		total += item.TotalPrice
		order.Items = append(order.Items, *item)
	}

	if order.DeliveryType == domain.DeliveryDelivery {
		total += s.deliveryFee
	}
	order.TotalAmount = total

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		s.logger.Error("failed to insert order", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	for _, item := range order.Items {
		if err := s.itemRepo.Insert(txCtx, tx, item); err != nil {
			s.logger.Error("failed to insert order item",
				zap.String("orderId", order.ID), zap.String("productId", item.ProductID), zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.Int("itemCount", len(order.Items)),
		zap.Int64("totalAmount", order.TotalAmount))

	s.publishCreated(ctx, order)

	return order, nil
}

func (s *CheckoutService) newOrder(req dto.PlaceOrderRequest, now time.Time) *domain.Order {
	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Status:          domain.StatusPending,
		DeliveryType:    domain.DeliveryType(req.DeliveryType),
		CustomerName:    optional(req.CustomerName),
		Phone:           optional(req.Phone),
		Notes:           optional(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
		StatusChangedAt: now,
	}

	if order.DeliveryType == domain.DeliveryDelivery {
		order.DeliveryAddress = optional(req.DeliveryAddress)
	}

	horizon := lifecycle.AutoTransitionAt(now)
	order.AutoTransitionAt = &horizon

	return order
}

func (s *CheckoutService) buildItem(ctx context.Context, tx *sql.Tx, orderID string, input dto.PlaceOrderItemInput, now time.Time) (*domain.OrderItem, error) {
	product, err := s.productRepo.FindByID(ctx, tx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.IsAvailable {
		return nil, errors.NewConflictError("product " + product.ID + " is not available")
	}

	return &domain.OrderItem{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		ProductID:  product.ID,
		Quantity:   input.Quantity,
		UnitPrice:  product.Price,
		TotalPrice: product.Price * int64(input.Quantity),
		Notes:      optional(input.Notes),
		CreatedAt:  now,
	}, nil
}

// publishCreated feeds the admin fan-out. Best effort: a broker
// failure must not fail a committed order.
func (s *CheckoutService) publishCreated(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	name := ""
	if order.CustomerName != nil {
		name = *order.CustomerName
	}

	event := dto.OrderCreatedEvent{
		ID:           order.ID,
		CustomerName: name,
		TotalAmount:  order.TotalAmount,
		DeliveryType: string(order.DeliveryType),
		CreatedAt:    order.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.String("orderId", order.ID), zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, dto.OrdersExchange, body); err != nil {
		s.logger.Warn("failed to publish order event", zap.String("orderId", order.ID), zap.Error(err))
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
