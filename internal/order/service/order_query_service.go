package service

import (
	"context"

	"samovar/internal/domain"
)

type OrderItemReader interface {
	ListByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Order, error)
}

// OrderQueryService reads one order with its lines, for the customer
// success page and admin detail views.
type OrderQueryService struct {
	orders OrderReader
	items  OrderItemReader
}

func NewOrderQueryService(orders OrderReader, items OrderItemReader) *OrderQueryService {
	return &OrderQueryService{orders: orders, items: items}
}

func (s *OrderQueryService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListUserOrders returns a customer's order history, without line
// items.
func (s *OrderQueryService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUserID(ctx, userID)
}
