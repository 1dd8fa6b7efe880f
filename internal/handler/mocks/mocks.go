package mocks

import (
	"context"

	"order-processing-service/internal/entities"

	"github.com/stretchr/testify/mock"
)

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, customerName, customerEmail string, items []entities.OrderItem) (entities.Order, error) {
	args := m.Called(ctx, customerName, customerEmail, items)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderService) GetAllOrders(ctx context.Context, status *entities.OrderStatus) ([]entities.Order, error) {
	args := m.Called(ctx, status)
	var orders []entities.Order
	if v := args.Get(0); v != nil {
		orders = v.([]entities.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, newStatus entities.OrderStatus) (entities.Order, error) {
	args := m.Called(ctx, orderID, newStatus)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderService) CancelOrder(ctx context.Context, orderID int64) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}
