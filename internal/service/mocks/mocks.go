package mocks

import (
	"context"
	"time"

	"order-processing-service/internal/entities"
	"order-processing-service/pkg/trm"

	"github.com/stretchr/testify/mock"
)

type OrderRepo struct {
	mock.Mock
}

func (m *OrderRepo) CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderRepo) GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderRepo) GetOrderByIDForUpdate(ctx context.Context, orderID int64) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderRepo) ListOrders(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	var orders []entities.Order
	if v := args.Get(0); v != nil {
		orders = v.([]entities.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepo) ListOrdersByStatus(ctx context.Context, status entities.OrderStatus) ([]entities.Order, error) {
	args := m.Called(ctx, status)
	var orders []entities.Order
	if v := args.Get(0); v != nil {
		orders = v.([]entities.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepo) ListOrderIDsByStatus(ctx context.Context, status entities.OrderStatus) ([]int64, error) {
	args := m.Called(ctx, status)
	var ids []int64
	if v := args.Get(0); v != nil {
		ids = v.([]int64)
	}
	return ids, args.Error(1)
}

func (m *OrderRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	args := m.Called(ctx, count)
	var orders []entities.Order
	if v := args.Get(0); v != nil {
		orders = v.([]entities.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status entities.OrderStatus) (time.Time, error) {
	args := m.Called(ctx, orderID, status)
	return args.Get(0).(time.Time), args.Error(1)
}

type Cache struct {
	mock.Mock
}

func (m *Cache) Get(key string) ([]byte, bool) {
	args := m.Called(key)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Bool(1)
}

func (m *Cache) Set(key string, value []byte) {
	m.Called(key, value)
}

func (m *Cache) Remove(key string) {
	m.Called(key)
}

// TxManager прогоняет callback без настоящей транзакции.
type TxManager struct{}

func (TxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	return ctx, nopTx{}, nil
}

func (TxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }
