package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"order-processing-service/internal/entities"
	"order-processing-service/internal/service"
	"order-processing-service/internal/service/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDeps() (*mocks.OrderRepo, *mocks.Cache, *slog.Logger) {
	repo := new(mocks.OrderRepo)
	cache := new(mocks.Cache)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, cache, logger
}

func sampleItems() []entities.OrderItem {
	return []entities.OrderItem{
		{ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("1299.99")},
		{ProductName: "Wireless Mouse", Quantity: 2, Price: decimal.RequireFromString("29.99")},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	dbError := errors.New("db error")

	t.Run("OK", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)

		repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
			return o.Status == entities.StatusPending &&
				len(o.Items) == 2 &&
				o.TotalAmount.Equal(decimal.RequireFromString("1359.97"))
		})).Return(entities.Order{
			ID:            1,
			CustomerName:  "Alice Johnson",
			CustomerEmail: "alice@example.com",
			Status:        entities.StatusPending,
			TotalAmount:   decimal.RequireFromString("1359.97"),
		}, nil).Once()
		cache.On("Set", "1", mock.Anything).Return().Once()

		order, err := svc.CreateOrder(context.Background(), "Alice Johnson", "alice@example.com", sampleItems())

		require.NoError(t, err)
		assert.Equal(t, int64(1), order.ID)
		assert.Equal(t, entities.StatusPending, order.Status)
		assert.Equal(t, "1359.97", order.TotalAmount.String())
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("validation failures skip the repo", func(t *testing.T) {
		testCases := []struct {
			name  string
			cust  string
			email string
			items []entities.OrderItem
		}{
			{name: "blank customer name", cust: "", email: "alice@example.com", items: sampleItems()},
			{name: "invalid email", cust: "Alice Johnson", email: "not-an-email", items: sampleItems()},
			{name: "empty items", cust: "Alice Johnson", email: "alice@example.com", items: nil},
			{
				name: "zero quantity", cust: "Alice Johnson", email: "alice@example.com",
				items: []entities.OrderItem{{ProductName: "Laptop", Quantity: 0, Price: decimal.NewFromInt(10)}},
			},
			{
				name: "negative price", cust: "Alice Johnson", email: "alice@example.com",
				items: []entities.OrderItem{{ProductName: "Laptop", Quantity: 1, Price: decimal.NewFromInt(-1)}},
			},
			{
				name: "blank product name", cust: "Alice Johnson", email: "alice@example.com",
				items: []entities.OrderItem{{ProductName: "", Quantity: 1, Price: decimal.NewFromInt(10)}},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))

				_, err := svc.CreateOrder(context.Background(), tc.cust, tc.email, tc.items)

				assert.ErrorIs(t, err, entities.ErrInvalidOrder)
				repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("repo failure", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(entities.Order{}, dbError).Once()

		_, err := svc.CreateOrder(context.Background(), "Alice Johnson", "alice@example.com", sampleItems())

		assert.ErrorIs(t, err, dbError)
	})
}

func TestOrderService_GetOrderByID(t *testing.T) {
	validOrder := entities.Order{ID: 123, CustomerName: "Alice Johnson", Status: entities.StatusPending}
	validData, err := validOrder.Marshal()
	require.NoError(t, err)

	t.Run("success from cache", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		cache.On("Get", "123").Return(validData, true).Once()

		got, err := svc.GetOrderByID(context.Background(), 123)

		require.NoError(t, err)
		assert.Equal(t, validOrder.CustomerName, got.CustomerName)
		repo.AssertNotCalled(t, "GetOrderByID", mock.Anything, mock.Anything)
	})

	t.Run("corrupt cache entry falls back to repo", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		cache.On("Get", "123").Return([]byte("broken"), true).Once()
		cache.On("Remove", "123").Return().Once()
		repo.On("GetOrderByID", mock.Anything, int64(123)).Return(validOrder, nil).Once()
		cache.On("Set", "123", mock.Anything).Return().Once()

		got, err := svc.GetOrderByID(context.Background(), 123)

		require.NoError(t, err)
		assert.Equal(t, int64(123), got.ID)
		cache.AssertExpectations(t)
	})

	t.Run("success from repo and set to cache", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		cache.On("Get", "123").Return(nil, false).Once()
		repo.On("GetOrderByID", mock.Anything, int64(123)).Return(validOrder, nil).Once()
		cache.On("Set", "123", mock.Anything).Return().Once()

		got, err := svc.GetOrderByID(context.Background(), 123)

		require.NoError(t, err)
		assert.Equal(t, int64(123), got.ID)
		cache.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		cache.On("Get", "99999").Return(nil, false).Once()
		repo.On("GetOrderByID", mock.Anything, int64(99999)).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		_, err := svc.GetOrderByID(context.Background(), 99999)

		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})
}

func TestOrderService_GetAllOrders(t *testing.T) {
	orders := []entities.Order{{ID: 1, Status: entities.StatusPending}, {ID: 2, Status: entities.StatusShipped}}

	t.Run("without filter", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("ListOrders", mock.Anything).Return(orders, nil).Once()

		got, err := svc.GetAllOrders(context.Background(), nil)

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("with status filter", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("ListOrdersByStatus", mock.Anything, entities.StatusPending).
			Return(orders[:1], nil).Once()

		status := entities.StatusPending
		got, err := svc.GetAllOrders(context.Background(), &status)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, entities.StatusPending, got[0].Status)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	now := time.Now()

	t.Run("valid transition", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(1)).
			Return(entities.Order{ID: 1, Status: entities.StatusPending}, nil).Once()
		repo.On("UpdateOrderStatus", mock.Anything, int64(1), entities.StatusProcessing).
			Return(now, nil).Once()
		cache.On("Set", "1", mock.Anything).Return().Once()

		updated, err := svc.UpdateOrderStatus(context.Background(), 1, entities.StatusProcessing)

		require.NoError(t, err)
		assert.Equal(t, entities.StatusProcessing, updated.Status)
		assert.Equal(t, now, updated.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("invalid transition does not persist", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(1)).
			Return(entities.Order{ID: 1, Status: entities.StatusPending}, nil).Once()

		_, err := svc.UpdateOrderStatus(context.Background(), 1, entities.StatusShipped)

		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		assert.EqualError(t, err, "PENDING orders can only move to PROCESSING or be CANCELLED")
		repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(1)).
			Return(entities.Order{ID: 1, Status: entities.StatusDelivered}, nil).Once()

		_, err := svc.UpdateOrderStatus(context.Background(), 1, entities.StatusShipped)

		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		assert.EqualError(t, err, "Cannot update status of a delivered order")
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(99999)).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		_, err := svc.UpdateOrderStatus(context.Background(), 99999, entities.StatusProcessing)

		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	now := time.Now()

	t.Run("pending order is cancelled", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(1)).
			Return(entities.Order{ID: 1, Status: entities.StatusPending}, nil).Once()
		repo.On("UpdateOrderStatus", mock.Anything, int64(1), entities.StatusCancelled).
			Return(now, nil).Once()
		cache.On("Set", "1", mock.Anything).Return().Once()

		cancelled, err := svc.CancelOrder(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, entities.StatusCancelled, cancelled.Status)
	})

	t.Run("non-pending order is rejected", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(1)).
			Return(entities.Order{ID: 1, Status: entities.StatusProcessing}, nil).Once()

		_, err := svc.CancelOrder(context.Background(), 1)

		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		assert.EqualError(t, err, "Order cannot be cancelled. Current status: PROCESSING")
		repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_ProcessPendingOrders(t *testing.T) {
	now := time.Now()
	dbError := errors.New("db error")

	t.Run("promotes every pending order", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		repo.On("ListOrderIDsByStatus", mock.Anything, entities.StatusPending).
			Return([]int64{1, 2}, nil).Once()
		for _, id := range []int64{1, 2} {
			repo.On("GetOrderByIDForUpdate", mock.Anything, id).
				Return(entities.Order{ID: id, Status: entities.StatusPending}, nil).Once()
			repo.On("UpdateOrderStatus", mock.Anything, id, entities.StatusProcessing).
				Return(now, nil).Once()
		}
		cache.On("Set", mock.Anything, mock.Anything).Return()

		count, err := svc.ProcessPendingOrders(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		repo.AssertExpectations(t)
	})

	t.Run("empty set returns zero", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("ListOrderIDsByStatus", mock.Anything, entities.StatusPending).
			Return([]int64{}, nil).Once()

		count, err := svc.ProcessPendingOrders(context.Background())

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("per-order failure does not stop the batch", func(t *testing.T) {
		repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
		repo.On("ListOrderIDsByStatus", mock.Anything, entities.StatusPending).
			Return([]int64{1, 2, 3}, nil).Once()

		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(1)).
			Return(entities.Order{ID: 1, Status: entities.StatusPending}, nil).Once()
		repo.On("UpdateOrderStatus", mock.Anything, int64(1), entities.StatusProcessing).
			Return(time.Time{}, dbError).Once()

		// заказ 2 успели отменить между выборкой и блокировкой
		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(2)).
			Return(entities.Order{ID: 2, Status: entities.StatusCancelled}, nil).Once()

		repo.On("GetOrderByIDForUpdate", mock.Anything, int64(3)).
			Return(entities.Order{ID: 3, Status: entities.StatusPending}, nil).Once()
		repo.On("UpdateOrderStatus", mock.Anything, int64(3), entities.StatusProcessing).
			Return(now, nil).Once()
		cache.On("Set", "3", mock.Anything).Return().Once()

		count, err := svc.ProcessPendingOrders(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("listing failure fails the batch", func(t *testing.T) {
		repo, _, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, new(mocks.Cache))
		repo.On("ListOrderIDsByStatus", mock.Anything, entities.StatusPending).
			Return(nil, dbError).Once()

		_, err := svc.ProcessPendingOrders(context.Background())

		assert.ErrorIs(t, err, dbError)
	})
}

func TestOrderService_WarmUpCache(t *testing.T) {
	repo, cache, logger := newTestDeps()
		svc := service.NewOrderService(logger, mocks.TxManager{}, repo, cache)
	repo.On("LatestOrders", mock.Anything, 10).
		Return([]entities.Order{{ID: 1}, {ID: 2}}, nil).Once()
	cache.On("Set", "1", mock.Anything).Return().Once()
	cache.On("Set", "2", mock.Anything).Return().Once()

	require.NoError(t, svc.WarmUpCache(context.Background(), 10))
	cache.AssertExpectations(t)
}
