package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"order-processing-service/internal/entities"
	"order-processing-service/pkg/trm"

	"github.com/go-playground/validator/v10"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error)
	GetOrderByIDForUpdate(ctx context.Context, orderID int64) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	ListOrdersByStatus(ctx context.Context, status entities.OrderStatus) ([]entities.Order, error)
	ListOrderIDsByStatus(ctx context.Context, status entities.OrderStatus) ([]int64, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status entities.OrderStatus) (time.Time, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Remove(key string)
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	validate  *validator.Validate
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		validate:  validator.New(),
	}
}

// CreateOrder создаёт заказ в статусе PENDING, считает сумму и сохраняет
// заказ вместе с позициями в одной транзакции. Входные данные
// проверяются здесь же: заказы приходят и через HTTP, и через Kafka.
func (s *orderService) CreateOrder(ctx context.Context, customerName, customerEmail string, items []entities.OrderItem) (entities.Order, error) {
	if err := s.validateCreateOrder(customerName, customerEmail, items); err != nil {
		return entities.Order{}, err
	}

	order := entities.Order{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Status:        entities.StatusPending,
	}
	for _, item := range items {
		order.AddItem(item)
	}
	order.CalculateTotalAmount()

	var created entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.storeInCache(created)
	s.logger.Info("order created", slog.Int64("order_id", created.ID))
	return created, nil
}

func (s *orderService) validateCreateOrder(customerName, customerEmail string, items []entities.OrderItem) error {
	if err := s.validate.Var(customerName, "required"); err != nil {
		return &entities.ValidationError{Message: "Customer name is required"}
	}
	if err := s.validate.Var(customerEmail, "required,email"); err != nil {
		return &entities.ValidationError{Message: "Invalid email format"}
	}
	if len(items) == 0 {
		return &entities.ValidationError{Message: "Order must contain at least one item"}
	}
	for _, item := range items {
		if item.ProductName == "" {
			return &entities.ValidationError{Message: "Product name is required"}
		}
		if item.Quantity < 1 {
			return &entities.ValidationError{Message: "Quantity must be at least 1"}
		}
		if item.Price.IsNegative() {
			return &entities.ValidationError{Message: "Price must be non-negative"}
		}
	}
	return nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	key := cacheKey(orderID)

	if data, ok := s.cache.Get(key); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err == nil {
			return order, nil
		}
		// битая запись, считаем промахом и идём в базу
		s.logger.Warn("corrupt cache entry", slog.String("key", key))
		s.cache.Remove(key)
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	s.storeInCache(order)
	return order, nil
}

// GetAllOrders возвращает все заказы или только с указанным статусом.
func (s *orderService) GetAllOrders(ctx context.Context, status *entities.OrderStatus) ([]entities.Order, error) {
	if status != nil {
		return s.repo.ListOrdersByStatus(ctx, *status)
	}
	return s.repo.ListOrders(ctx)
}

// UpdateOrderStatus выполняет fetch-validate-mutate-persist атомарно:
// заказ читается под блокировкой строки, так что два конкурирующих
// обновления одного заказа не могут оба пройти валидацию на устаревшем
// статусе.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, newStatus entities.OrderStatus) (entities.Order, error) {
	var updated entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if err := entities.ValidateStatusTransition(order.Status, newStatus); err != nil {
			return err
		}

		updatedAt, err := s.repo.UpdateOrderStatus(ctx, orderID, newStatus)
		if err != nil {
			return err
		}

		order.Status = newStatus
		order.UpdatedAt = updatedAt
		updated = order
		return nil
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.storeInCache(updated)
	s.logger.Info("order status updated",
		slog.Int64("order_id", orderID), slog.String("status", newStatus.String()))
	return updated, nil
}

// CancelOrder отменяет заказ, если тот ещё в статусе PENDING.
func (s *orderService) CancelOrder(ctx context.Context, orderID int64) (entities.Order, error) {
	var cancelled entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if !order.CanBeCancelled() {
			return &entities.InvalidOperationError{
				Reason: fmt.Sprintf("Order cannot be cancelled. Current status: %s", order.Status),
			}
		}

		updatedAt, err := s.repo.UpdateOrderStatus(ctx, orderID, entities.StatusCancelled)
		if err != nil {
			return err
		}

		order.Status = entities.StatusCancelled
		order.UpdatedAt = updatedAt
		cancelled = order
		return nil
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.storeInCache(cancelled)
	s.logger.Info("order cancelled", slog.Int64("order_id", orderID))
	return cancelled, nil
}

// ProcessPendingOrders переводит PENDING-заказы в PROCESSING.
// Каждый заказ обрабатывается в своей транзакции: ошибка одного не
// роняет весь проход. Возвращает число реально продвинутых заказов.
func (s *orderService) ProcessPendingOrders(ctx context.Context) (int, error) {
	ids, err := s.repo.ListOrderIDsByStatus(ctx, entities.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending orders: %w", err)
	}

	processed := 0
	for _, id := range ids {
		promoted, err := s.promoteOrder(ctx, id)
		if err != nil {
			s.logger.Error("failed to promote order",
				slog.Int64("order_id", id), slog.Any("error", err))
			continue
		}
		if promoted {
			processed++
		}
	}

	s.logger.Info("processed pending orders", slog.Int("count", processed))
	return processed, nil
}

func (s *orderService) promoteOrder(ctx context.Context, orderID int64) (bool, error) {
	promoted := false
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		// заказ успели продвинуть или отменить между выборкой и блокировкой
		if order.Status != entities.StatusPending {
			return nil
		}

		updatedAt, err := s.repo.UpdateOrderStatus(ctx, orderID, entities.StatusProcessing)
		if err != nil {
			return err
		}

		order.Status = entities.StatusProcessing
		order.UpdatedAt = updatedAt
		s.storeInCache(order)
		promoted = true
		return nil
	})
	return promoted, err
}

// WarmUpCache прогревает кеш последними заказами при старте процесса.
func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	orders, err := s.repo.LatestOrders(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to warm up cache: %w", err)
	}

	for _, order := range orders {
		s.storeInCache(order)
	}

	s.logger.Info("cache warmed up", slog.Int("orders", len(orders)))
	return nil
}

func (s *orderService) storeInCache(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.Int64("order_id", order.ID), slog.Any("error", err))
		return
	}
	s.cache.Set(cacheKey(order.ID), data)
}

func cacheKey(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}
