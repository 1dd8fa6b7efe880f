package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"order-processing-service/internal/entities"
	"order-processing-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateOrder вставляет заказ и его позиции. Вызывается внутри
// транзакции trm, чтобы заказ и позиции сохранялись атомарно.
func (r *postgresRepo) CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	query, args := r.qb.Insert("orders").
		Columns("customer_name", "customer_email", "status", "total_amount").
		Values(o.CustomerName, o.CustomerEmail, string(o.Status), o.TotalAmount).
		Suffix("RETURNING id, created_at, updated_at").
		MustSql()

	var created Order
	if err := r.getContext(ctx, &created, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	o.ID = created.ID
	o.CreatedAt = created.CreatedAt
	o.UpdatedAt = created.UpdatedAt

	if len(o.Items) == 0 {
		return o, nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_id", "product_name", "quantity", "price").
		Suffix("RETURNING id")

	for _, it := range o.Items {
		q = q.Values(o.ID, it.ProductName, it.Quantity, it.Price)
	}

	query, args = q.MustSql()

	var ids []int64
	if err := r.selectContext(ctx, &ids, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to insert order items: %w", err)
	}

	// RETURNING отдаёт строки в порядке вставки
	for i := range o.Items {
		o.Items[i].ID = ids[i]
		o.Items[i].OrderID = o.ID
	}

	return o, nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	return r.getOrder(ctx, orderID, false)
}

// GetOrderByIDForUpdate читает заказ под блокировкой строки
// (SELECT ... FOR UPDATE). Имеет смысл только внутри транзакции:
// конкурирующие писатели одного заказа выстраиваются на этой блокировке
// и перечитывают актуальный статус.
func (r *postgresRepo) GetOrderByIDForUpdate(ctx context.Context, orderID int64) (entities.Order, error) {
	return r.getOrder(ctx, orderID, true)
}

func (r *postgresRepo) getOrder(ctx context.Context, orderID int64, forUpdate bool) (entities.Order, error) {
	q := r.qb.Select("id", "customer_name", "customer_email", "status", "total_amount", "created_at", "updated_at").
		From("orders").
		Where(sq.Eq{"id": orderID})

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	query, args := q.MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select("id", "order_id", "product_name", "quantity", "price").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id").
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order items: %w", err)
	}

	return OrderToEntity(order, items), nil
}

func (r *postgresRepo) ListOrders(ctx context.Context) ([]entities.Order, error) {
	query, args := r.qb.Select("id", "customer_name", "customer_email", "status", "total_amount", "created_at", "updated_at").
		From("orders").
		OrderBy("id").
		MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	return r.withItems(ctx, orders)
}

func (r *postgresRepo) ListOrdersByStatus(ctx context.Context, status entities.OrderStatus) ([]entities.Order, error) {
	query, args := r.qb.Select("id", "customer_name", "customer_email", "status", "total_amount", "created_at", "updated_at").
		From("orders").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("id").
		MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders by status: %w", err)
	}

	return r.withItems(ctx, orders)
}

// ListOrderIDsByStatus формирует рабочую очередь планировщика: каждый id потом
// обрабатывается в своей транзакции.
func (r *postgresRepo) ListOrderIDsByStatus(ctx context.Context, status entities.OrderStatus) ([]int64, error) {
	query, args := r.qb.Select("id").
		From("orders").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("id").
		MustSql()

	var ids []int64
	if err := r.selectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order ids by status: %w", err)
	}
	return ids, nil
}

func (r *postgresRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	query, args := r.qb.Select("id", "customer_name", "customer_email", "status", "total_amount", "created_at", "updated_at").
		From("orders").
		OrderBy("created_at DESC").
		Limit(uint64(count)).
		MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select latest orders: %w", err)
	}

	return r.withItems(ctx, orders)
}

func (r *postgresRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status entities.OrderStatus) (time.Time, error) {
	query, args := r.qb.Update("orders").
		Set("status", string(status)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": orderID}).
		Suffix("RETURNING updated_at").
		MustSql()

	var updatedAt time.Time
	err := r.getContext(ctx, &updatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update order status: %w", err)
	}
	return updatedAt, nil
}

func (r *postgresRepo) withItems(ctx context.Context, orders []Order) ([]entities.Order, error) {
	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]int64, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	query, args := r.qb.Select("id", "order_id", "product_name", "quantity", "price").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("id").
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	itemsMap := make(map[int64][]OrderItem, len(ids))
	for _, item := range items {
		itemsMap[item.OrderID] = append(itemsMap[item.OrderID], item)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, itemsMap[order.ID]))
	}

	return result, nil
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
