package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/sqlerr"
)

const ordersTable = "orders"

// PgxIface is the subset of pgxpool.Pool (and pgx.Tx) the order
// repository needs.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// OrderRepo implements OrderRepository on PostgreSQL.
type OrderRepo struct {
	db PgxIface
}

// NewOrderRepository returns an OrderRepository backed by db.
func NewOrderRepository(db PgxIface) *OrderRepo {
	return &OrderRepo{db: db}
}

func orderNotFound(id int64, cause error) error {
	return fmt.Errorf("%s%s: order %d: %w: %w", sqlerr.TablePrefix, ordersTable, id, ErrNotFound, cause)
}

// Save inserts the order and its line items in one transaction.
func (r *OrderRepo) Save(ctx context.Context, order *model.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number)
		VALUES ($1)
		RETURNING id, created_at
	`, order.OrderNumber).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertLineItems(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save order: %w", err)
	}
	return nil
}

func insertLineItems(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	for i := range order.LineItems {
		item := &order.LineItems[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO order_line_items (order_id, sku_code, price, quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, order.ID, item.SKUCode, item.Price, item.Quantity).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order line item %d: %w", i, err)
		}
	}
	return nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, order_number, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderNumber, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, orderNotFound(id, err)
		}
		return nil, fmt.Errorf("select order %d: %w", id, err)
	}

	items, err := r.lineItemsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	order.LineItems = items[id]

	return &order, nil
}

// FindAll returns every order with its line items, ordered by id.
func (r *OrderRepo) FindAll(ctx context.Context) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, created_at
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Order, error) {
		var o model.Order
		err := row.Scan(&o.ID, &o.OrderNumber, &o.CreatedAt)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	if len(orders) == 0 {
		return []model.Order{}, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := r.lineItemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].LineItems = items[orders[i].ID]
	}

	return orders, nil
}

// lineItemsFor loads the line items of the given orders, grouped by order id.
func (r *OrderRepo) lineItemsFor(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderLineItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, id, sku_code, price, quantity
		FROM order_line_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("select order line items: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]model.OrderLineItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var item model.OrderLineItem
		if err := rows.Scan(&orderID, &item.ID, &item.SKUCode, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line item: %w", err)
		}
		out[orderID] = append(out[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line items: %w", err)
	}

	return out, nil
}

func (r *OrderRepo) Update(ctx context.Context, order *model.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		UPDATE orders SET order_number = $2
		WHERE id = $1
		RETURNING created_at
	`, order.ID, order.OrderNumber).Scan(&order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return orderNotFound(order.ID, err)
		}
		return fmt.Errorf("update order %d: %w", order.ID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_line_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("clear order line items: %w", err)
	}

	if err := insertLineItems(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update order: %w", err)
	}
	return nil
}

// DeleteByID removes the order; line items go with it (ON DELETE CASCADE).
func (r *OrderRepo) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return orderNotFound(id, pgx.ErrNoRows)
	}
	return nil
}

func (r *OrderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
