package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"order-management/internal/domain"
)

type OrderRepositoryInterface interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	NumberTaken(ctx context.Context, number string, excludeID int64) (bool, error)
	Create(ctx context.Context, o *domain.Order) error
	// Update locks the order row, hands the current state to mutate (which
	// applies lifecycle guards and merges fields) and persists the result in
	// the same transaction. Guard failures roll everything back.
	Update(ctx context.Context, id int64, mutate func(*domain.Order) error) (*domain.Order, error)
	// SoftDelete runs guard under the same row lock before marking the order
	// deleted.
	SoftDelete(ctx context.Context, id int64, guard func(*domain.Order) error) error
}

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, customer_id, order_date, total_amount::text, status, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		amount string
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderDate,
		&amount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse total_amount %q: %w", amount, err)
	}
	o.TotalAmount = dec
	return o, nil
}

// withCustomer joins the customer row without the soft-delete predicate:
// orders of a soft-deleted customer keep rendering their customer.
const withCustomer = `
	SELECT o.id, o.order_number, o.customer_id, o.order_date, o.total_amount::text,
	       o.status, o.created_at, o.updated_at,
	       c.id, c.name, c.email, c.address, c.phone, c.created_at, c.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

func scanOrderWithCustomer(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		c      domain.Customer
		amount string
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderDate,
		&amount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Order{}, fmt.Errorf("scan order with customer: %w", err)
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse total_amount %q: %w", amount, err)
	}
	o.TotalAmount = dec
	o.Customer = &c
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, withCustomer+`
		WHERE o.deleted_at IS NULL
		ORDER BY o.id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrderWithCustomer(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrderWithCustomer(r.db.QueryRow(ctx, withCustomer+`
		WHERE o.id = $1 AND o.deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1 AND deleted_at IS NULL
		ORDER BY id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) NumberTaken(ctx context.Context, number string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE order_number = $1 AND deleted_at IS NULL AND id <> $2
		)`, number, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("order number taken: %w", err)
	}
	return taken, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (order_number, customer_id, order_date, total_amount, status)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.CustomerID, o.OrderDate, o.TotalAmount.StringFixed(2), o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, id int64, mutate func(*domain.Order) error) (*domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := r.lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(o); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET order_number = $2, customer_id = $3, order_date = $4,
		    total_amount = $5::numeric, status = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, o.OrderNumber, o.CustomerID, o.OrderDate, o.TotalAmount.StringFixed(2), o.Status,
	).Scan(&o.UpdatedAt)
	if err != nil {
		return nil, translateUnique(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) SoftDelete(ctx context.Context, id int64, guard func(*domain.Order) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := r.lockOrder(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := guard(o); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET deleted_at = now(), updated_at = now()
		WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return tx.Commit(ctx)
}

// lockOrder reads the active order under FOR UPDATE, closing the window
// between reading the current status and applying a guarded mutation.
func (r *OrderRepository) lockOrder(ctx context.Context, tx pgx.Tx, id int64) (*domain.Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order %d: %w", id, err)
	}
	return &o, nil
}
