package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"order-management/internal/domain"
)

type CustomerRepositoryInterface interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, id int64, mutate func(*domain.Customer) error) (*domain.Customer, error)
	SoftDelete(ctx context.Context, id int64) error
}

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepositoryInterface {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, email, address, phone, created_at, updated_at`

func scanCustomer(row pgx.Row, c *domain.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachOrders(ctx, customers, ids); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := scanCustomer(r.db.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL`, id), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}

	customers := []domain.Customer{c}
	if err := r.attachOrders(ctx, customers, []int64{id}); err != nil {
		return nil, err
	}
	return &customers[0], nil
}

// attachOrders loads the active orders of the given customers in one query
// and marks the relation as loaded on every customer, orders or not.
func (r *CustomerRepository) attachOrders(ctx context.Context, customers []domain.Customer, ids []int64) error {
	byID := make(map[int64]*domain.Customer, len(customers))
	for i := range customers {
		customers[i].Orders = []domain.Order{}
		customers[i].OrdersLoaded = true
		byID[customers[i].ID] = &customers[i]
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, customer_id, order_date, total_amount::text, status, created_at, updated_at
		FROM orders
		WHERE customer_id = ANY($1) AND deleted_at IS NULL
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load customer orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return err
		}
		if c, ok := byID[o.CustomerID]; ok {
			c.Orders = append(c.Orders, o)
		}
	}
	return rows.Err()
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1 AND deleted_at IS NULL)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("customer exists %d: %w", id, err)
	}
	return exists, nil
}

// EmailTaken checks uniqueness among active customers only; excludeID lets
// an update skip the record being updated.
func (r *CustomerRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM customers
			WHERE email = $1 AND deleted_at IS NULL AND id <> $2
		)`, email, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("email taken: %w", err)
	}
	return taken, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (name, email, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Address, c.Phone,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

// Update locks the row, applies mutate to the current state and writes the
// result back in the same transaction.
func (r *CustomerRepository) Update(ctx context.Context, id int64, mutate func(*domain.Customer) error) (*domain.Customer, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var c domain.Customer
	err = scanCustomer(tx.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, id), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock customer %d: %w", id, err)
	}

	if err := mutate(&c); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE customers
		SET name = $2, email = $3, address = $4, phone = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, c.Name, c.Email, c.Address, c.Phone,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return nil, translateUnique(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &c, nil
}

// SoftDelete marks the customer deleted. Its orders stay active and keep
// their customer reference.
func (r *CustomerRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
