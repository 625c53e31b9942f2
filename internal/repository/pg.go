package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"order-management/internal/domain"
)

// translateUnique maps partial-unique-index violations onto the same
// validation errors the service-level pre-checks produce, so a race between
// two concurrent creates still surfaces as a 422 instead of a 500.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	ve := domain.NewValidationError()
	switch pgErr.ConstraintName {
	case "customers_email_active":
		ve.Add("email", "The email has already been taken.")
	case "orders_number_active":
		ve.Add("order_number", "The order number has already been taken.")
	default:
		return err
	}
	return ve
}
