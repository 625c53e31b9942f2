package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"order-management/internal/common/logger"
	"order-management/internal/domain"
	"order-management/internal/repository"
)

// Run populates the database with the demo data set: two API users, five
// customers and a batch of orders covering every lifecycle status. Users are
// upserted by email; customers and orders are skipped when their email or
// number is already taken, so running twice is harmless.
func Run(
	ctx context.Context,
	users repository.UserRepositoryInterface,
	customers repository.CustomerRepositoryInterface,
	orders repository.OrderRepositoryInterface,
	lg *logger.Logger,
) error {
	if err := seedUsers(ctx, users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	ids, err := seedCustomers(ctx, customers)
	if err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	created, err := seedOrders(ctx, orders, ids)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	lg.Info("seed_completed", map[string]any{"customers": len(ids), "orders": created})
	return nil
}

func seedUsers(ctx context.Context, users repository.UserRepositoryInterface) error {
	for _, u := range []struct {
		name, email, password string
	}{
		{"Selexi", "selexi@example.com", "selexi"},
		{"Admin", "admin@example.com", "admin"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		err = users.Create(ctx, &domain.User{Name: u.name, Email: u.email, Password: string(hash)})
		if err != nil {
			return err
		}
	}
	return nil
}

func strptr(s string) *string { return &s }

func seedCustomers(ctx context.Context, customers repository.CustomerRepositoryInterface) ([]int64, error) {
	fixtures := []domain.Customer{
		{Name: "Mario Rossi", Email: "mario.rossi@example.com", Address: strptr("Via Roma 123, Milano"), Phone: strptr("+39 02 1234567")},
		{Name: "Giulia Bianchi", Email: "giulia.bianchi@example.com", Address: strptr("Corso Venezia 45, Milano"), Phone: strptr("+39 02 7654321")},
		{Name: "Luca Verdi", Email: "luca.verdi@example.com", Address: strptr("Piazza Duomo 1, Firenze"), Phone: strptr("+39 055 112233")},
		{Name: "Anna Ferrari", Email: "anna.ferrari@example.com", Address: strptr("Via Garibaldi 8, Torino"), Phone: strptr("+39 011 445566")},
		{Name: "Marco Conti", Email: "marco.conti@example.com"},
	}

	ids := make([]int64, 0, len(fixtures))
	for i := range fixtures {
		c := fixtures[i]
		taken, err := customers.EmailTaken(ctx, c.Email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		if err := customers.Create(ctx, &c); err != nil {
			return nil, err
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func seedOrders(ctx context.Context, orders repository.OrderRepositoryInterface, customerIDs []int64) (int, error) {
	if len(customerIDs) == 0 {
		return 0, nil
	}

	fixtures := []struct {
		amount string
		status domain.Status
	}{
		{"1500.50", domain.StatusPending},
		{"89.99", domain.StatusPending},
		{"245.00", domain.StatusProcessing},
		{"1200.75", domain.StatusProcessing},
		{"560.30", domain.StatusCompleted},
		{"78.40", domain.StatusCompleted},
		{"310.00", domain.StatusCancelled},
	}

	base := time.Now().AddDate(0, 0, -len(fixtures))
	created := 0
	for i, f := range fixtures {
		number := fmt.Sprintf("ORD-%d", 1001+i)
		taken, err := orders.NumberTaken(ctx, number, 0)
		if err != nil {
			return created, err
		}
		if taken {
			continue
		}
		err = orders.Create(ctx, &domain.Order{
			OrderNumber: number,
			CustomerID:  customerIDs[i%len(customerIDs)],
			OrderDate:   base.AddDate(0, 0, i),
			TotalAmount: decimal.RequireFromString(f.amount),
			Status:      f.status,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
