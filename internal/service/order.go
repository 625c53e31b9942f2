package service

import (
	"context"
	"fmt"
	"time"

	"order-management/internal/common/logger"
	"order-management/internal/domain"
	"order-management/internal/events"
	"order-management/internal/repository"
)

type OrderServiceInterface interface {
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, id int64, req UpdateOrderRequest) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OrderService struct {
	orders    repository.OrderRepositoryInterface
	customers repository.CustomerRepositoryInterface
	pub       events.Publisher
	lg        *logger.Logger
}

func NewOrderService(
	orders repository.OrderRepositoryInterface,
	customers repository.CustomerRepositoryInterface,
	pub events.Publisher,
	lg *logger.Logger,
) OrderServiceInterface {
	return &OrderService{orders: orders, customers: customers, pub: pub, lg: lg}
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	ve := domain.NewValidationError()

	if req.OrderNumber == "" {
		ve.Add("order_number", "The order number field is required.")
	} else {
		taken, err := s.orders.NumberTaken(ctx, req.OrderNumber, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("order_number", "The order number has already been taken.")
		}
	}

	if req.CustomerID == 0 {
		ve.Add("customer_id", "The customer id field is required.")
	} else {
		exists, err := s.customers.Exists(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			ve.Add("customer_id", "The selected customer id is invalid.")
		}
	}

	orderDate, _ := parseOrderDate(ve, req.OrderDate)

	if req.TotalAmount == nil {
		ve.Add("total_amount", "The total amount field is required.")
	} else {
		checkAmount(ve, *req.TotalAmount)
	}

	status := domain.StatusPending
	if req.Status != nil {
		if st, ok := checkStatus(ve, *req.Status); ok {
			status = st
		}
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}

	o := &domain.Order{
		OrderNumber: req.OrderNumber,
		CustomerID:  req.CustomerID,
		OrderDate:   orderDate,
		TotalAmount: *req.TotalAmount,
		Status:      status,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	// Attach the customer relation before building the response.
	created, err := s.orders.GetByID(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("reload created order: %w", err)
	}

	s.pub.OrderCreated(ctx, created)
	s.lg.Info("order_created", map[string]any{"order_id": created.ID, "order_number": created.OrderNumber})
	return created, nil
}

// Update validates the supplied fields first, then applies the lifecycle
// guards and the merge under the repository's row lock, so the status read
// and the guarded write cannot interleave with a concurrent request.
func (s *OrderService) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*domain.Order, error) {
	ve := domain.NewValidationError()

	if req.OrderNumber != nil {
		if *req.OrderNumber == "" {
			ve.Add("order_number", "The order number field is required.")
		} else {
			taken, err := s.orders.NumberTaken(ctx, *req.OrderNumber, id)
			if err != nil {
				return nil, err
			}
			if taken {
				ve.Add("order_number", "The order number has already been taken.")
			}
		}
	}

	if req.CustomerID != nil {
		exists, err := s.customers.Exists(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			ve.Add("customer_id", "The selected customer id is invalid.")
		}
	}

	var parsedDate *time.Time
	if req.OrderDate != nil {
		if d, ok := parseOrderDate(ve, *req.OrderDate); ok {
			parsedDate = &d
		}
	}

	if req.TotalAmount != nil {
		checkAmount(ve, *req.TotalAmount)
	}

	var next *domain.Status
	if req.Status != nil {
		if st, ok := checkStatus(ve, *req.Status); ok {
			next = &st
		}
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}

	var previous domain.Status
	_, err := s.orders.Update(ctx, id, func(o *domain.Order) error {
		if err := o.GuardUpdate(next); err != nil {
			return err
		}
		previous = o.Status

		if req.OrderNumber != nil {
			o.OrderNumber = *req.OrderNumber
		}
		if req.CustomerID != nil {
			o.CustomerID = *req.CustomerID
		}
		if parsedDate != nil {
			o.OrderDate = *parsedDate
		}
		if req.TotalAmount != nil {
			o.TotalAmount = *req.TotalAmount
		}
		if next != nil {
			o.Status = *next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with the customer relation for the response.
	updated, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload updated order: %w", err)
	}

	if next != nil && *next != previous {
		s.pub.OrderStatusChanged(ctx, updated, previous)
		s.lg.Info("order_status_changed", map[string]any{
			"order_id": updated.ID, "from": previous, "to": updated.Status,
		})
	}
	return updated, nil
}

// Delete soft-deletes the order, subject to the same modifiability guard as
// updates: terminal orders cannot be deleted.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	var deleted domain.Order
	err := s.orders.SoftDelete(ctx, id, func(o *domain.Order) error {
		if err := o.GuardDelete(); err != nil {
			return err
		}
		deleted = *o
		return nil
	})
	if err != nil {
		return err
	}

	s.pub.OrderDeleted(ctx, &deleted)
	s.lg.Info("order_deleted", map[string]any{"order_id": deleted.ID, "order_number": deleted.OrderNumber})
	return nil
}
