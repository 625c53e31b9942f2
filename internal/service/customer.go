package service

import (
	"context"

	"order-management/internal/domain"
	"order-management/internal/repository"
)

type CustomerServiceInterface interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Create(ctx context.Context, req CreateCustomerRequest) (*domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	Orders(ctx context.Context, id int64) ([]domain.Order, error)
}

type CustomerService struct {
	customers repository.CustomerRepositoryInterface
}

func NewCustomerService(customers repository.CustomerRepositoryInterface) CustomerServiceInterface {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*domain.Customer, error) {
	ve := domain.NewValidationError()
	checkName(ve, req.Name)
	if checkEmailFormat(ve, req.Email) {
		taken, err := s.customers.EmailTaken(ctx, req.Email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("email", "The email has already been taken.")
		}
	}
	checkPhone(ve, req.Phone)
	if err := ve.Err(); err != nil {
		return nil, err
	}

	c := &domain.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// Update applies a partial update: only supplied fields are validated and
// merged. The email uniqueness check excludes the customer being updated.
func (s *CustomerService) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*domain.Customer, error) {
	ve := domain.NewValidationError()
	if req.Name != nil {
		checkName(ve, *req.Name)
	}
	if req.Email != nil && checkEmailFormat(ve, *req.Email) {
		taken, err := s.customers.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("email", "The email has already been taken.")
		}
	}
	checkPhone(ve, req.Phone)
	if err := ve.Err(); err != nil {
		return nil, err
	}

	return s.customers.Update(ctx, id, func(c *domain.Customer) error {
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Email != nil {
			c.Email = *req.Email
		}
		if req.Address != nil {
			c.Address = req.Address
		}
		if req.Phone != nil {
			c.Phone = req.Phone
		}
		return nil
	})
}

// Delete soft-deletes the customer. Related orders are left untouched and
// stay independently queryable.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.customers.SoftDelete(ctx, id)
}

func (s *CustomerService) Orders(ctx context.Context, id int64) ([]domain.Order, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Orders, nil
}
