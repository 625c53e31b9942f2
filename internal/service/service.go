package service

import (
	"order-management/internal/common/logger"
	"order-management/internal/events"
	"order-management/internal/repository"
)

// Service bundles the business-logic layer for the handlers.
type Service struct {
	Customers CustomerServiceInterface
	Orders    OrderServiceInterface
	Auth      AuthServiceInterface
}

func New(
	customers repository.CustomerRepositoryInterface,
	orders repository.OrderRepositoryInterface,
	users repository.UserRepositoryInterface,
	pub events.Publisher,
	lg *logger.Logger,
) *Service {
	return &Service{
		Customers: NewCustomerService(customers),
		Orders:    NewOrderService(orders, customers, pub, lg),
		Auth:      NewAuthService(users),
	}
}
