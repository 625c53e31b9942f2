package handlers

import (
	"order-management/internal/common/logger"
	"order-management/internal/service"
)

type Handler struct {
	Customers *CustomerHandler
	Orders    *OrderHandler
	Auth      *AuthHandler
}

func New(svc *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		Customers: NewCustomerHandler(svc.Customers),
		Orders:    NewOrderHandler(svc.Orders),
		Auth:      NewAuthHandler(svc.Auth, lg),
	}
}
