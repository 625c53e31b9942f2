package service

import "github.com/shopspring/decimal"

// Request DTOs. Update requests use pointers throughout: only supplied
// fields are validated and applied.

type CreateCustomerRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type CreateOrderRequest struct {
	OrderNumber string           `json:"order_number"`
	CustomerID  int64            `json:"customer_id"`
	OrderDate   string           `json:"order_date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Status      *string          `json:"status"`
}

type UpdateOrderRequest struct {
	OrderNumber *string          `json:"order_number"`
	CustomerID  *int64           `json:"customer_id"`
	OrderDate   *string          `json:"order_date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Status      *string          `json:"status"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
