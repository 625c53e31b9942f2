package handlers

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"order-management/internal/domain"
)

const (
	dateFormat     = "02/01/2006"
	dateTimeFormat = "02/01/2006 15:04"
)

var statusLabels = map[domain.Status]string{
	domain.StatusPending:    "In Attesa",
	domain.StatusProcessing: "In Lavorazione",
	domain.StatusCompleted:  "Completato",
	domain.StatusCancelled:  "Annullato",
}

// statusLabel returns the Italian display label for a status. Unknown values
// fall back to the capitalized raw value.
func statusLabel(s domain.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return capitalize(string(s))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}

type OrderResource struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	OrderDate   string            `json:"order_date"`
	TotalAmount string            `json:"total_amount"`
	Status      string            `json:"status"`
	StatusLabel string            `json:"status_label"`
	Customer    *CustomerResource `json:"customer,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

type CustomerResource struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Address   *string          `json:"address"`
	Phone     *string          `json:"phone"`
	Orders    *[]OrderResource `json:"orders,omitempty"`
	CreatedAt string           `json:"created_at"`
}

type UserResource struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newOrderResource(o *domain.Order) OrderResource {
	res := OrderResource{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		OrderDate:   o.OrderDate.Format(dateFormat),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      string(o.Status),
		StatusLabel: statusLabel(o.Status),
		CreatedAt:   o.CreatedAt.Format(dateTimeFormat),
	}
	if o.Customer != nil {
		c := newCustomerResource(o.Customer)
		res.Customer = &c
	}
	return res
}

func newOrderCollection(orders []domain.Order) []OrderResource {
	return lo.Map(orders, func(o domain.Order, _ int) OrderResource {
		return newOrderResource(&o)
	})
}

// newCustomerResource serializes the orders relation only when it was loaded,
// so a customer with zero orders still renders an empty array rather than
// omitting the field.
func newCustomerResource(c *domain.Customer) CustomerResource {
	res := CustomerResource{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.Format(dateTimeFormat),
	}
	if c.OrdersLoaded {
		orders := newOrderCollection(c.Orders)
		res.Orders = &orders
	}
	return res
}

func newCustomerCollection(customers []domain.Customer) []CustomerResource {
	return lo.Map(customers, func(c domain.Customer, _ int) CustomerResource {
		return newCustomerResource(&c)
	})
}

func newUserResource(u *domain.User) UserResource {
	return UserResource{ID: u.ID, Name: u.Name, Email: u.Email}
}
