package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-management/internal/domain"
)

func strptr(s string) *string { return &s }

func decptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newOrderFixture(t *testing.T) (OrderServiceInterface, *fakeOrderRepo, *fakeCustomerRepo, *recordingPublisher) {
	t.Helper()
	customers := newFakeCustomerRepo()
	orders := newFakeOrderRepo(customers)
	pub := &recordingPublisher{}
	svc := NewOrderService(orders, customers, pub, testLogger())

	require.NoError(t, customers.Create(context.Background(), &domain.Customer{
		Name: "Mario Rossi", Email: "mario.rossi@example.com",
	}))
	return svc, orders, customers, pub
}

func createOrder(t *testing.T, svc OrderServiceInterface, number string, status *string) *domain.Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateOrderRequest{
		OrderNumber: number,
		CustomerID:  1,
		OrderDate:   "2025-03-10",
		TotalAmount: decptr("149.90"),
		Status:      status,
	})
	require.NoError(t, err)
	return o
}

func TestCreateOrderDefaultsToPending(t *testing.T) {
	svc, _, _, pub := newOrderFixture(t)

	o := createOrder(t, svc, "ORD-1001", nil)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, "149.90", o.TotalAmount.StringFixed(2))
	require.NotNil(t, o.Customer, "customer relation must be attached on create")
	assert.Equal(t, "Mario Rossi", o.Customer.Name)
	assert.Equal(t, []int64{o.ID}, pub.created)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)
	createOrder(t, svc, "ORD-1001", nil)

	tests := []struct {
		name  string
		req   CreateOrderRequest
		field string
	}{
		{"missing number", CreateOrderRequest{CustomerID: 1, OrderDate: "2025-03-10", TotalAmount: decptr("10.00")}, "order_number"},
		{"duplicate number", CreateOrderRequest{OrderNumber: "ORD-1001", CustomerID: 1, OrderDate: "2025-03-10", TotalAmount: decptr("10.00")}, "order_number"},
		{"missing customer", CreateOrderRequest{OrderNumber: "ORD-2", OrderDate: "2025-03-10", TotalAmount: decptr("10.00")}, "customer_id"},
		{"unknown customer", CreateOrderRequest{OrderNumber: "ORD-2", CustomerID: 99, OrderDate: "2025-03-10", TotalAmount: decptr("10.00")}, "customer_id"},
		{"bad date", CreateOrderRequest{OrderNumber: "ORD-2", CustomerID: 1, OrderDate: "10/03/2025", TotalAmount: decptr("10.00")}, "order_date"},
		{"missing amount", CreateOrderRequest{OrderNumber: "ORD-2", CustomerID: 1, OrderDate: "2025-03-10"}, "total_amount"},
		{"negative amount", CreateOrderRequest{OrderNumber: "ORD-2", CustomerID: 1, OrderDate: "2025-03-10", TotalAmount: decptr("-1.00")}, "total_amount"},
		{"excess precision", CreateOrderRequest{OrderNumber: "ORD-2", CustomerID: 1, OrderDate: "2025-03-10", TotalAmount: decptr("1500.005")}, "total_amount"},
		{"unknown status", CreateOrderRequest{OrderNumber: "ORD-2", CustomerID: 1, OrderDate: "2025-03-10", TotalAmount: decptr("10.00"), Status: strptr("shipped")}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestUpdateOrderTransition(t *testing.T) {
	svc, _, _, pub := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", nil)

	updated, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{Status: strptr("processing")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	require.NotNil(t, updated.Customer)
	assert.Equal(t, []string{"pending->processing"}, pub.changed)
}

func TestUpdateOrderInvalidTransition(t *testing.T) {
	svc, _, _, pub := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", strptr("processing"))

	_, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{Status: strptr("pending")})
	var se *domain.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.OpTransition, se.Op)
	assert.Contains(t, se.Error(), "processing")
	assert.Contains(t, se.Error(), "pending")
	assert.Empty(t, pub.changed)
}

func TestUpdateTerminalOrderRejected(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", strptr("processing"))
	_, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{Status: strptr("completed")})
	require.NoError(t, err)

	// Any update, even without a status, must be rejected now.
	_, err = svc.Update(context.Background(), o.ID, UpdateOrderRequest{OrderNumber: strptr("ORD-9999")})
	var se *domain.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.OpUpdate, se.Op)
	assert.Contains(t, se.Error(), "completed")

	// Nothing changed.
	stored := orders.items[o.ID]
	assert.Equal(t, "ORD-1001", stored.OrderNumber)
}

func TestUpdateSameStatusIsIdempotent(t *testing.T) {
	svc, _, _, pub := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", strptr("processing"))

	updated, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{Status: strptr("processing")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	assert.Empty(t, pub.changed, "re-submitting the current status is not a transition")
}

func TestUpdateOrderPartialMerge(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", nil)

	updated, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{TotalAmount: decptr("200.00")})
	require.NoError(t, err)
	assert.Equal(t, "200.00", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, "ORD-1001", updated.OrderNumber)
	assert.Equal(t, domain.StatusPending, updated.Status)
}

func TestUpdateOrderValidationBeforeGuards(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", nil)

	// An unknown status value is a validation error, not a transition error.
	_, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{Status: strptr("archived")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "status")
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)
	_, err := svc.Update(context.Background(), 42, UpdateOrderRequest{Status: strptr("processing")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, orders, _, pub := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", nil)

	require.NoError(t, svc.Delete(context.Background(), o.ID))
	assert.NotNil(t, orders.items[o.ID].DeletedAt)
	assert.Equal(t, []int64{o.ID}, pub.deleted)

	_, err := svc.Get(context.Background(), o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTerminalOrderRejected(t *testing.T) {
	svc, orders, _, pub := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", strptr("processing"))
	_, err := svc.Update(context.Background(), o.ID, UpdateOrderRequest{Status: strptr("completed")})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), o.ID)
	var se *domain.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.OpDelete, se.Op)
	assert.Contains(t, se.Error(), "completed")

	// The record stays active.
	assert.Nil(t, orders.items[o.ID].DeletedAt)
	assert.Empty(t, pub.deleted)

	got, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestDeletedOrderNumberIsReusable(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)
	o := createOrder(t, svc, "ORD-1001", nil)
	require.NoError(t, svc.Delete(context.Background(), o.ID))

	// Uniqueness is scoped to active orders.
	created := createOrder(t, svc, "ORD-1001", nil)
	assert.NotEqual(t, o.ID, created.ID)
}
