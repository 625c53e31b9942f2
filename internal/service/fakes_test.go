package service

import (
	"context"
	"io"
	"time"

	"order-management/internal/common/logger"
	"order-management/internal/domain"
)

// In-memory repositories for exercising the service layer without Postgres.
// They reproduce the contracts that matter to the services: soft-delete
// visibility, active-only uniqueness checks and the mutate/guard callbacks.

type fakeCustomerRepo struct {
	seq    int64
	items  map[int64]*domain.Customer
	orders *fakeOrderRepo
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{items: make(map[int64]*domain.Customer)}
}

func (r *fakeCustomerRepo) active(id int64) *domain.Customer {
	c, ok := r.items[id]
	if !ok || c.DeletedAt != nil {
		return nil
	}
	return c
}

func (r *fakeCustomerRepo) withOrders(c domain.Customer) domain.Customer {
	c.Orders = []domain.Order{}
	c.OrdersLoaded = true
	if r.orders != nil {
		for _, o := range r.orders.activeByCustomer(c.ID) {
			c.Orders = append(c.Orders, o)
		}
	}
	return c
}

func (r *fakeCustomerRepo) List(context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0)
	for _, c := range r.items {
		if c.DeletedAt == nil {
			out = append(out, r.withOrders(*c))
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	c := r.active(id)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	loaded := r.withOrders(*c)
	return &loaded, nil
}

func (r *fakeCustomerRepo) Exists(_ context.Context, id int64) (bool, error) {
	return r.active(id) != nil, nil
}

func (r *fakeCustomerRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, c := range r.items {
		if c.DeletedAt == nil && c.Email == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.seq++
	c.ID = r.seq
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	r.items[c.ID] = &stored
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, id int64, mutate func(*domain.Customer) error) (*domain.Customer, error) {
	c := r.active(id)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	copy := *c
	if err := mutate(&copy); err != nil {
		return nil, err
	}
	copy.UpdatedAt = time.Now().UTC()
	r.items[id] = &copy
	out := copy
	return &out, nil
}

func (r *fakeCustomerRepo) SoftDelete(_ context.Context, id int64) error {
	c := r.active(id)
	if c == nil {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	return nil
}

type fakeOrderRepo struct {
	seq       int64
	items     map[int64]*domain.Order
	customers *fakeCustomerRepo
}

func newFakeOrderRepo(customers *fakeCustomerRepo) *fakeOrderRepo {
	r := &fakeOrderRepo{items: make(map[int64]*domain.Order), customers: customers}
	if customers != nil {
		customers.orders = r
	}
	return r
}

func (r *fakeOrderRepo) active(id int64) *domain.Order {
	o, ok := r.items[id]
	if !ok || o.DeletedAt != nil {
		return nil
	}
	return o
}

func (r *fakeOrderRepo) activeByCustomer(customerID int64) []domain.Order {
	out := make([]domain.Order, 0)
	for _, o := range r.items {
		if o.DeletedAt == nil && o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out
}

// withCustomer attaches the customer row regardless of its deleted flag,
// matching the SQL join in the real repository.
func (r *fakeOrderRepo) withCustomer(o domain.Order) domain.Order {
	if r.customers != nil {
		if c, ok := r.customers.items[o.CustomerID]; ok {
			cc := *c
			o.Customer = &cc
		}
	}
	return o
}

func (r *fakeOrderRepo) List(context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0)
	for _, o := range r.items {
		if o.DeletedAt == nil {
			out = append(out, r.withCustomer(*o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o := r.active(id)
	if o == nil {
		return nil, domain.ErrNotFound
	}
	loaded := r.withCustomer(*o)
	return &loaded, nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Order, error) {
	return r.activeByCustomer(customerID), nil
}

func (r *fakeOrderRepo) NumberTaken(_ context.Context, number string, excludeID int64) (bool, error) {
	for _, o := range r.items {
		if o.DeletedAt == nil && o.OrderNumber == number && o.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.seq++
	o.ID = r.seq
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	stored := *o
	stored.Customer = nil
	r.items[o.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id int64, mutate func(*domain.Order) error) (*domain.Order, error) {
	o := r.active(id)
	if o == nil {
		return nil, domain.ErrNotFound
	}
	copy := *o
	if err := mutate(&copy); err != nil {
		return nil, err
	}
	copy.UpdatedAt = time.Now().UTC()
	r.items[id] = &copy
	out := copy
	return &out, nil
}

func (r *fakeOrderRepo) SoftDelete(_ context.Context, id int64, guard func(*domain.Order) error) error {
	o := r.active(id)
	if o == nil {
		return domain.ErrNotFound
	}
	copy := *o
	if err := guard(&copy); err != nil {
		return err
	}
	now := time.Now().UTC()
	o.DeletedAt = &now
	return nil
}

type fakeUserRepo struct {
	seq      int64
	tokenSeq int64
	users    map[int64]*domain.User
	tokens   map[int64]*domain.APIToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), tokens: make(map[int64]*domain.APIToken)}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.seq++
	u.ID = r.seq
	u.CreatedAt = time.Now().UTC()
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) CreateToken(_ context.Context, userID int64, hash string) (int64, error) {
	r.tokenSeq++
	r.tokens[r.tokenSeq] = &domain.APIToken{
		ID: r.tokenSeq, UserID: userID, TokenHash: hash, CreatedAt: time.Now().UTC(),
	}
	return r.tokenSeq, nil
}

func (r *fakeUserRepo) GetToken(_ context.Context, tokenID int64) (*domain.APIToken, error) {
	t, ok := r.tokens[tokenID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r *fakeUserRepo) TouchToken(_ context.Context, tokenID int64) error {
	if t, ok := r.tokens[tokenID]; ok {
		now := time.Now().UTC()
		t.LastUsedAt = &now
	}
	return nil
}

func (r *fakeUserRepo) DeleteToken(_ context.Context, tokenID int64) error {
	if _, ok := r.tokens[tokenID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, tokenID)
	return nil
}

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	created []int64
	changed []string // "prev->next"
	deleted []int64
}

func (p *recordingPublisher) OrderCreated(_ context.Context, o *domain.Order) {
	p.created = append(p.created, o.ID)
}

func (p *recordingPublisher) OrderStatusChanged(_ context.Context, o *domain.Order, prev domain.Status) {
	p.changed = append(p.changed, string(prev)+"->"+string(o.Status))
}

func (p *recordingPublisher) OrderDeleted(_ context.Context, o *domain.Order) {
	p.deleted = append(p.deleted, o.ID)
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("test", io.Discard)
}
