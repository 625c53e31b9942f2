package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

// transitions is the allowed-edge table. Terminal statuses have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID          int64
	OrderNumber string
	CustomerID  int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	Customer    *Customer // set only when the relation was loaded
}

// CanBeModified reports whether the order accepts any mutation at all.
func (o *Order) CanBeModified() bool {
	return !o.Status.Terminal()
}

// GuardUpdate decides whether a mutation of the order is allowed. The
// modifiability check runs first: a terminal order rejects every update,
// whatever fields it carries. The transition table is consulted only when
// next differs from the current status; re-submitting the current status is
// not a transition.
func (o *Order) GuardUpdate(next *Status) error {
	if !o.CanBeModified() {
		return &StateError{Op: OpUpdate, Status: o.Status}
	}
	if next != nil && *next != o.Status && !o.Status.CanTransitionTo(*next) {
		return &StateError{Op: OpTransition, Status: o.Status, Next: *next}
	}
	return nil
}

// GuardDelete applies the modifiability check to soft deletion.
func (o *Order) GuardDelete() error {
	if !o.CanBeModified() {
		return &StateError{Op: OpDelete, Status: o.Status}
	}
	return nil
}
