package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderIDPrefix prefixes every generated order identifier.
const OrderIDPrefix = "ORD-"

var (
	ErrBlankOrderID      = errors.New("order id must not be blank")
	ErrBlankCustomerName = errors.New("customer name must not be blank")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// Order models the purchase order aggregate. Only Status changes after creation.
type Order struct {
	ID           string
	CustomerName string
	Amount       decimal.Decimal
	Status       Status
}

// NewOrderID returns "ORD-" followed by 32 lowercase hex characters of a random UUID.
func NewOrderID() string {
	return OrderIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewOrder validates input and constructs an order in the NEW state with a fresh id.
func NewOrder(customerName string, amount decimal.Decimal) (*Order, error) {
	return NewOrderWithID(NewOrderID(), customerName, amount)
}

// NewOrderWithID is NewOrder for callers that minted the id up front.
func NewOrderWithID(id, customerName string, amount decimal.Decimal) (*Order, error) {
	order := &Order{
		ID:           id,
		CustomerName: customerName,
		Amount:       amount,
		Status:       StatusNew,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return ErrBlankOrderID
	}
	if strings.TrimSpace(o.CustomerName) == "" {
		return ErrBlankCustomerName
	}
	if !o.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// TransitionTo moves the order to status when the lifecycle permits it.
func (o *Order) TransitionTo(status Status) error {
	if err := ValidateTransition(o.Status, status); err != nil {
		return err
	}
	o.Status = status
	return nil
}

// Clone returns an independent copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
