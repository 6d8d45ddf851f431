package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/order-mgmt-service/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
)

const (
	// CreateOrderActivityName persists a new order in status NEW.
	CreateOrderActivityName = "orders.activities.CreateOrder"
	// UpdateOrderStatusActivityName applies one lifecycle transition.
	UpdateOrderStatusActivityName = "orders.activities.UpdateOrderStatus"
)

// Application error types raised by the activities. None of them is retried.
const (
	ErrorTypeNotFound          = "NotFound"
	ErrorTypeInvalidTransition = "InvalidTransition"
	ErrorTypeInvalidInput      = "InvalidInput"
)

// NonRetryableErrorTypes lists the types a retry policy should never replay.
var NonRetryableErrorTypes = []string{ErrorTypeNotFound, ErrorTypeInvalidTransition, ErrorTypeInvalidInput}

// UpdateOrderStatusInput identifies the order and the requested status.
type UpdateOrderStatusInput struct {
	OrderID string
	Status  ordersdomain.Status
}

// TransitionDetails travels as the details payload of an InvalidTransition error.
type TransitionDetails struct {
	From ordersdomain.Status
	To   ordersdomain.Status
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// CreateOrder stores a new order and returns it.
func (a *Activities) CreateOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order create activity not initialized")
		return nil, errors.New("order create activity not initialized")
	}
	logger.Info("CreateOrder activity started", "customerName", input.CustomerName)
	order, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("CreateOrder activity failed", "customerName", input.CustomerName, "error", err)
		return nil, ToApplicationError(err)
	}
	logger.Info("CreateOrder activity completed", "orderId", order.ID)
	return order, nil
}

// UpdateOrderStatus applies a status transition and returns the updated order.
func (a *Activities) UpdateOrderStatus(ctx context.Context, input UpdateOrderStatusInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order status activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order status activity not initialized")
	}
	logger.Info("UpdateOrderStatus activity started", "orderId", input.OrderID, "status", input.Status)
	order, err := a.service.UpdateOrderStatus(ctx, input.OrderID, input.Status)
	if err != nil {
		if applied, ok := a.appliedByEarlierAttempt(ctx, input, err); ok {
			logger.Info("UpdateOrderStatus already applied by an earlier attempt", "orderId", input.OrderID, "status", input.Status)
			return applied, nil
		}
		logger.Error("UpdateOrderStatus activity failed", "orderId", input.OrderID, "status", input.Status, "error", err)
		return nil, ToApplicationError(err)
	}
	logger.Info("UpdateOrderStatus activity completed", "orderId", order.ID, "status", order.Status)
	return order, nil
}

// appliedByEarlierAttempt recognises a retry whose previous attempt saved the
// transition but failed before reporting back: the order already sits in the
// requested status.
func (a *Activities) appliedByEarlierAttempt(ctx context.Context, input UpdateOrderStatusInput, err error) (*ordersdomain.Order, bool) {
	if activity.GetInfo(ctx).Attempt <= 1 {
		return nil, false
	}
	var transitionErr *ordersdomain.InvalidTransitionError
	if !errors.As(err, &transitionErr) || transitionErr.From != input.Status {
		return nil, false
	}
	order, getErr := a.service.GetOrderByID(ctx, input.OrderID)
	if getErr != nil || order.Status != input.Status {
		return nil, false
	}
	return order, true
}

// ToApplicationError marks domain rejections as non-retryable application errors.
// Other errors are returned unchanged so the retry policy applies.
func ToApplicationError(err error) error {
	var notFound *ordersports.NotFoundError
	if errors.As(err, &notFound) {
		return temporal.NewNonRetryableApplicationError(notFound.Error(), ErrorTypeNotFound, err, notFound.ID)
	}
	var transitionErr *ordersdomain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return temporal.NewNonRetryableApplicationError(transitionErr.Error(), ErrorTypeInvalidTransition, err,
			TransitionDetails{From: transitionErr.From, To: transitionErr.To})
	}
	if errors.Is(err, ordersapp.ErrInvalidInput) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err, invalidInputDetail(err))
	}
	return err
}

// FromApplicationError reverses ToApplicationError for errors coming back from a
// workflow run. requestedID fills in a NotFound error that carries no details.
func FromApplicationError(err error, requestedID string) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrorTypeNotFound:
		id := requestedID
		if appErr.HasDetails() {
			_ = appErr.Details(&id)
		}
		return &ordersports.NotFoundError{ID: id}
	case ErrorTypeInvalidTransition:
		var details TransitionDetails
		if appErr.HasDetails() && appErr.Details(&details) == nil {
			return &ordersdomain.InvalidTransitionError{From: details.From, To: details.To}
		}
		return ordersdomain.ErrInvalidTransition
	case ErrorTypeInvalidInput:
		var detail string
		if appErr.HasDetails() && appErr.Details(&detail) == nil && detail != "" {
			return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, detail)
		}
		return ordersapp.ErrInvalidInput
	default:
		return err
	}
}

func invalidInputDetail(err error) string {
	return strings.TrimPrefix(err.Error(), ordersapp.ErrInvalidInput.Error()+": ")
}
