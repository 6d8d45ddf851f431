package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/order-mgmt-service/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/order-mgmt-service/internal/platform/temporal/activities/orders"
)

// commitThenFailRepo persists writes but reports failure for the next n saves,
// like a database whose commit succeeded while the reply was lost.
type commitThenFailRepo struct {
	*memory.Repository

	mu       sync.Mutex
	failures int
}

func (r *commitThenFailRepo) Save(ctx context.Context, order *ordersdomain.Order) (*ordersdomain.Order, error) {
	saved, err := r.Repository.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("connection reset after commit")
	}
	return saved, nil
}

func (r *commitThenFailRepo) failNextSaves(n int) {
	r.mu.Lock()
	r.failures = n
	r.mu.Unlock()
}

type OrderWorkflowsTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env           *testsuite.TestWorkflowEnvironment
	repo          *commitThenFailRepo
	service       *ordersapp.Service
	activityCalls int
}

func TestOrderWorkflows(t *testing.T) {
	suite.Run(t, new(OrderWorkflowsTestSuite))
}

func (s *OrderWorkflowsTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.repo = &commitThenFailRepo{Repository: memory.NewRepository()}
	s.service = ordersapp.NewService(s.repo)
	s.activityCalls = 0

	activities := orderactivities.NewActivities(s.service)
	s.env.RegisterActivityWithOptions(activities.CreateOrder, activity.RegisterOptions{Name: orderactivities.CreateOrderActivityName})
	s.env.RegisterActivityWithOptions(activities.UpdateOrderStatus, activity.RegisterOptions{Name: orderactivities.UpdateOrderStatusActivityName})
	s.env.SetOnActivityStartedListener(func(*activity.Info, context.Context, converter.EncodedValues) {
		s.activityCalls++
	})
}

func (s *OrderWorkflowsTestSuite) createDirect() *ordersdomain.Order {
	order, err := s.service.CreateOrder(context.Background(), ordersports.CreateOrderInput{
		CustomerName: "Vishal",
		Amount:       decimal.RequireFromString("1000.0"),
	})
	s.Require().NoError(err)
	return order
}

func (s *OrderWorkflowsTestSuite) TestCreationWorkflowPersistsOrder() {
	s.env.ExecuteWorkflow(OrderCreationWorkflow, OrderCreationWorkflowInput{
		Command: ordersports.CreateOrderInput{CustomerName: "Vishal", Amount: decimal.RequireFromString("1000.0")},
		TraceID: "trace-1",
	})

	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().NoError(s.env.GetWorkflowError())

	var order ordersdomain.Order
	s.Require().NoError(s.env.GetWorkflowResult(&order))
	s.Equal(ordersdomain.StatusNew, order.Status)
	s.True(order.Amount.Equal(decimal.NewFromInt(1000)))

	stored, err := s.service.GetOrderByID(context.Background(), order.ID)
	s.Require().NoError(err)
	s.Equal("Vishal", stored.CustomerName)
}

func (s *OrderWorkflowsTestSuite) TestStatusWorkflowAppliesTransition() {
	created := s.createDirect()

	s.env.ExecuteWorkflow(OrderStatusWorkflow, OrderStatusWorkflowInput{
		Command: orderactivities.UpdateOrderStatusInput{OrderID: created.ID, Status: ordersdomain.StatusProcessing},
	})

	s.Require().NoError(s.env.GetWorkflowError())
	var order ordersdomain.Order
	s.Require().NoError(s.env.GetWorkflowResult(&order))
	s.Equal(ordersdomain.StatusProcessing, order.Status)
}

func (s *OrderWorkflowsTestSuite) TestInvalidTransitionIsNotRetried() {
	created := s.createDirect()

	s.env.ExecuteWorkflow(OrderStatusWorkflow, OrderStatusWorkflowInput{
		Command: orderactivities.UpdateOrderStatusInput{OrderID: created.ID, Status: ordersdomain.StatusCompleted},
	})

	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	s.Equal(1, s.activityCalls)

	translated := orderactivities.FromApplicationError(err, created.ID)
	s.ErrorIs(translated, ordersdomain.ErrInvalidTransition)
	var transitionErr *ordersdomain.InvalidTransitionError
	s.Require().True(errors.As(translated, &transitionErr))
	s.Equal(ordersdomain.StatusNew, transitionErr.From)
	s.Equal(ordersdomain.StatusCompleted, transitionErr.To)
}

func (s *OrderWorkflowsTestSuite) TestUnknownOrderIsNotFound() {
	s.env.ExecuteWorkflow(OrderStatusWorkflow, OrderStatusWorkflowInput{
		Command: orderactivities.UpdateOrderStatusInput{OrderID: "invalid-id", Status: ordersdomain.StatusProcessing},
	})

	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	s.Equal(1, s.activityCalls)

	translated := orderactivities.FromApplicationError(err, "fallback")
	s.ErrorIs(translated, ordersports.ErrNotFound)
	s.EqualError(translated, "Order not found with id : invalid-id")
}

func (s *OrderWorkflowsTestSuite) TestInvalidInputIsNotRetried() {
	s.env.ExecuteWorkflow(OrderCreationWorkflow, OrderCreationWorkflowInput{
		Command: ordersports.CreateOrderInput{CustomerName: " ", Amount: decimal.NewFromInt(1)},
	})

	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	s.Equal(1, s.activityCalls)
	s.ErrorIs(orderactivities.FromApplicationError(err, ""), ordersapp.ErrInvalidInput)
}

func (s *OrderWorkflowsTestSuite) TestCreationRetryAfterCommittedSaveStoresOneOrder() {
	s.repo.failNextSaves(1)

	s.env.ExecuteWorkflow(OrderCreationWorkflow, OrderCreationWorkflowInput{
		Command: ordersports.CreateOrderInput{CustomerName: "Vishal", Amount: decimal.RequireFromString("1000.0")},
	})

	s.Require().NoError(s.env.GetWorkflowError())
	s.Equal(2, s.activityCalls)

	var order ordersdomain.Order
	s.Require().NoError(s.env.GetWorkflowResult(&order))
	stored, err := s.service.GetAllOrders(context.Background())
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal(order.ID, stored[0].ID)
}

func (s *OrderWorkflowsTestSuite) TestStatusRetryAfterCommittedSaveSucceeds() {
	created := s.createDirect()
	s.repo.failNextSaves(1)

	s.env.ExecuteWorkflow(OrderStatusWorkflow, OrderStatusWorkflowInput{
		Command: orderactivities.UpdateOrderStatusInput{OrderID: created.ID, Status: ordersdomain.StatusProcessing},
	})

	s.Require().NoError(s.env.GetWorkflowError())
	s.Equal(2, s.activityCalls)

	var order ordersdomain.Order
	s.Require().NoError(s.env.GetWorkflowResult(&order))
	s.Equal(ordersdomain.StatusProcessing, order.Status)
}

func (s *OrderWorkflowsTestSuite) TestStatusRetryStillRejectsGenuineSelfTransition() {
	created := s.createDirect()
	_, err := s.service.UpdateOrderStatus(context.Background(), created.ID, ordersdomain.StatusProcessing)
	s.Require().NoError(err)

	s.env.ExecuteWorkflow(OrderStatusWorkflow, OrderStatusWorkflowInput{
		Command: orderactivities.UpdateOrderStatusInput{OrderID: created.ID, Status: ordersdomain.StatusProcessing},
	})

	err = s.env.GetWorkflowError()
	s.Require().Error(err)
	s.Equal(1, s.activityCalls)
	s.ErrorIs(orderactivities.FromApplicationError(err, created.ID), ordersdomain.ErrInvalidTransition)
}
