package orderserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/order-mgmt-service/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewOrderAPI creates an OrderAPI. workflows may be nil, in which case mutations
// call the service directly.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator, responder *apierrors.ChainedResponder) OrderAPI {
	api := OrderAPI{service: service, workflows: workflows, responder: responder}
	api.ensureResponder()
	return api
}

func (api *OrderAPI) ensureResponder() {
	if api.responder == nil {
		api.responder = apierrors.NewChainedResponder(nil, OrderErrorMappers()...)
	}
}

// CreateOrder godoc
// @Summary Create order
// @Description Creates an order in status NEW
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order to create"
// @Success 201 {object} mapper.Order
// @Header 201 {string} Location "/orders/{orderId}"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [post]
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondBindError(c, err)
		return
	}
	input := orderhttpmapper.ToCreateOrderInput(payload.CustomerName, *payload.Amount)
	created, err := api.createOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/orders/"+created.ID)
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(created))
}

func (api *OrderAPI) createOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// GetOrderById godoc
// @Summary Get order
// @Tags orders
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} mapper.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{orderId} [get]
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	order, err := api.service.GetOrderByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Description Moves an order along NEW -> PROCESSING -> COMPLETED
// @Tags orders
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param status body UpdateStatusRequest true "Requested status"
// @Success 200 {object} mapper.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{orderId}/status [put]
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondBindError(c, err)
		return
	}
	status, err := ordersdomain.ParseStatus(payload.OrderStatus)
	if err != nil {
		api.responder.InvalidRequest(c, unknownStatusMessage(payload.OrderStatus))
		return
	}
	updated, err := api.updateOrderStatus(c.Request.Context(), c.Param("orderId"), status)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(updated))
}

func (api *OrderAPI) updateOrderStatus(ctx context.Context, id string, status ordersdomain.Status) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.UpdateOrderStatus(ctx, id, status)
	}
	return api.service.UpdateOrderStatus(ctx, id, status)
}

// GetAllOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Success 200 {array} mapper.Order
// @Router /orders [get]
func (api *OrderAPI) GetAllOrders(c *gin.Context) {
	orders, err := api.service.GetAllOrders(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}
