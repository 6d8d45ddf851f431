package mapper

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
)

// Order is the transport shape of an order. Amount is rendered as a JSON number.
type Order struct {
	OrderID      string      `json:"orderId" example:"ORD-3f1c2b9a0d4e4f6a8b7c6d5e4f3a2b1c"`
	CustomerName string      `json:"customerName" example:"Vishal"`
	Amount       json.Number `json:"amount" swaggertype:"number" example:"1000.0"`
	Status       string      `json:"status" enums:"NEW,PROCESSING,COMPLETED" example:"NEW"`
}

// ToCreateOrderInput converts validated request fields into the service input.
func ToCreateOrderInput(customerName string, amount decimal.Decimal) ordersports.CreateOrderInput {
	return ordersports.CreateOrderInput{CustomerName: customerName, Amount: amount}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Amount:       json.Number(order.Amount.String()),
		Status:       string(order.Status),
	}
}

// FromDomainOrders converts a list; the result is never nil so it encodes as [].
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
