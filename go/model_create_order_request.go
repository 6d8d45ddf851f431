package orderserver

import "github.com/shopspring/decimal"

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerName string           `json:"customerName" binding:"required,notblank" example:"Vishal"`
	Amount       *decimal.Decimal `json:"amount" binding:"required,positive_decimal" swaggertype:"number" example:"1000.0"`
}
