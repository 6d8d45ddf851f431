package orderserver

// UpdateStatusRequest is the body of PUT /orders/{orderId}/status.
type UpdateStatusRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required" enums:"NEW,PROCESSING,COMPLETED" example:"PROCESSING"`
}
