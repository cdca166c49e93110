package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrInvalidStatus     = errors.New("invalid order status")
)
