// Package common holds the plain value records exchanged across the
// boundary between producers, the ring queue, and the order book. Nothing
// here is stateful: an Order is just data until the book admits it, and a
// Trade is a fact that is emitted, never mutated.
package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side is which side of the book an order rests or takes on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

// Order is a single limit order. OrderID, Side and Price are set by the
// caller and never change. Quantity is the remaining size and is decremented
// in place as the book matches it. InitialQuantity and Timestamp are
// assigned by the book at admission, overwriting any value the caller set.
type Order struct {
	OrderID         uint64
	Side            Side
	Price           decimal.Decimal
	Quantity        uint64
	InitialQuantity uint64
	Timestamp       time.Time

	// Owner is an optional attribution string used only for logging; it
	// has no bearing on matching and is not an authentication mechanism.
	Owner string
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%d side=%s price=%s qty=%d/%d ts=%s}",
		o.OrderID, o.Side, o.Price, o.Quantity, o.InitialQuantity,
		o.Timestamp.Format(time.RFC3339Nano),
	)
}
