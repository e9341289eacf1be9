package driver

import (
	"github.com/shopspring/decimal"

	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
)

// CommandKind selects which OrderBook operation a Command applies.
type CommandKind int

const (
	PlaceOrder CommandKind = iota
	Cancel
	Modify
)

// Command is the single payload type carried over the ring queue. Producers
// never touch the book directly; they only ever construct Commands and
// attempt to enqueue them.
type Command struct {
	Kind CommandKind

	// Used by PlaceOrder.
	Order common.Order

	// Used by Cancel and Modify.
	OrderID     uint64
	Side        common.Side
	Price       decimal.Decimal
	NewQuantity uint64 // Modify only
}
