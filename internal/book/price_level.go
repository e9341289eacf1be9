package book

import (
	"github.com/shopspring/decimal"

	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
)

// PriceLevel is the FIFO of resting orders at one (side, price) key, plus a
// cached total so depth reads don't require walking the list.
type PriceLevel struct {
	Price         decimal.Decimal
	Orders        []*common.Order
	TotalQuantity uint64
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price}
}

// append pushes an order to the tail, preserving arrival order.
func (pl *PriceLevel) append(order *common.Order) {
	pl.Orders = append(pl.Orders, order)
	pl.TotalQuantity += order.Quantity
}

// trimFilled drops zero-quantity orders from the head. Matching only ever
// decrements from the head forward, so exhausted orders are always a
// contiguous prefix.
func (pl *PriceLevel) trimFilled() {
	i := 0
	for i < len(pl.Orders) && pl.Orders[i].Quantity == 0 {
		i++
	}
	if i > 0 {
		pl.Orders = pl.Orders[i:]
	}
}

func (pl *PriceLevel) empty() bool {
	return len(pl.Orders) == 0
}

// findAndRemove does a linear scan by order id, used by cancel. Returns
// whether the order was found.
func (pl *PriceLevel) findAndRemove(orderID uint64) bool {
	for i, o := range pl.Orders {
		if o.OrderID == orderID {
			pl.TotalQuantity -= o.Quantity
			pl.Orders = append(pl.Orders[:i], pl.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// findAndModify does a linear scan by order id and overwrites the
// remaining quantity in place, preserving the order's position (and thus
// its time priority) in the FIFO.
func (pl *PriceLevel) findAndModify(orderID uint64, newQuantity uint64) bool {
	for _, o := range pl.Orders {
		if o.OrderID == orderID {
			pl.TotalQuantity -= o.Quantity
			o.Quantity = newQuantity
			pl.TotalQuantity += newQuantity
			return true
		}
	}
	return false
}
