// Package book implements the price-time-priority limit order book: two
// sorted price-level maps, a matching sweep against resting liquidity, and
// the rest/cancel/modify operations that keep those maps consistent.
package book

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
)

var (
	// ErrInvalidOrder is returned when an order fails boundary validation:
	// non-positive price or zero quantity. The book does not sanitize
	// beyond this; callers that need stricter checks do them at ingress.
	ErrInvalidOrder = errors.New("orderbook: invalid order")
)

// Clock supplies the current time for order admission. Tests can inject a
// deterministic or deliberately non-monotone clock; OrderBook always clamps
// its output to a non-decreasing sequence regardless.
type Clock func() time.Time

// OrderBook is a single-symbol, price-time-priority limit order book. It is
// not safe for concurrent use; OrderBook assumes a single consumer thread
// drains orders into it, so nothing here takes a lock.
type OrderBook struct {
	bids *btree.BTreeG[*PriceLevel] // comparator: higher price first
	asks *btree.BTreeG[*PriceLevel] // comparator: lower price first

	clock         Clock
	lastTimestamp time.Time
}

// Option configures an OrderBook at construction.
type Option func(*OrderBook)

// WithClock overrides the timestamp source. Default is time.Now.
func WithClock(clock Clock) Option {
	return func(b *OrderBook) { b.clock = clock }
}

// New builds an empty order book.
func New(opts ...Option) *OrderBook {
	b := &OrderBook{
		bids:  btree.NewBTreeG(func(a, b *PriceLevel) bool { return a.Price.GreaterThan(b.Price) }),
		asks:  btree.NewBTreeG(func(a, b *PriceLevel) bool { return a.Price.LessThan(b.Price) }),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *OrderBook) treeFor(side common.Side) *btree.BTreeG[*PriceLevel] {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// admit stamps the order with a monotone non-decreasing timestamp, clamping
// the clock's output if it ever runs backwards or stands still.
func (b *OrderBook) admit(order *common.Order) {
	now := b.clock()
	if !now.After(b.lastTimestamp) {
		now = b.lastTimestamp.Add(time.Nanosecond)
	}
	b.lastTimestamp = now
	order.Timestamp = now
}

// PlaceOrder admits a new limit order: it is timestamped, matched against
// the opposite side of the book, and any unfilled remainder rests at the
// tail of its price level. Returns the trades generated, in fill order.
func (b *OrderBook) PlaceOrder(order common.Order) ([]common.Trade, error) {
	if order.Price.Sign() <= 0 || order.Quantity == 0 {
		return nil, ErrInvalidOrder
	}

	order.InitialQuantity = order.Quantity
	b.admit(&order)

	taker := &order
	var trades []common.Trade
	b.match(taker, &trades)

	if taker.Quantity > 0 {
		b.rest(taker)
	}
	return trades, nil
}

// match sweeps the opposite side of the book while the taker remains
// marketable, emitting one trade per maker touched.
func (b *OrderBook) match(taker *common.Order, trades *[]common.Trade) {
	opposite := b.asks
	if taker.Side == common.Sell {
		opposite = b.bids
	}

	for taker.Quantity > 0 {
		level, ok := opposite.MinMut()
		if !ok {
			return
		}
		if taker.Side == common.Buy && taker.Price.LessThan(level.Price) {
			return
		}
		if taker.Side == common.Sell && taker.Price.GreaterThan(level.Price) {
			return
		}

		for _, maker := range level.Orders {
			if taker.Quantity == 0 {
				break
			}
			fill := minUint64(taker.Quantity, maker.Quantity)

			*trades = append(*trades, common.Trade{
				TakerOrderID: taker.OrderID,
				MakerOrderID: maker.OrderID,
				Quantity:     fill,
				Price:        level.Price,
				Timestamp:    taker.Timestamp,
			})

			taker.Quantity -= fill
			maker.Quantity -= fill
			level.TotalQuantity -= fill
		}

		level.trimFilled()
		if level.empty() {
			opposite.Delete(level)
		}
	}
}

// rest deposits the taker's unfilled remainder at the tail of its price
// level, creating the level if this is the first order at that price.
func (b *OrderBook) rest(order *common.Order) {
	tree := b.treeFor(order.Side)
	level, ok := tree.GetMut(&PriceLevel{Price: order.Price})
	if !ok {
		level = newPriceLevel(order.Price)
		tree.Set(level)
	}
	level.append(order)
}

// Cancel removes a resting order by id at an exact (side, price) key.
// Returns false if the level or the order within it does not exist.
func (b *OrderBook) Cancel(orderID uint64, side common.Side, price decimal.Decimal) bool {
	tree := b.treeFor(side)
	level, ok := tree.GetMut(&PriceLevel{Price: price})
	if !ok {
		return false
	}
	if !level.findAndRemove(orderID) {
		return false
	}
	if level.empty() {
		tree.Delete(level)
	}
	return true
}

// Modify changes the remaining quantity of a resting order in place,
// preserving its time priority. newQuantity == 0 is equivalent to Cancel.
// A price change is not supported; callers perform cancel+add for that.
func (b *OrderBook) Modify(orderID uint64, side common.Side, price decimal.Decimal, newQuantity uint64) bool {
	tree := b.treeFor(side)
	level, ok := tree.GetMut(&PriceLevel{Price: price})
	if !ok {
		return false
	}
	if newQuantity == 0 {
		if !level.findAndRemove(orderID) {
			return false
		}
		if level.empty() {
			tree.Delete(level)
		}
		return true
	}
	return level.findAndModify(orderID, newQuantity)
}

// BestBid returns the highest resting bid price, if any.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return decimal.Decimal{}, false
	}
	return level.Price, true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return decimal.Decimal{}, false
	}
	return level.Price, true
}

// Bids returns a snapshot of resting bid levels, highest price first.
func (b *OrderBook) Bids() []*PriceLevel {
	return b.bids.Items()
}

// Asks returns a snapshot of resting ask levels, lowest price first.
func (b *OrderBook) Asks() []*PriceLevel {
	return b.asks.Items()
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
