// Package driver is the single-consumer loop that drains the ring queue
// into the order book. It is deliberately thin: a boundary between the
// lock-free queue and the book, nothing more. Producers never touch the
// book directly, and there is only ever one consumer draining the queue.
package driver

import (
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"github.com/sabdulmajid/lock-free-orderbook/internal/book"
	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
	"github.com/sabdulmajid/lock-free-orderbook/internal/metrics"
	"github.com/sabdulmajid/lock-free-orderbook/internal/queue"
)

const defaultSpins = 64

// Sink receives trades as the book emits them. It is called from the
// driver's single goroutine, in dequeue order.
type Sink func([]common.Trade)

// Driver drains Commands from a ring queue and applies them to an
// OrderBook, one at a time, forwarding any resulting trades to Sink.
type Driver struct {
	Queue   *queue.RingQueue[Command]
	Book    *book.OrderBook
	Sink    Sink
	Metrics *metrics.Metrics
	Log     zerolog.Logger

	// Spins bounds the backoff loop between empty dequeue attempts before
	// yielding the scheduler; zero uses a sane default.
	Spins int
}

func (d *Driver) spins() int {
	if d.Spins <= 0 {
		return defaultSpins
	}
	return d.Spins
}

// Run drains the queue until t is dying. It never blocks indefinitely: an
// empty queue is a bounded spin-then-yield, not a park.
func (d *Driver) Run(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		cmd, ok := queue.SpinDequeue(d.Queue, d.spins())
		if !ok {
			if d.Metrics != nil {
				d.Metrics.DequeueEmptyTotal.Inc()
			}
			continue
		}

		if d.Metrics != nil {
			d.Metrics.QueueDepth.Set(float64(d.Queue.ApproxLen()))
		}
		d.apply(cmd)
	}
}

func (d *Driver) apply(cmd Command) {
	switch cmd.Kind {
	case PlaceOrder:
		trades, err := d.Book.PlaceOrder(cmd.Order)
		if err != nil {
			d.Log.Error().Err(err).Uint64("orderID", cmd.Order.OrderID).Msg("rejected order")
			return
		}
		if d.Metrics != nil {
			d.Metrics.OrdersAppliedTotal.Inc()
			d.Metrics.TradesEmittedTotal.Add(float64(len(trades)))
		}
		if len(trades) > 0 && d.Sink != nil {
			d.Sink(trades)
		}

	case Cancel:
		ok := d.Book.Cancel(cmd.OrderID, cmd.Side, cmd.Price)
		d.Log.Debug().Uint64("orderID", cmd.OrderID).Bool("found", ok).Msg("cancel")

	case Modify:
		ok := d.Book.Modify(cmd.OrderID, cmd.Side, cmd.Price, cmd.NewQuantity)
		d.Log.Debug().Uint64("orderID", cmd.OrderID).Bool("found", ok).Msg("modify")

	default:
		d.Log.Error().Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}
