package main

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
	"github.com/sabdulmajid/lock-free-orderbook/internal/driver"
	"github.com/sabdulmajid/lock-free-orderbook/internal/metrics"
	"github.com/sabdulmajid/lock-free-orderbook/internal/queue"
)

// producerPool fans synthetic orders into the ring queue from n concurrent
// goroutines, the same worker-pool shape fenrir/internal/worker.go uses for
// connection handlers, adapted here to generate orders instead.
type producerPool struct {
	n           int
	ordersPer   int
	midPrice    decimal.Decimal
	spins       int
	metrics     *metrics.Metrics
	nextOrderID atomic.Uint64
	enqueued    atomic.Uint64
	dropped     atomic.Uint64
}

func newProducerPool(n, ordersPer int, midPrice decimal.Decimal, spins int, m *metrics.Metrics) *producerPool {
	return &producerPool{n: n, ordersPer: ordersPer, midPrice: midPrice, spins: spins, metrics: m}
}

// run fills the queue from n goroutines and blocks until every producer has
// attempted all of its orders. Orders that fail every spin attempt are
// counted as dropped rather than retried forever; producers never block
// indefinitely on a full queue.
func (p *producerPool) run(q *queue.RingQueue[driver.Command]) {
	var wg sync.WaitGroup
	wg.Add(p.n)
	for i := 0; i < p.n; i++ {
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(worker) + 1))
			for j := 0; j < p.ordersPer; j++ {
				cmd := driver.Command{
					Kind: driver.PlaceOrder,
					Order: common.Order{
						OrderID:  p.nextOrderID.Add(1),
						Side:     randomSide(rng),
						Price:    jitterPrice(p.midPrice, rng),
						Quantity: uint64(1 + rng.Intn(50)),
					},
				}
				if queue.SpinEnqueue(q, cmd, p.spins) {
					p.enqueued.Add(1)
					if p.metrics != nil {
						p.metrics.EnqueueSuccessTotal.Inc()
						p.metrics.QueueDepth.Set(float64(q.ApproxLen()))
					}
				} else {
					p.dropped.Add(1)
					if p.metrics != nil {
						p.metrics.EnqueueFullTotal.Inc()
					}
				}
			}
		}(i)
	}
	wg.Wait()
}

func randomSide(rng *rand.Rand) common.Side {
	if rng.Intn(2) == 0 {
		return common.Buy
	}
	return common.Sell
}

// jitterPrice nudges mid by up to +/-5 ticks of 0.01, so orders cross and
// rest in roughly equal measure against a resting book centered on mid.
func jitterPrice(mid decimal.Decimal, rng *rand.Rand) decimal.Decimal {
	delta := decimal.New(int64(rng.Intn(11)-5), -2)
	price := mid.Add(delta)
	if price.Sign() <= 0 {
		return mid
	}
	return price
}
