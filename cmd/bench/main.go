// Command bench drives the matching engine with synthetic order flow and
// reports throughput. It exists to exercise internal/queue and internal/book
// under realistic concurrent load; it is not a trading venue and speaks no
// wire protocol (none of the deleted internal/net existed here either).
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	tomb "gopkg.in/tomb.v2"

	"github.com/sabdulmajid/lock-free-orderbook/internal/book"
	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
	"github.com/sabdulmajid/lock-free-orderbook/internal/driver"
	"github.com/sabdulmajid/lock-free-orderbook/internal/metrics"
	"github.com/sabdulmajid/lock-free-orderbook/internal/queue"
)

type flags struct {
	capacity     uint64
	producers    int
	ordersEach   int
	spins        int
	mid          string
	drainTimeout time.Duration
}

func main() {
	f := &flags{}
	root := &cobra.Command{
		Use:   "bench",
		Short: "Drive the lock-free order book with synthetic order flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}
	root.Flags().Uint64Var(&f.capacity, "capacity", 1<<16, "ring queue capacity (power of two)")
	root.Flags().IntVar(&f.producers, "producers", 4, "number of concurrent producer goroutines")
	root.Flags().IntVar(&f.ordersEach, "orders-each", 250000, "orders enqueued per producer")
	root.Flags().IntVar(&f.spins, "spins", 64, "spin-then-yield bound for queue backoff")
	root.Flags().StringVar(&f.mid, "mid", "100.00", "mid price synthetic orders jitter around")
	root.Flags().DurationVar(&f.drainTimeout, "drain-timeout", 5*time.Second, "max time to wait for the consumer to drain the queue after producers finish")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f *flags) error {
	runID := uuid.New()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("run_id", runID.String()).Logger()

	mid, err := decimal.NewFromString(f.mid)
	if err != nil {
		return fmt.Errorf("bench: invalid --mid %q: %w", f.mid, err)
	}

	q, err := queue.New[driver.Command](f.capacity)
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var tradeCount atomic.Uint64
	sink := func(trades []common.Trade) {
		tradeCount.Add(uint64(len(trades)))
	}

	bk := book.New()
	drv := &driver.Driver{
		Queue:   q,
		Book:    bk,
		Sink:    sink,
		Metrics: m,
		Log:     log,
		Spins:   f.spins,
	}

	t, _ := tomb.WithContext(context.Background())
	t.Go(func() error {
		return drv.Run(t)
	})

	log.Info().
		Int("producers", f.producers).
		Int("orders_each", f.ordersEach).
		Uint64("capacity", f.capacity).
		Msg("starting producer pool")

	pool := newProducerPool(f.producers, f.ordersEach, mid, f.spins, m)
	start := time.Now()
	pool.run(q)
	produceElapsed := time.Since(start)

	total := uint64(f.producers * f.ordersEach)

	// Give the consumer a bounded window to finish draining whatever
	// producers already enqueued; Run never blocks indefinitely so this
	// is strictly a "wait for catch-up" poll, not a park.
	deadline := time.Now().Add(f.drainTimeout)
	for q.ApproxLen() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	t.Kill(nil)
	_ = t.Wait()

	totalElapsed := time.Since(start)
	throughput := float64(pool.enqueued.Load()) / produceElapsed.Seconds()

	log.Info().
		Uint64("enqueued", pool.enqueued.Load()).
		Uint64("dropped", pool.dropped.Load()).
		Uint64("target", total).
		Uint64("trades_emitted", tradeCount.Load()).
		Float64("producer_throughput_orders_per_sec", throughput).
		Dur("produce_elapsed", produceElapsed).
		Dur("total_elapsed", totalElapsed).
		Msg("bench complete")

	if bid, ok := bk.BestBid(); ok {
		log.Info().Str("best_bid", bid.String()).Msg("final book state")
	}
	if ask, ok := bk.BestAsk(); ok {
		log.Info().Str("best_ask", ask.String()).Msg("final book state")
	}

	return nil
}
