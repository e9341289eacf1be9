package driver

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"

	"github.com/sabdulmajid/lock-free-orderbook/internal/book"
	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
	"github.com/sabdulmajid/lock-free-orderbook/internal/queue"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDriver_AppliesPlaceOrderAndForwardsTrades(t *testing.T) {
	q, err := queue.New[Command](8)
	require.NoError(t, err)

	var got []common.Trade
	drv := &Driver{
		Queue: q,
		Book:  book.New(),
		Sink: func(trades []common.Trade) {
			got = append(got, trades...)
		},
		Spins: 4,
		Log:   zerolog.Nop(),
	}

	require.True(t, q.TryEnqueue(Command{
		Kind:  PlaceOrder,
		Order: common.Order{OrderID: 1, Side: common.Sell, Price: dec("100.00"), Quantity: 5},
	}))
	require.True(t, q.TryEnqueue(Command{
		Kind:  PlaceOrder,
		Order: common.Order{OrderID: 2, Side: common.Buy, Price: dec("100.00"), Quantity: 5},
	}))

	tb, _ := tomb.WithContext(context.Background())
	tb.Go(func() error { return drv.Run(tb) })

	require.Eventually(t, func() bool { return len(got) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, uint64(5), got[0].Quantity)

	tb.Kill(nil)
	require.NoError(t, tb.Wait())
}

func TestDriver_CancelAndModify(t *testing.T) {
	q, err := queue.New[Command](8)
	require.NoError(t, err)

	bk := book.New()
	drv := &Driver{Queue: q, Book: bk, Spins: 4, Log: zerolog.Nop()}

	require.True(t, q.TryEnqueue(Command{
		Kind:  PlaceOrder,
		Order: common.Order{OrderID: 1, Side: common.Buy, Price: dec("100.00"), Quantity: 5},
	}))
	require.True(t, q.TryEnqueue(Command{
		Kind:  Modify,
		OrderID: 1, Side: common.Buy, Price: dec("100.00"), NewQuantity: 2,
	}))

	tb, _ := tomb.WithContext(context.Background())
	tb.Go(func() error { return drv.Run(tb) })

	require.Eventually(t, func() bool {
		levels := bk.Bids()
		return len(levels) == 1 && levels[0].TotalQuantity == 2
	}, time.Second, time.Millisecond)

	require.True(t, q.TryEnqueue(Command{
		Kind: Cancel, OrderID: 1, Side: common.Buy, Price: dec("100.00"),
	}))
	require.Eventually(t, func() bool {
		_, ok := bk.BestBid()
		return !ok
	}, time.Second, time.Millisecond)

	tb.Kill(nil)
	require.NoError(t, tb.Wait())
}
