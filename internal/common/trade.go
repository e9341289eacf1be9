package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade records a single fill between a taker and a resting maker. Price is
// always the maker's resting price, per price-time priority: the taker gets
// filled at the price the liquidity was offered at, never its own limit.
type Trade struct {
	TakerOrderID uint64
	MakerOrderID uint64
	Quantity     uint64
	Price        decimal.Decimal
	Timestamp    time.Time
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{taker=%d maker=%d qty=%d price=%s ts=%s}",
		t.TakerOrderID, t.MakerOrderID, t.Quantity, t.Price,
		t.Timestamp.Format(time.RFC3339Nano),
	)
}
