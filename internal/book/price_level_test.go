package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabdulmajid/lock-free-orderbook/internal/common"
)

func TestPriceLevel_AppendTracksTotalQuantity(t *testing.T) {
	pl := newPriceLevel(dec("100.00"))
	pl.append(&common.Order{OrderID: 1, Quantity: 5})
	pl.append(&common.Order{OrderID: 2, Quantity: 3})

	assert.Equal(t, uint64(8), pl.TotalQuantity)
	require.Len(t, pl.Orders, 2)
	assert.Equal(t, uint64(1), pl.Orders[0].OrderID, "FIFO: first appended stays first")
}

func TestPriceLevel_TrimFilledDropsOnlyLeadingZeros(t *testing.T) {
	pl := newPriceLevel(dec("100.00"))
	pl.append(&common.Order{OrderID: 1, Quantity: 0})
	pl.append(&common.Order{OrderID: 2, Quantity: 0})
	pl.append(&common.Order{OrderID: 3, Quantity: 4})

	pl.trimFilled()
	require.Len(t, pl.Orders, 1)
	assert.Equal(t, uint64(3), pl.Orders[0].OrderID)
}

func TestPriceLevel_FindAndRemove(t *testing.T) {
	pl := newPriceLevel(dec("100.00"))
	pl.append(&common.Order{OrderID: 1, Quantity: 5})
	pl.append(&common.Order{OrderID: 2, Quantity: 5})

	ok := pl.findAndRemove(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), pl.TotalQuantity)
	require.Len(t, pl.Orders, 1)
	assert.Equal(t, uint64(2), pl.Orders[0].OrderID)

	ok = pl.findAndRemove(999)
	assert.False(t, ok)
}

func TestPriceLevel_FindAndModify(t *testing.T) {
	pl := newPriceLevel(dec("100.00"))
	pl.append(&common.Order{OrderID: 1, Quantity: 5})

	ok := pl.findAndModify(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), pl.TotalQuantity)
	assert.Equal(t, uint64(2), pl.Orders[0].Quantity)

	ok = pl.findAndModify(999, 1)
	assert.False(t, ok)
}

func TestPriceLevel_Empty(t *testing.T) {
	pl := newPriceLevel(dec("100.00"))
	assert.True(t, pl.empty())
	pl.append(&common.Order{OrderID: 1, Quantity: 1})
	assert.False(t, pl.empty())
}
