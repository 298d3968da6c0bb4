package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeAggregatesByPrice(t *testing.T) {
	b := Book{
		{OrderNo: "100", Side: SideBuy}:  {Price: 10.0, Qty: 50, Side: SideBuy},
		{OrderNo: "101", Side: SideBuy}:  {Price: 10.0, Qty: 30, Side: SideBuy},
		{OrderNo: "102", Side: SideBuy}:  {Price: 9.5, Qty: 20, Side: SideBuy},
		{OrderNo: "200", Side: SideSell}: {Price: 12.0, Qty: 40, Side: SideSell},
	}

	summary := b.Summarize()

	require.Len(t, summary.Buys, 2)
	assert.Equal(t, PriceLevel{Price: 10.0, OrderCount: 2, TotalQty: 80}, summary.Buys[0])
	assert.Equal(t, PriceLevel{Price: 9.5, OrderCount: 1, TotalQty: 20}, summary.Buys[1])

	require.Len(t, summary.Sells, 1)
	assert.Equal(t, PriceLevel{Price: 12.0, OrderCount: 1, TotalQty: 40}, summary.Sells[0])
}

func TestSummarizeSortOrder(t *testing.T) {
	b := Book{
		{OrderNo: "1", Side: SideBuy}:  {Price: 9.0, Qty: 10, Side: SideBuy},
		{OrderNo: "2", Side: SideBuy}:  {Price: 10.0, Qty: 10, Side: SideBuy},
		{OrderNo: "3", Side: SideBuy}:  {Price: 8.0, Qty: 10, Side: SideBuy},
		{OrderNo: "4", Side: SideSell}: {Price: 13.0, Qty: 10, Side: SideSell},
		{OrderNo: "5", Side: SideSell}: {Price: 11.0, Qty: 10, Side: SideSell},
		{OrderNo: "6", Side: SideSell}: {Price: 12.0, Qty: 10, Side: SideSell},
	}

	summary := b.Summarize()

	assert.Equal(t, []float64{10.0, 9.0, 8.0}, prices(summary.Buys))
	assert.Equal(t, []float64{11.0, 12.0, 13.0}, prices(summary.Sells))
}

func TestSummarizeDropsCrossedLevels(t *testing.T) {
	// Best ask 11, best bid 12: the 12 buy and the 11 sell are stale.
	b := Book{
		{OrderNo: "1", Side: SideBuy}:  {Price: 12.0, Qty: 10, Side: SideBuy},
		{OrderNo: "2", Side: SideBuy}:  {Price: 10.0, Qty: 10, Side: SideBuy},
		{OrderNo: "3", Side: SideSell}: {Price: 11.0, Qty: 10, Side: SideSell},
		{OrderNo: "4", Side: SideSell}: {Price: 13.0, Qty: 10, Side: SideSell},
	}

	summary := b.Summarize()

	assert.Equal(t, []float64{10.0}, prices(summary.Buys))
	assert.Equal(t, []float64{13.0}, prices(summary.Sells))
}

func TestSummarizeDropsBuyEqualToBestAsk(t *testing.T) {
	b := Book{
		{OrderNo: "1", Side: SideBuy}:  {Price: 11.0, Qty: 10, Side: SideBuy},
		{OrderNo: "2", Side: SideSell}: {Price: 11.0, Qty: 10, Side: SideSell},
	}

	summary := b.Summarize()

	// Both sit exactly at the crossing price: the buy is at the best ask
	// and the sell is at the best bid, so neither survives.
	assert.Empty(t, summary.Buys)
	assert.Empty(t, summary.Sells)
}

func TestSummarizeBoundsComeFromUnfilteredSides(t *testing.T) {
	// The 12 buy is dropped against the 11 ask, but it still serves as the
	// best bid when filtering sells: the single pass is not re-run.
	b := Book{
		{OrderNo: "1", Side: SideBuy}:  {Price: 12.0, Qty: 10, Side: SideBuy},
		{OrderNo: "2", Side: SideSell}: {Price: 11.0, Qty: 10, Side: SideSell},
		{OrderNo: "3", Side: SideSell}: {Price: 11.5, Qty: 10, Side: SideSell},
	}

	summary := b.Summarize()

	assert.Empty(t, summary.Buys)
	assert.Empty(t, summary.Sells)
}

func TestSummarizeOneSidedBook(t *testing.T) {
	b := Book{
		{OrderNo: "1", Side: SideBuy}: {Price: 10.0, Qty: 10, Side: SideBuy},
		{OrderNo: "2", Side: SideBuy}: {Price: 9.0, Qty: 20, Side: SideBuy},
	}

	summary := b.Summarize()

	assert.Equal(t, []float64{10.0, 9.0}, prices(summary.Buys))
	assert.Empty(t, summary.Sells)
}

func TestSummarizeEmptyBook(t *testing.T) {
	summary := Book{}.Summarize()

	assert.NotNil(t, summary.Buys)
	assert.NotNil(t, summary.Sells)
	assert.Empty(t, summary.Buys)
	assert.Empty(t, summary.Sells)
}

func prices(levels []PriceLevel) []float64 {
	out := make([]float64, 0, len(levels))
	for _, level := range levels {
		out = append(out, level.Price)
	}
	return out
}
