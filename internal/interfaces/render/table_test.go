package render

import (
	"bytes"
	"strings"
	"testing"

	"main/internal/domain/entity/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummary(t *testing.T) {
	summary := book.Summary{
		Buys: []book.PriceLevel{
			{Price: 10.5, OrderCount: 2, TotalQty: 80},
			{Price: 9.0, OrderCount: 1, TotalQty: 20},
		},
		Sells: []book.PriceLevel{
			{Price: 12.0, OrderCount: 1, TotalQty: 40},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, summary))
	out := buf.String()

	assert.Contains(t, out, "Buy Orders")
	assert.Contains(t, out, "Sell Orders")
	assert.Contains(t, out, "PRICE")
	assert.Contains(t, out, "10.50")
	assert.Contains(t, out, "9.00")
	assert.Contains(t, out, "12.00")
	assert.Less(t, strings.Index(out, "Buy Orders"), strings.Index(out, "Sell Orders"))
}

func TestWriteSummaryEmptySide(t *testing.T) {
	summary := book.Summary{
		Buys:  []book.PriceLevel{{Price: 10.0, OrderCount: 1, TotalQty: 10}},
		Sells: []book.PriceLevel{},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, summary))

	assert.Contains(t, buf.String(), "(no resting orders)")
}
