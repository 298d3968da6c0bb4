package replay

import (
	"testing"

	"main/internal/domain/entity/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecordStripsFloatFormatting(t *testing.T) {
	ev, err := NormalizeRecord(book.RawRecord{
		Action:      "N",
		Instrument:  "4343",
		BuyOrderNo:  "1023.0",
		SellOrderNo: "2048.00",
		SequenceNo:  7,
		Side:        "B",
		Price:       10.5,
		Qty:         50,
	})

	require.NoError(t, err)
	assert.Equal(t, "1023", ev.BuyOrderNo)
	assert.Equal(t, "2048", ev.SellOrderNo)
	assert.Equal(t, book.ActionNew, ev.Action)
	assert.Equal(t, book.SideBuy, ev.Side)
	assert.Equal(t, int64(7), ev.SequenceNo)
}

func TestNormalizeRecordPlainIntegerPassesThrough(t *testing.T) {
	ev, err := NormalizeRecord(book.RawRecord{BuyOrderNo: "42", Side: "S"})
	require.NoError(t, err)
	assert.Equal(t, "42", ev.BuyOrderNo)
}

func TestNormalizeRecordTrimsWhitespace(t *testing.T) {
	ev, err := NormalizeRecord(book.RawRecord{
		Action:     " N ",
		Instrument: " 4343 ",
		BuyOrderNo: " 100.0 ",
		Side:       " B ",
	})
	require.NoError(t, err)
	assert.Equal(t, book.ActionNew, ev.Action)
	assert.Equal(t, "4343", ev.Instrument)
	assert.Equal(t, "100", ev.BuyOrderNo)
	assert.Equal(t, book.SideBuy, ev.Side)
}

func TestNormalizeRecordEmptyOrderNoStaysEmpty(t *testing.T) {
	ev, err := NormalizeRecord(book.RawRecord{BuyOrderNo: "100", SellOrderNo: ""})
	require.NoError(t, err)
	assert.Equal(t, "", ev.SellOrderNo)
}

func TestNormalizeRecordRejectsFractionalOrderNo(t *testing.T) {
	_, err := NormalizeRecord(book.RawRecord{BuyOrderNo: "12.5"})
	assert.ErrorIs(t, err, errNotCleanInteger)
}

func TestNormalizeRecordRejectsNonNumericOrderNo(t *testing.T) {
	_, err := NormalizeRecord(book.RawRecord{SellOrderNo: "abc"})
	assert.ErrorIs(t, err, errNotCleanInteger)
}

func TestNormalizeRecordRejectsNaNAndInf(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		_, err := NormalizeRecord(book.RawRecord{BuyOrderNo: raw})
		assert.ErrorIs(t, err, errNotCleanInteger, raw)
	}
}
