package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `N,4343,1023.0,,1,1596193114,B,10.50,50
N,4343,,2048.0,2,1596193115,S,12.00,30
T,4343,1023.0,2048.0,3,1596193116,B,12.00,10
`

func TestReadLogParsesRows(t *testing.T) {
	records, err := ReadLog(strings.NewReader(sampleLog))

	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "N", first.Action)
	assert.Equal(t, "4343", first.Instrument)
	assert.Equal(t, "1023.0", first.BuyOrderNo)
	assert.Equal(t, "", first.SellOrderNo)
	assert.Equal(t, int64(1), first.SequenceNo)
	assert.Equal(t, "1596193114", first.RecordedAt)
	assert.Equal(t, "B", first.Side)
	assert.Equal(t, 10.50, first.Price)
	assert.Equal(t, int64(50), first.Qty)

	trade := records[2]
	assert.Equal(t, "T", trade.Action)
	assert.Equal(t, "1023.0", trade.BuyOrderNo)
	assert.Equal(t, "2048.0", trade.SellOrderNo)
}

func TestReadLogEmptyInput(t *testing.T) {
	records, err := ReadLog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadLogRejectsWrongColumnCount(t *testing.T) {
	_, err := ReadLog(strings.NewReader("N,4343,100,,1,1596193114,B,10.50\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadLogRejectsBadSequenceNo(t *testing.T) {
	_, err := ReadLog(strings.NewReader("N,4343,100,,abc,1596193114,B,10.50,50\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence no")
}

func TestReadLogRejectsBadPrice(t *testing.T) {
	_, err := ReadLog(strings.NewReader("N,4343,100,,1,1596193114,B,cheap,50\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestReadLogRejectsBadQty(t *testing.T) {
	_, err := ReadLog(strings.NewReader("N,4343,100,,1,1596193114,B,10.50,many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qty")
}

func TestReadLogReportsFailingLine(t *testing.T) {
	input := sampleLog + "N,4343,100,,bad,1596193117,B,10.50,50\n"
	_, err := ReadLog(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}
