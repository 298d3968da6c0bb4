package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"main/internal/domain/entity/book"
)

// Column layout of a raw order log line. The files carry no header row.
const (
	colAction = iota
	colInstrument
	colBuyOrderNo
	colSellOrderNo
	colSequenceNo
	colRecordedAt
	colSide
	colPrice
	colQty

	columnCount
)

// ReadLog parses a headerless CSV order log into raw records. Any row
// with the wrong column count or an unparsable numeric field aborts the
// read; downstream replay never sees a partially parsed input.
func ReadLog(r io.Reader) ([]book.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columnCount
	reader.TrimLeadingSpace = true

	var records []book.RawRecord
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read log line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadLogFile reads and parses an order log from disk.
func ReadLogFile(path string) ([]book.RawRecord, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return ReadLog(f)
}

func parseRow(row []string) (book.RawRecord, error) {
	seqNo, err := strconv.ParseInt(strings.TrimSpace(row[colSequenceNo]), 10, 64)
	if err != nil {
		return book.RawRecord{}, fmt.Errorf("sequence no %q: %w", row[colSequenceNo], err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row[colPrice]), 64)
	if err != nil {
		return book.RawRecord{}, fmt.Errorf("price %q: %w", row[colPrice], err)
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(row[colQty]), 10, 64)
	if err != nil {
		return book.RawRecord{}, fmt.Errorf("qty %q: %w", row[colQty], err)
	}

	return book.RawRecord{
		Action:      strings.TrimSpace(row[colAction]),
		Instrument:  row[colInstrument],
		BuyOrderNo:  row[colBuyOrderNo],
		SellOrderNo: row[colSellOrderNo],
		SequenceNo:  seqNo,
		RecordedAt:  strings.TrimSpace(row[colRecordedAt]),
		Side:        strings.TrimSpace(row[colSide]),
		Price:       price,
		Qty:         qty,
	}, nil
}
