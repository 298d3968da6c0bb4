package replay

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"main/internal/domain/entity/book"
)

var errNotCleanInteger = errors.New("not a clean integer")

// NormalizeRecord coerces one raw record into its canonical event form.
// Order numbers may arrive float-encoded ("1023.0"); anything that does
// not reduce to a clean integer is rejected.
func NormalizeRecord(rec book.RawRecord) (book.OrderEvent, error) {
	buyNo, err := canonicalOrderNo(rec.BuyOrderNo)
	if err != nil {
		return book.OrderEvent{}, fmt.Errorf("buy order no %q: %w", rec.BuyOrderNo, err)
	}
	sellNo, err := canonicalOrderNo(rec.SellOrderNo)
	if err != nil {
		return book.OrderEvent{}, fmt.Errorf("sell order no %q: %w", rec.SellOrderNo, err)
	}

	return book.OrderEvent{
		Action:      book.Action(strings.TrimSpace(rec.Action)),
		Instrument:  strings.TrimSpace(rec.Instrument),
		BuyOrderNo:  buyNo,
		SellOrderNo: sellNo,
		SequenceNo:  rec.SequenceNo,
		RecordedAt:  rec.RecordedAt,
		Side:        book.Side(strings.TrimSpace(rec.Side)),
		Price:       rec.Price,
		Qty:         rec.Qty,
	}, nil
}

// canonicalOrderNo strips float formatting artifacts from an order number:
// "1023.0" becomes "1023". An empty field means the id is absent for this
// action and stays empty.
func canonicalOrderNo(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", errNotCleanInteger
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
		return "", errNotCleanInteger
	}
	return strconv.FormatInt(int64(value), 10), nil
}
