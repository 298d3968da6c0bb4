package book

import "sort"

// OrderKey identifies a resting order. Malformed feeds can reuse one order
// number on both sides, so the side is part of the key.
type OrderKey struct {
	OrderNo string
	Side    Side
}

// RestingOrder is a live order awaiting a trade or cancellation. Qty is
// strictly positive for as long as the order is present in the book.
type RestingOrder struct {
	Price float64
	Qty   int64
	Side  Side
}

// Book maps resting orders by (order number, side). A book is owned by a
// single replay pass and is never shared or retained across passes.
type Book map[OrderKey]RestingOrder

// Replay folds events into a terminal book. Events are applied in
// ascending sequence-number order regardless of their input order; the
// sequence number, not file position, is the authoritative ordering.
func Replay(events []OrderEvent) Book {
	ordered := make([]OrderEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNo < ordered[j].SequenceNo
	})

	b := make(Book)
	for _, ev := range ordered {
		b.apply(ev)
	}
	return b
}

// apply executes one transition. New, Modify and Cancel key off the buy
// order number column with the record's own side flag; a Trade touches the
// buy and sell sides independently. Events referencing orders the captured
// window never saw are ignored, and unknown action codes fall through.
func (b Book) apply(ev OrderEvent) {
	switch ev.Action {
	case ActionNew:
		b.upsert(OrderKey{OrderNo: ev.BuyOrderNo, Side: ev.Side}, ev.Price, ev.Qty)
	case ActionModify:
		key := OrderKey{OrderNo: ev.BuyOrderNo, Side: ev.Side}
		if _, ok := b[key]; ok {
			b.upsert(key, ev.Price, ev.Qty)
		}
	case ActionCancel:
		b.reduce(OrderKey{OrderNo: ev.BuyOrderNo, Side: ev.Side}, ev.Qty)
	case ActionTrade:
		b.reduce(OrderKey{OrderNo: ev.BuyOrderNo, Side: SideBuy}, ev.Qty)
		b.reduce(OrderKey{OrderNo: ev.SellOrderNo, Side: SideSell}, ev.Qty)
	}
}

// upsert writes a resting order, keeping the book free of non-positive
// quantities: a New or Modify that leaves nothing resting removes the key.
func (b Book) upsert(key OrderKey, price float64, qty int64) {
	if qty <= 0 {
		delete(b, key)
		return
	}
	b[key] = RestingOrder{Price: price, Qty: qty, Side: key.Side}
}

// reduce shrinks a resting order's quantity, removing it once nothing is
// left. Unknown keys are ignored: the order may predate the captured log.
func (b Book) reduce(key OrderKey, qty int64) {
	order, ok := b[key]
	if !ok {
		return
	}
	order.Qty -= qty
	if order.Qty <= 0 {
		delete(b, key)
		return
	}
	b[key] = order
}
