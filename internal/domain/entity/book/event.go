package book

// Action is the single-character order-action code carried by the raw log.
type Action string

const (
	ActionNew    Action = "N"
	ActionModify Action = "M"
	ActionCancel Action = "X"
	ActionTrade  Action = "T"
)

// Side marks which half of the book a record belongs to.
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "S"
)

// RawRecord is one parsed line of a raw order-action log, before
// normalization. Order numbers stay strings here because upstream encoders
// are known to leak float formatting into them ("1023.0").
type RawRecord struct {
	Action      string  `json:"action"`
	Instrument  string  `json:"instrument"`
	BuyOrderNo  string  `json:"buy_order_no"`
	SellOrderNo string  `json:"sell_order_no"`
	SequenceNo  int64   `json:"sequence_no"`
	RecordedAt  string  `json:"recorded_at"`
	Side        string  `json:"side"`
	Price       float64 `json:"price"`
	Qty         int64   `json:"qty"`
}

// OrderEvent is a normalized record: order numbers canonicalized to plain
// integer form, codes and instrument trimmed. Immutable once produced.
type OrderEvent struct {
	Action      Action  `json:"action"`
	Instrument  string  `json:"instrument"`
	BuyOrderNo  string  `json:"buy_order_no"`
	SellOrderNo string  `json:"sell_order_no"`
	SequenceNo  int64   `json:"sequence_no"`
	RecordedAt  string  `json:"recorded_at"`
	Side        Side    `json:"side"`
	Price       float64 `json:"price"`
	Qty         int64   `json:"qty"`
}
