package broker

import "main/internal/domain/entity/book"

// BaseMessage is the JSON envelope published to the order-record
// exchange. Fingerprint tags which capture the record belongs to; when
// empty, the consumer files the record under its session fingerprint.
type BaseMessage struct {
	Record      *book.RawRecord `json:"order_record,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
}
