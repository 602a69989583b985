package order

import (
	"time"

	"github.com/example/sneaker-shop/internal/checkout"
)

const (
	EventQuotationRecorded      = "QuotationRecorded"
	EventQuotationStatusChanged = "QuotationStatusChanged"
)

// Event is the envelope published to the event stream for the notifier.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	Quotation *checkout.Snapshot `json:"quotation,omitempty"`

	// Set for status changes.
	QuotationID string `json:"quotation_id,omitempty"`
	Status      string `json:"status,omitempty"`
}
