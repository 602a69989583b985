package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/sneaker-shop/internal/checkout"
	"github.com/example/sneaker-shop/internal/order"
)

// QuotationMailer is satisfied by the email service.
type QuotationMailer interface {
	SendQuotationNotice(to string, snap checkout.Snapshot) error
}

// Handler turns quotation events into operator notifications.
type Handler struct {
	mailer       QuotationMailer
	operatorAddr string
}

func NewHandler(mailer QuotationMailer, operatorAddr string) *Handler {
	return &Handler{
		mailer:       mailer,
		operatorAddr: operatorAddr,
	}
}

// HandleEvent processes one event from the stream. Only QuotationRecorded
// triggers a notification; everything else is ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.Type != order.EventQuotationRecorded || event.Quotation == nil {
		return nil
	}

	snap := *event.Quotation
	if err := h.mailer.SendQuotationNotice(h.operatorAddr, snap); err != nil {
		log.Printf("[Notifier] Failed to send notice for quotation %s: %v", snap.ID, err)
		return err
	}

	log.Printf("[Notifier] Quotation notice sent for %s (total $%s)", snap.ID, snap.Total.StringFixed(2))
	return nil
}
