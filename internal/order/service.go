package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/sneaker-shop/internal/checkout"
)

// Publisher pushes quotation events onto the event stream. The Kafka producer
// under internal/infrastructure/kafka satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// Service records quotations and drives their status from the admin panel.
type Service struct {
	repo      Repository
	publisher Publisher
}

func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// RecordQuotation persists a snapshot produced by checkout. Persistence
// failures bubble up so the caller can leave the cart untouched for a retry;
// a publish failure is only logged since the record is already safe.
func (s *Service) RecordQuotation(ctx context.Context, snap checkout.Snapshot) error {
	if err := s.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to record quotation: %w", err)
	}

	if s.publisher != nil {
		event := Event{
			Type:       EventQuotationRecorded,
			OccurredAt: time.Now(),
			Quotation:  &snap,
		}
		if err := s.publisher.Publish(ctx, snap.ID, event); err != nil {
			log.Printf("[Orders] Failed to publish %s for %s: %v", EventQuotationRecorded, snap.ID, err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (checkout.Snapshot, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]checkout.Snapshot, error) {
	return s.repo.List(ctx)
}

// UpdateStatus moves a quotation to a known lifecycle label.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrUnknownStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	if s.publisher != nil {
		event := Event{
			Type:        EventQuotationStatusChanged,
			OccurredAt:  time.Now(),
			QuotationID: id,
			Status:      status,
		}
		if err := s.publisher.Publish(ctx, id, event); err != nil {
			log.Printf("[Orders] Failed to publish %s for %s: %v", EventQuotationStatusChanged, id, err)
		}
	}
	return nil
}
