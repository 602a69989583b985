package order

import (
	"context"
	"errors"

	"github.com/example/sneaker-shop/internal/checkout"
)

// Quotation lifecycle. Every record starts pending; staff move it along from
// the admin panel. These are labels for humans, not a guarded state machine.
const (
	StatusPending   = checkout.StatusQuotationPending
	StatusContacted = "contacted"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var (
	ErrNotFound      = errors.New("quotation not found")
	ErrUnknownStatus = errors.New("unknown quotation status")
)

// ValidStatus reports whether s is one of the known lifecycle labels.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusContacted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Repository is the order-record collaborator: write-once snapshots plus the
// reads the admin panel needs.
type Repository interface {
	Save(ctx context.Context, snap checkout.Snapshot) error
	Get(ctx context.Context, id string) (checkout.Snapshot, error)
	List(ctx context.Context) ([]checkout.Snapshot, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
