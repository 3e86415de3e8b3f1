package storage

import (
	"context"
	"errors"

	"github.com/clearview-exteriors/booking-server/internal/domain"
)

var ErrNotFound = errors.New("booking not found")

// BookingStore persists booking records. Append is the only operation the
// booking workflow needs; it must be safe under concurrent calls.
type BookingStore interface {
	Append(ctx context.Context, b domain.Booking) (domain.Booking, error)
}
