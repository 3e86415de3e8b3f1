package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clearview-exteriors/booking-server/internal/domain"
	"github.com/clearview-exteriors/booking-server/internal/storage"
)

// Ensure BookingStore implements the interface.
var _ storage.BookingStore = (*BookingStore)(nil)

// BookingStore is an in-memory implementation of storage.BookingStore,
// used by tests and local development.
type BookingStore struct {
	mu       sync.RWMutex
	nextID   int64
	bookings []domain.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{nextID: 1}
}

func (s *BookingStore) Append(_ context.Context, b domain.Booking) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	s.nextID++
	s.bookings = append(s.bookings, b)
	return b, nil
}

// Bookings returns a copy of every stored record in insertion order.
func (s *BookingStore) Bookings() []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}
