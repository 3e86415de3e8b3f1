package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clearview-exteriors/booking-server/internal/domain"
	"github.com/clearview-exteriors/booking-server/internal/mailer"
	"github.com/clearview-exteriors/booking-server/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

type failingStore struct{}

func (failingStore) Append(context.Context, domain.Booking) (domain.Booking, error) {
	return domain.Booking{}, errors.New("disk full")
}

func validSubmission() domain.Submission {
	return domain.Submission{
		Name:          "Jo",
		Email:         "jo@x.com",
		Phone:         "555-1212",
		Address:       "1 Main St",
		ServiceType:   "Driveway",
		PreferredDate: "2025-06-01",
		PreferredTime: "09:00",
	}
}

func newTestService(t *testing.T, opts Options) (*Service, *memory.BookingStore, *fakeSender) {
	t.Helper()
	store := memory.NewBookingStore()
	sender := &fakeSender{}
	if opts.Store == nil {
		opts.Store = store
	}
	if opts.Sender == nil {
		opts.Sender = sender
	}
	if opts.Brand == "" {
		opts.Brand = "ClearView Exterior Washing"
	}
	if opts.FromAddress == "" {
		opts.FromAddress = "bookings@clearview.example"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return New(opts), store, sender
}

func TestSubmitHappyPath(t *testing.T) {
	svc, store, sender := newTestService(t, Options{NotifyAddress: "owner@clearview.example"})

	sub := validSubmission()
	sub.Sqft = "1200"
	sub.Notes = "gate code 4411"

	before := time.Now().UTC()
	res, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.False(t, res.Discarded)

	records := store.Bookings()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Jo", rec.Name)
	assert.Equal(t, "jo@x.com", rec.Email)
	assert.Equal(t, "555-1212", rec.Phone)
	assert.Equal(t, "1 Main St", rec.Address)
	assert.Equal(t, "Driveway", rec.ServiceType)
	assert.Equal(t, "2025-06-01", rec.PreferredDate)
	assert.Equal(t, "09:00", rec.PreferredTime)
	assert.Equal(t, "gate code 4411", rec.Notes)
	require.NotNil(t, rec.Sqft)
	assert.Equal(t, int64(1200), *rec.Sqft)
	assert.False(t, rec.CreatedAt.Before(before.Add(-time.Second)))

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "owner@clearview.example", msgs[0].To)
	assert.Contains(t, msgs[0].Subject, "Driveway")
	assert.Equal(t, "jo@x.com", msgs[1].To)
	assert.Contains(t, msgs[1].Subject, "ClearView")
	for _, msg := range msgs {
		assert.Contains(t, msg.Calendar, "DTSTART:20250601T090000Z")
		assert.Contains(t, msg.Calendar, "DTEND:20250601T100000Z")
	}
}

func TestSubmitHoneypot(t *testing.T) {
	svc, store, sender := newTestService(t, Options{NotifyAddress: "owner@clearview.example"})

	sub := validSubmission()
	sub.Email = "not-an-email" // never reaches validation
	sub.Website = "http://spam.biz"

	res, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, res.Discarded)
	assert.Empty(t, store.Bookings())
	assert.Empty(t, sender.messages())
}

func TestSubmitMissingRequiredFields(t *testing.T) {
	blank := func(mutate func(*domain.Submission)) domain.Submission {
		sub := validSubmission()
		mutate(&sub)
		return sub
	}
	cases := map[string]domain.Submission{
		"name":          blank(func(s *domain.Submission) { s.Name = "" }),
		"email":         blank(func(s *domain.Submission) { s.Email = "  " }),
		"phone":         blank(func(s *domain.Submission) { s.Phone = "" }),
		"address":       blank(func(s *domain.Submission) { s.Address = "" }),
		"serviceType":   blank(func(s *domain.Submission) { s.ServiceType = "\t" }),
		"preferredDate": blank(func(s *domain.Submission) { s.PreferredDate = "" }),
		"preferredTime": blank(func(s *domain.Submission) { s.PreferredTime = "" }),
	}

	for name, sub := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store, sender := newTestService(t, Options{})
			_, err := svc.Submit(context.Background(), sub)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "missing required fields", vErr.Reason)
			assert.Empty(t, store.Bookings())
			assert.Empty(t, sender.messages())
		})
	}
}

func TestSubmitInvalidEmail(t *testing.T) {
	svc, store, _ := newTestService(t, Options{})
	sub := validSubmission()
	sub.Email = "not-an-email"

	_, err := svc.Submit(context.Background(), sub)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "invalid email", vErr.Reason)
	assert.Empty(t, store.Bookings())
}

func TestSubmitInvalidPhone(t *testing.T) {
	svc, store, _ := newTestService(t, Options{})
	sub := validSubmission()
	sub.Phone = "call me"

	_, err := svc.Submit(context.Background(), sub)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "invalid phone", vErr.Reason)
	assert.Empty(t, store.Bookings())
}

func TestSubmitNoNotifyAddress(t *testing.T) {
	svc, _, sender := newTestService(t, Options{})

	_, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "jo@x.com", msgs[0].To)
}

func TestSubmitEmailFailureStillSucceeds(t *testing.T) {
	store := memory.NewBookingStore()
	sender := &fakeSender{err: errors.New("smtp down")}
	svc, _, _ := newTestService(t, Options{Store: store, Sender: sender, NotifyAddress: "owner@clearview.example"})

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.Len(t, store.Bookings(), 1)
}

func TestSubmitStorageFailure(t *testing.T) {
	svc, _, sender := newTestService(t, Options{Store: failingStore{}})

	_, err := svc.Submit(context.Background(), validSubmission())
	require.Error(t, err)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
	assert.Empty(t, sender.messages(), "no email may be sent when persistence fails")
}

func TestSubmitSqftCoercion(t *testing.T) {
	cases := map[string]*int64{
		"1200":         ptr(int64(1200)),
		" 850 ":        ptr(int64(850)),
		"about 900":    nil,
		"":             nil,
		"12.5":         nil,
		"not a number": nil,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			svc, store, _ := newTestService(t, Options{})
			sub := validSubmission()
			sub.Sqft = domain.FormValue(raw)

			_, err := svc.Submit(context.Background(), sub)
			require.NoError(t, err)
			records := store.Bookings()
			require.Len(t, records, 1)
			if want == nil {
				assert.Nil(t, records[0].Sqft)
			} else {
				require.NotNil(t, records[0].Sqft)
				assert.Equal(t, *want, *records[0].Sqft)
			}
		})
	}
}

func TestSubmitBadDateSkipsInvite(t *testing.T) {
	svc, store, sender := newTestService(t, Options{NotifyAddress: "owner@clearview.example"})
	sub := validSubmission()
	sub.PreferredDate = "whenever"

	_, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Len(t, store.Bookings(), 1)

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.Empty(t, msg.Calendar)
	}
}

func TestSubmitSanitizesFields(t *testing.T) {
	svc, store, _ := newTestService(t, Options{})
	sub := validSubmission()
	sub.Name = "  Jo  "
	sub.Notes = strings.Repeat("x", 2500)

	_, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	records := store.Bookings()
	require.Len(t, records, 1)
	assert.Equal(t, "Jo", records[0].Name)
	assert.Len(t, records[0].Notes, 2000)
}

func ptr[T any](v T) *T { return &v }
