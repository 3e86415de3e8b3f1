package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/clearview-exteriors/booking-server/internal/calendar"
	"github.com/clearview-exteriors/booking-server/internal/domain"
	"github.com/clearview-exteriors/booking-server/internal/lib/logger/sl"
	"github.com/clearview-exteriors/booking-server/internal/mailer"
	"github.com/clearview-exteriors/booking-server/internal/metrics"
	"github.com/clearview-exteriors/booking-server/internal/storage"
	"github.com/go-playground/validator/v10"
)

// Service handles booking submissions: honeypot screening, validation,
// persistence and the two notification emails.
type Service struct {
	store    storage.BookingStore
	sender   mailer.Sender
	metrics  *metrics.Metrics
	log      *slog.Logger
	validate *validator.Validate

	brand      string
	timezone   string
	fromAddr   string
	notifyAddr string
	loc        *time.Location
	now        func() time.Time
}

type Options struct {
	Store   storage.BookingStore
	Sender  mailer.Sender
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	Brand         string
	Timezone      string
	FromAddress   string
	NotifyAddress string
	// Location interprets preferredDate+preferredTime when building the
	// calendar invite. Defaults to the server's local zone.
	Location *time.Location
	Now      func() time.Time
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:      opts.Store,
		sender:     opts.Sender,
		metrics:    m,
		log:        logger,
		validate:   newValidator(),
		brand:      opts.Brand,
		timezone:   opts.Timezone,
		fromAddr:   opts.FromAddress,
		notifyAddr: opts.NotifyAddress,
		loc:        opts.Location,
		now:        now,
	}
}

// Result reports the outcome of a submission that was not rejected.
type Result struct {
	ID int64
	// Discarded is set when the honeypot tripped and nothing was stored.
	Discarded bool
}

// Submit runs the full booking workflow. Persistence must succeed before
// any email is attempted; a failed send is logged but never fails the
// submission, since the record is already durable.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (Result, error) {
	s.metrics.SubmissionsTotal.Inc()

	if strings.TrimSpace(sub.Website) != "" {
		s.metrics.HoneypotDiscards.Inc()
		s.log.Info("honeypot field filled, discarding submission")
		return Result{Discarded: true}, nil
	}

	sub = sanitizeSubmission(sub)
	if err := s.validateSubmission(sub); err != nil {
		s.metrics.ValidationRejections.Inc()
		return Result{}, err
	}

	record := domain.Booking{
		Name:          sub.Name,
		Email:         sub.Email,
		Phone:         sub.Phone,
		Address:       sub.Address,
		ServiceType:   sub.ServiceType,
		Sqft:          parseSqft(string(sub.Sqft)),
		PreferredDate: sub.PreferredDate,
		PreferredTime: sub.PreferredTime,
		Notes:         sub.Notes,
	}

	stored, err := s.store.Append(ctx, record)
	if err != nil {
		return Result{}, fmt.Errorf("append booking: %w", err)
	}
	s.metrics.BookingsCreated.Inc()
	s.log.Info("booking persisted",
		slog.Int64("id", stored.ID),
		slog.String("service_type", stored.ServiceType))

	s.sendNotifications(stored)

	return Result{ID: stored.ID}, nil
}

func (s *Service) sendNotifications(b domain.Booking) {
	invite := s.buildInvite(b)

	if s.notifyAddr != "" {
		s.send(mailer.Message{
			From:     s.fromAddr,
			To:       s.notifyAddr,
			Subject:  fmt.Sprintf("New booking request: %s on %s", b.ServiceType, b.PreferredDate),
			Body:     s.ownerBody(b),
			Calendar: invite,
		}, b.ID)
	}

	s.send(mailer.Message{
		From:     s.fromAddr,
		To:       b.Email,
		Subject:  fmt.Sprintf("Your %s booking request", s.brand),
		Body:     s.customerBody(b),
		Calendar: invite,
	}, b.ID)
}

func (s *Service) send(msg mailer.Message, bookingID int64) {
	if err := s.sender.Send(msg); err != nil {
		s.metrics.EmailFailures.Inc()
		s.log.Error("email send failed",
			slog.Int64("booking_id", bookingID),
			slog.String("to", msg.To),
			sl.Err(err))
		return
	}
	s.metrics.EmailsSent.Inc()
}

// buildInvite renders the calendar attachment, or "" when the appointment
// time does not parse; the emails then go out without an attachment.
func (s *Service) buildInvite(b domain.Booking) string {
	summary := fmt.Sprintf("%s: %s", s.brand, b.ServiceType)
	description := fmt.Sprintf("Service: %s\nName: %s\nPhone: %s\nAddress: %s\nNotes: %s",
		b.ServiceType, b.Name, b.Phone, b.Address, b.Notes)

	invite, err := calendar.NewInvite(summary, description, b.PreferredDate, b.PreferredTime, s.loc, s.now)
	if err != nil {
		s.log.Warn("calendar invite skipped",
			slog.Int64("booking_id", b.ID),
			sl.Err(err))
		return ""
	}
	return invite.Render()
}

func (s *Service) ownerBody(b domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking request for %s.\n\n", s.brand)
	fmt.Fprintf(&sb, "Name: %s\n", b.Name)
	fmt.Fprintf(&sb, "Email: %s\n", b.Email)
	fmt.Fprintf(&sb, "Phone: %s\n", b.Phone)
	fmt.Fprintf(&sb, "Address: %s\n", b.Address)
	fmt.Fprintf(&sb, "Service: %s\n", b.ServiceType)
	if b.Sqft != nil {
		fmt.Fprintf(&sb, "Approx. area: %d sqft\n", *b.Sqft)
	}
	fmt.Fprintf(&sb, "Preferred: %s %s (%s)\n", b.PreferredDate, b.PreferredTime, s.timezone)
	if b.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", b.Notes)
	}
	return sb.String()
}

func (s *Service) customerBody(b domain.Booking) string {
	return fmt.Sprintf(
		"Hi %s,\n\nThanks for requesting %s with %s.\n\n"+
			"We have you down for %s at %s and will reach out to confirm.\n\n"+
			"A calendar invite is attached.\n\n%s",
		b.Name, b.ServiceType, s.brand, b.PreferredDate, b.PreferredTime, s.brand)
}

// parseSqft coerces the optional square-footage field. Anything that is
// not an integer is treated as absent, never as an error.
func parseSqft(raw string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
