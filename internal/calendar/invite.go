package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Compact UTC form used for DTSTAMP/DTSTART/DTEND.
	dateTimeLayout = "20060102T150405Z"
	inputLayout    = "2006-01-02 15:04"

	// Every appointment slot is one hour, regardless of service type.
	slotDuration = time.Hour
)

// Invite is a calendar event derived from an appointment window. It is
// never persisted; it is rebuilt for every email send.
type Invite struct {
	UID         string
	Summary     string
	Description string
	Stamp       time.Time
	Start       time.Time
	End         time.Time
}

// NewInvite builds an invite for the slot starting at date+timeOfDay
// interpreted in loc (server-local when nil). now drives UID and DTSTAMP
// generation and defaults to time.Now.
func NewInvite(summary, description, date, timeOfDay string, loc *time.Location, now func() time.Time) (Invite, error) {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	raw := strings.TrimSpace(date) + " " + strings.TrimSpace(timeOfDay)
	start, err := time.ParseInLocation(inputLayout, raw, loc)
	if err != nil {
		return Invite{}, fmt.Errorf("parse appointment time: %w", err)
	}

	ts := now()
	return Invite{
		UID:         fmt.Sprintf("%d-%s@bookings", ts.UnixNano(), uuid.NewString()),
		Summary:     summary,
		Description: description,
		Stamp:       ts.UTC(),
		Start:       start,
		End:         start.Add(slotDuration),
	}, nil
}

// Render produces the CRLF-joined VCALENDAR text block.
func (i Invite) Render() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//booking-server//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + i.UID,
		"DTSTAMP:" + i.Stamp.UTC().Format(dateTimeLayout),
		"DTSTART:" + i.Start.UTC().Format(dateTimeLayout),
		"DTEND:" + i.End.UTC().Format(dateTimeLayout),
		"SUMMARY:" + i.Summary,
		"DESCRIPTION:" + escapeText(i.Description),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func escapeText(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	return strings.ReplaceAll(v, "\n", `\n`)
}
