package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Submission is a raw booking form submission as posted by the front end.
// All values arrive as strings; FormValue tolerates clients that post sqft
// as a bare JSON number.
type Submission struct {
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	ServiceType   string    `json:"serviceType"`
	Sqft          FormValue `json:"sqft,omitempty"`
	PreferredDate string    `json:"preferredDate"`
	PreferredTime string    `json:"preferredTime"`
	Notes         string    `json:"notes,omitempty"`
	// Website is the honeypot field. It is hidden on the form, so any
	// non-empty value marks the submission as automated.
	Website string `json:"website,omitempty"`
}

// FormValue is a form field that accepts either a JSON string or number.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = FormValue(s)
		return nil
	}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*v = ""
		return nil
	}
	*v = FormValue(raw)
	return nil
}

// Booking is the persisted record created from a valid submission.
// Records are append-only: nothing in the system updates or deletes them.
type Booking struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	ServiceType   string    `json:"service_type"`
	Sqft          *int64    `json:"sqft,omitempty"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
