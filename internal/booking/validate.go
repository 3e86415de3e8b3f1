package booking

import (
	"regexp"
	"strings"

	"github.com/clearview-exteriors/booking-server/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	maxShortField = 200
	maxFreeText   = 2000
)

var (
	// Local part without whitespace or '@', then a domain without
	// whitespace that contains a dot.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// At least seven characters drawn from digits, hyphen, plus,
	// parentheses and spaces.
	phonePattern = regexp.MustCompile(`^[\d+\-()\s]{7,}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("booking_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("booking_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateSubmission checks a sanitized submission. Required fields are
// reported before format problems, and email before phone.
func (s *Service) validateSubmission(sub domain.Submission) error {
	required := []string{
		sub.Name, sub.Email, sub.Phone, sub.Address,
		sub.ServiceType, sub.PreferredDate, sub.PreferredTime,
	}
	for _, field := range required {
		if field == "" {
			return &ValidationError{Reason: reasonMissingFields}
		}
	}

	if err := s.validate.Var(sub.Email, "booking_email"); err != nil {
		return &ValidationError{Reason: reasonInvalidEmail}
	}
	if err := s.validate.Var(sub.Phone, "booking_phone"); err != nil {
		return &ValidationError{Reason: reasonInvalidPhone}
	}

	return nil
}

func sanitizeSubmission(sub domain.Submission) domain.Submission {
	sub.Name = sanitize(sub.Name, maxShortField)
	sub.Email = sanitize(sub.Email, maxShortField)
	sub.Phone = sanitize(sub.Phone, maxShortField)
	sub.Address = sanitize(sub.Address, maxShortField)
	sub.ServiceType = sanitize(sub.ServiceType, maxShortField)
	sub.PreferredDate = sanitize(sub.PreferredDate, maxShortField)
	sub.PreferredTime = sanitize(sub.PreferredTime, maxShortField)
	sub.Notes = sanitize(sub.Notes, maxFreeText)
	return sub
}

func sanitize(v string, max int) string {
	v = strings.TrimSpace(v)
	runes := []rune(v)
	if len(runes) > max {
		return string(runes[:max])
	}
	return v
}
