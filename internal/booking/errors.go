package booking

// ValidationError reports a user-correctable problem with a submission.
// Its message is safe to return to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

const (
	reasonMissingFields = "missing required fields"
	reasonInvalidEmail  = "invalid email"
	reasonInvalidPhone  = "invalid phone"
)
