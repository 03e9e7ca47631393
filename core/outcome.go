package core

// Status is the internal result variant of a single claim extraction.
type Status int

const (
	// StatusAbsent means there was no document or no such claim.
	StatusAbsent Status = iota
	// StatusPresent means the claim was found and coerced.
	StatusPresent
	// StatusFailed means the claim could not be used; Reason says why.
	// Callers of Resolve see it as absence.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusFailed:
		return "failed"
	default:
		return "absent"
	}
}

// Outcome is the detailed result of extracting one claim. It keeps the reason a
// value could not be produced, which the public resolution API collapses into
// plain absence.
type Outcome[T any] struct {
	Value  T
	Status Status
	Reason error
}

// Present reports whether the outcome carries a usable value.
func (o Outcome[T]) Present() bool {
	return o.Status == StatusPresent
}
