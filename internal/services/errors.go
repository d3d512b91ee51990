package services

import "errors"

// Feedback eligibility errors. Submit walks the per-(event, user) state
// machine Unregistered -> Registered -> Eligible -> Submitted and reports
// which transition is missing.
var (
	ErrNotRegistered     = errors.New("user is not registered for this event")
	ErrEventNotConcluded = errors.New("event has not concluded")
	ErrAlreadySubmitted  = errors.New("feedback already submitted for this event")
)
