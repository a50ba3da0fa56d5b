package models

import "errors"

// Domain error taxonomy. Callers mapping these to a transport layer
// should treat ErrNotFound and ErrTimeConflict as expected outcomes,
// not failures.
var (
	// ErrNotFound covers absent routines, empty day buckets and unknown
	// activity ids.
	ErrNotFound = errors.New("not found")

	// ErrTimeConflict is returned when an activity's interval overlaps an
	// existing activity in the same day bucket.
	ErrTimeConflict = errors.New("time conflict with existing activity")

	// ErrInvalidInput covers missing required fields, empty patches and
	// unknown categories or weekdays.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFormat covers malformed HH:MM strings and hex colors.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidInterval is returned when an interval's end is not
	// strictly after its start.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrForbidden is returned on an ownership mismatch.
	ErrForbidden = errors.New("no permission to modify this activity")

	// ErrTransient is returned when conditional-write contention
	// exhausted the retry budget; the operation is safe to retry.
	ErrTransient = errors.New("storage contention, retry")
)
