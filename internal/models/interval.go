package models

import (
	"fmt"
	"regexp"
)

// clockPattern matches 24-hour wall-clock times from 00:00 to 23:59.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeInterval is a half-open [start, end) wall-clock window within a
// single day. Both bounds are HH:MM strings; the fixed width makes
// lexicographic comparison equivalent to chronological comparison.
type TimeInterval struct {
	Start string `json:"startTime" bson:"startTime"`
	End   string `json:"endTime" bson:"endTime"`
}

// ValidClock reports whether s is a well-formed HH:MM time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ParseClock validates an HH:MM string.
func ParseClock(s string) (string, error) {
	if !ValidClock(s) {
		return "", fmt.Errorf("%w: time must be in HH:MM format, got %q", ErrInvalidFormat, s)
	}
	return s, nil
}

// Overlaps reports whether the two half-open intervals intersect.
// The test is symmetric and an interval always overlaps itself.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start < other.End && other.Start < i.End
}

// DurationMinutes returns the interval length in whole minutes. Fails
// unless end is strictly after start; midnight-spanning intervals are
// not representable.
func (i TimeInterval) DurationMinutes() (int, error) {
	start, err := clockToMinutes(i.Start)
	if err != nil {
		return 0, err
	}
	end, err := clockToMinutes(i.End)
	if err != nil {
		return 0, err
	}
	if end <= start {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, i.Start, i.End)
	}
	return end - start, nil
}

func clockToMinutes(s string) (int, error) {
	if !ValidClock(s) {
		return 0, fmt.Errorf("%w: time must be in HH:MM format, got %q", ErrInvalidFormat, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}
