package models

import "fmt"

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists all days in Monday-first order. Day-keyed output
// (routine rendering, day stats) iterates this slice so the order is
// stable regardless of map iteration.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayAliases = map[string]Weekday{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
	"sun": Sunday, "sunday": Sunday,
}

// ParseWeekday accepts full or three-letter day names, case-sensitive lowercase.
func ParseWeekday(s string) (Weekday, error) {
	if wd, ok := weekdayAliases[s]; ok {
		return wd, nil
	}
	return "", fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}

func (w Weekday) String() string { return string(w) }
