// Package validation holds the input checks run before any mutation is
// attempted. Every check fails fast with a typed error so callers never
// see a partial write.
package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/routinely/routinely/internal/models"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ClockFormat checks an HH:MM wall-clock string.
func ClockFormat(s string) error {
	_, err := models.ParseClock(s)
	return err
}

// HexColor checks a #RGB or #RRGGBB color tag. Empty is allowed; color
// is the one optional field on an activity.
func HexColor(s string) error {
	if s == "" {
		return nil
	}
	if !hexColorPattern.MatchString(s) {
		return fmt.Errorf("%w: color must be a hex string, got %q", models.ErrInvalidFormat, s)
	}
	return nil
}

// CategoryName checks membership in the category enum.
func CategoryName(s string) error {
	if !models.ValidCategory(s) {
		return fmt.Errorf("%w: invalid category %q", models.ErrInvalidInput, s)
	}
	return nil
}

// ActivityFields checks the required create fields: interval bounds,
// label and category. Color is optional.
func ActivityFields(start, end, label, category string) error {
	if start == "" || end == "" || label == "" || category == "" {
		return fmt.Errorf("%w: startTime, endTime, activity and category are required", models.ErrInvalidInput)
	}
	if err := ClockFormat(start); err != nil {
		return err
	}
	if err := ClockFormat(end); err != nil {
		return err
	}
	return CategoryName(category)
}

// ActivityPatch checks whichever fields are present on a partial
// update. An empty patch is rejected outright.
func ActivityPatch(p models.ActivityPatch) error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: at least one of startTime, endTime, activity, category or color must be provided", models.ErrInvalidInput)
	}
	if p.Start != nil {
		if err := ClockFormat(*p.Start); err != nil {
			return err
		}
	}
	if p.End != nil {
		if err := ClockFormat(*p.End); err != nil {
			return err
		}
	}
	if p.Label != nil && *p.Label == "" {
		return fmt.Errorf("%w: activity label cannot be empty", models.ErrInvalidInput)
	}
	if p.Category != nil {
		if err := CategoryName(*p.Category); err != nil {
			return err
		}
	}
	if p.Color != nil {
		if err := HexColor(*p.Color); err != nil {
			return err
		}
	}
	return nil
}

// Timezone checks an IANA zone name. Empty means UTC and is valid.
func Timezone(tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: invalid timezone %q", models.ErrInvalidInput, tz)
	}
	return nil
}
