package models

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	valid := []string{"00:00", "07:30", "19:59", "23:59"}
	for _, s := range valid {
		if _, err := ParseClock(s); err != nil {
			t.Errorf("ParseClock(%q) failed: %v", s, err)
		}
	}

	invalid := []string{"", "24:00", "7:30", "12:60", "12:5", "ab:cd", "12.30", "12:30:00"}
	for _, s := range invalid {
		_, err := ParseClock(s)
		if err == nil {
			t.Errorf("ParseClock(%q) should fail", s)
		} else if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseClock(%q) returned %v, want ErrInvalidFormat", s, err)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeInterval
		want bool
	}{
		{"identical", TimeInterval{"07:00", "07:30"}, TimeInterval{"07:00", "07:30"}, true},
		{"partial overlap", TimeInterval{"07:00", "07:30"}, TimeInterval{"07:15", "07:45"}, true},
		{"contained", TimeInterval{"07:00", "09:00"}, TimeInterval{"07:30", "08:00"}, true},
		{"touching boundaries", TimeInterval{"07:00", "07:30"}, TimeInterval{"07:30", "08:00"}, false},
		{"disjoint", TimeInterval{"07:00", "07:30"}, TimeInterval{"08:00", "08:30"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// The test is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	d, err := TimeInterval{"07:00", "07:30"}.DurationMinutes()
	if err != nil {
		t.Fatalf("DurationMinutes failed: %v", err)
	}
	if d != 30 {
		t.Errorf("duration = %d, want 30", d)
	}

	d, err = TimeInterval{"00:00", "23:59"}.DurationMinutes()
	if err != nil {
		t.Fatalf("DurationMinutes failed: %v", err)
	}
	if d != 1439 {
		t.Errorf("duration = %d, want 1439", d)
	}

	if _, err := (TimeInterval{"09:00", "09:00"}).DurationMinutes(); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("zero-length interval returned %v, want ErrInvalidInterval", err)
	}
	if _, err := (TimeInterval{"10:00", "09:00"}).DurationMinutes(); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("inverted interval returned %v, want ErrInvalidInterval", err)
	}
	if _, err := (TimeInterval{"bad", "09:00"}).DurationMinutes(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("malformed start returned %v, want ErrInvalidFormat", err)
	}
}

func TestParseWeekday(t *testing.T) {
	for _, s := range []string{"monday", "mon"} {
		wd, err := ParseWeekday(s)
		if err != nil {
			t.Fatalf("ParseWeekday(%q) failed: %v", s, err)
		}
		if wd != Monday {
			t.Errorf("ParseWeekday(%q) = %s, want monday", s, wd)
		}
	}
	if _, err := ParseWeekday("someday"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseWeekday(someday) returned %v, want ErrInvalidInput", err)
	}
}
