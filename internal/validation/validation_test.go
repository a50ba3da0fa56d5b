package validation

import (
	"errors"
	"testing"

	"github.com/routinely/routinely/internal/models"
)

func TestHexColor(t *testing.T) {
	for _, s := range []string{"", "#fff", "#FFAA00", "#1a2b3c"} {
		if err := HexColor(s); err != nil {
			t.Errorf("HexColor(%q) failed: %v", s, err)
		}
	}
	for _, s := range []string{"fff", "#ggg", "#12345", "#1234567", "red"} {
		if err := HexColor(s); !errors.Is(err, models.ErrInvalidFormat) {
			t.Errorf("HexColor(%q) returned %v, want ErrInvalidFormat", s, err)
		}
	}
}

func TestActivityFields(t *testing.T) {
	if err := ActivityFields("07:00", "07:30", "Run", "health"); err != nil {
		t.Errorf("valid fields failed: %v", err)
	}

	if err := ActivityFields("", "07:30", "Run", "health"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("missing start returned %v, want ErrInvalidInput", err)
	}
	if err := ActivityFields("07:00", "07:30", "", "health"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("missing label returned %v, want ErrInvalidInput", err)
	}
	if err := ActivityFields("7:00", "07:30", "Run", "health"); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("bad time returned %v, want ErrInvalidFormat", err)
	}
	if err := ActivityFields("07:00", "07:30", "Run", "chores"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("unknown category returned %v, want ErrInvalidInput", err)
	}
}

func TestActivityPatch(t *testing.T) {
	if err := ActivityPatch(models.ActivityPatch{}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty patch returned %v, want ErrInvalidInput", err)
	}

	start := "07:00"
	if err := ActivityPatch(models.ActivityPatch{Start: &start}); err != nil {
		t.Errorf("start-only patch failed: %v", err)
	}

	bad := "25:00"
	if err := ActivityPatch(models.ActivityPatch{Start: &bad}); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("bad start returned %v, want ErrInvalidFormat", err)
	}

	empty := ""
	if err := ActivityPatch(models.ActivityPatch{Label: &empty}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty label returned %v, want ErrInvalidInput", err)
	}

	category := "sport"
	if err := ActivityPatch(models.ActivityPatch{Category: &category}); err != nil {
		t.Errorf("category patch failed: %v", err)
	}
}

func TestTimezone(t *testing.T) {
	for _, tz := range []string{"", "UTC", "Europe/Istanbul", "America/New_York"} {
		if err := Timezone(tz); err != nil {
			t.Errorf("Timezone(%q) failed: %v", tz, err)
		}
	}
	if err := Timezone("Mars/Olympus"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("invalid zone returned %v, want ErrInvalidInput", err)
	}
}
