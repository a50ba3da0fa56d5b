package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/storage"
)

func seedDemographics(t *testing.T, store *storage.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	users := []models.User{
		{ID: "u1", Nationality: "TR", Gender: models.GenderMale, Birthdate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "u2", Nationality: "TR", Gender: models.GenderFemale, Birthdate: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)},
		{ID: "u3", Nationality: "DE", Gender: models.GenderNone, Birthdate: time.Date(1985, 3, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, u := range users {
		if err := store.InsertUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	slice, page, err := paginate(items, 2, 2)
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(slice) != 2 || slice[0] != 3 || slice[1] != 4 {
		t.Errorf("page 2 = %v, want [3 4]", slice)
	}
	if page.TotalPages != 3 || page.TotalResults != 5 {
		t.Errorf("page meta wrong: %+v", page)
	}

	// The last page is short.
	slice, _, err = paginate(items, 3, 2)
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(slice) != 1 || slice[0] != 5 {
		t.Errorf("last page = %v, want [5]", slice)
	}

	if _, _, err := paginate(items, 4, 2); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("page past end returned %v, want ErrNotFound", err)
	}
	if _, _, err := paginate(items, 0, 2); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("page 0 returned %v, want ErrInvalidInput", err)
	}
	if _, _, err := paginate(items, 1, 0); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("limit 0 returned %v, want ErrInvalidInput", err)
	}
}

func TestNationalityStats(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	agg := New(store)

	if _, _, err := agg.NationalityStats(ctx, 1, 10); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("empty store returned %v, want ErrNotFound", err)
	}

	seedDemographics(t, store)
	out, page, err := agg.NationalityStats(ctx, 1, 10)
	if err != nil {
		t.Fatalf("nationality stats failed: %v", err)
	}
	if page.TotalResults != 2 {
		t.Errorf("total results = %d, want 2", page.TotalResults)
	}
	if len(out) != 2 || out[0].Nationality != "DE" || out[1].Nationality != "TR" {
		t.Fatalf("order wrong: %+v", out)
	}
	tr := out[1]
	if tr.Total != 2 || tr.Male != 1 || tr.Female != 1 || tr.None != 0 {
		t.Errorf("TR split wrong: %+v", tr)
	}
}

func TestBirthdateStats(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	seedDemographics(t, store)
	agg := New(store)

	out, _, err := agg.BirthdateStats(ctx, 1, 10)
	if err != nil {
		t.Fatalf("birthdate stats failed: %v", err)
	}
	if len(out) != 2 || out[0].Year != 1985 || out[1].Year != 1990 {
		t.Fatalf("year order wrong: %+v", out)
	}
	if out[1].Users != 2 {
		t.Errorf("1990 count = %d, want 2", out[1].Users)
	}
}

func TestRegistrationStats(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	seedDemographics(t, store)
	agg := New(store)

	out, _, err := agg.RegistrationStats(ctx, 1, 10)
	if err != nil {
		t.Fatalf("registration stats failed: %v", err)
	}
	// Years ascend, months descend within a year.
	want := []RegistrationStat{
		{Year: 2025, Month: 11, Users: 1},
		{Year: 2026, Month: 3, Users: 1},
		{Year: 2026, Month: 1, Users: 1},
	}
	if len(out) != len(want) {
		t.Fatalf("got %d rows, want %d", len(out), len(want))
	}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("row %d = %+v, want %+v", i, out[i], w)
		}
	}
}
