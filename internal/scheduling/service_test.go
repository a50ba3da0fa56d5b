package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/storage"
)

func setupService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return NewService(store), store
}

func mustCreate(t *testing.T, svc *Service, userID string, day models.Weekday, start, end, label string) models.Activity {
	t.Helper()
	activity, err := svc.CreateActivity(context.Background(), userID, day, CreateActivityInput{
		Start:    start,
		End:      end,
		Label:    label,
		Category: "health",
	})
	if err != nil {
		t.Fatalf("create %q failed: %v", label, err)
	}
	return activity
}

func TestCreateActivityLazyRoutine(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")
	if activity.DurationMin != 30 {
		t.Errorf("duration = %d, want 30", activity.DurationMin)
	}

	routine, err := store.GetRoutine(ctx, "user-1")
	if err != nil {
		t.Fatalf("routine was not created: %v", err)
	}
	if routine.LifetimeActivities != 1 {
		t.Errorf("lifetime counter = %d, want 1", routine.LifetimeActivities)
	}
	if activity.RoutineID != routine.ID {
		t.Errorf("activity routine id = %s, want %s", activity.RoutineID, routine.ID)
	}

	// The standalone record exists too.
	if _, err := store.GetActivity(ctx, activity.ID); err != nil {
		t.Errorf("activity record missing: %v", err)
	}
}

func TestCreateActivityConflict(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	_, err := svc.CreateActivity(ctx, "user-1", models.Monday, CreateActivityInput{
		Start: "07:15", End: "07:45", Label: "Call", Category: "work",
	})
	if !errors.Is(err, models.ErrTimeConflict) {
		t.Fatalf("overlapping create returned %v, want ErrTimeConflict", err)
	}

	day, err := svc.ListDay(ctx, "user-1", models.Monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(day) != 1 {
		t.Errorf("bucket has %d activities after failed create, want 1", len(day))
	}
}

func TestCreateActivityValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateActivityInput
		want error
	}{
		{"missing label", CreateActivityInput{Start: "07:00", End: "07:30", Category: "health"}, models.ErrInvalidInput},
		{"bad time", CreateActivityInput{Start: "07:60", End: "08:00", Label: "x", Category: "health"}, models.ErrInvalidFormat},
		{"unknown category", CreateActivityInput{Start: "07:00", End: "07:30", Label: "x", Category: "nap"}, models.ErrInvalidInput},
		{"zero-length interval", CreateActivityInput{Start: "09:00", End: "09:00", Label: "x", Category: "health"}, models.ErrInvalidInterval},
		{"bad color", CreateActivityInput{Start: "07:00", End: "07:30", Label: "x", Category: "health", Color: "red"}, models.ErrInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateActivity(ctx, "user-1", models.Monday, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}

	// Nothing was persisted by the rejected creates.
	if _, err := svc.ListRoutine(ctx, "user-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("routine exists after failed creates: %v", err)
	}
}

func TestListDayOrdering(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")
	mustCreate(t, svc, "user-1", models.Monday, "08:00", "08:30", "Plan")
	mustCreate(t, svc, "user-1", models.Monday, "06:00", "06:30", "Stretch")

	day, err := svc.ListDay(ctx, "user-1", models.Monday)
	if err != nil {
		t.Fatal(err)
	}
	wantStarts := []string{"06:00", "07:00", "08:00"}
	if len(day) != 3 {
		t.Fatalf("got %d activities, want 3", len(day))
	}
	for i, want := range wantStarts {
		if day[i].Start != want {
			t.Errorf("day[%d].Start = %s, want %s", i, day[i].Start, want)
		}
	}

	if _, err := svc.ListDay(ctx, "user-1", models.Tuesday); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("empty day returned %v, want ErrNotFound", err)
	}
}

func TestUpdateActivity(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	if _, err := svc.UpdateActivity(ctx, "user-1", models.Monday, activity.ID, models.ActivityPatch{}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty patch returned %v, want ErrInvalidInput", err)
	}

	end := "08:00"
	updated, err := svc.UpdateActivity(ctx, "user-1", models.Monday, activity.ID, models.ActivityPatch{End: &end})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DurationMin != 60 {
		t.Errorf("duration = %d, want 60", updated.DurationMin)
	}

	// The standalone record follows the bucket.
	record, err := store.GetActivity(ctx, activity.ID)
	if err != nil {
		t.Fatal(err)
	}
	if record.End != "08:00" || record.DurationMin != 60 {
		t.Errorf("record not updated: %s-%s %dm", record.Start, record.End, record.DurationMin)
	}

	if _, err := svc.UpdateActivity(ctx, "user-1", models.Monday, "missing", models.ActivityPatch{End: &end}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown id returned %v, want ErrNotFound", err)
	}
}

func TestDeleteActivityIdempotence(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	if err := svc.DeleteActivity(ctx, "user-1", models.Monday, activity.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetActivity(ctx, activity.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("record survived delete: %v", err)
	}

	// Second delete is a clean NotFound, not a crash.
	if err := svc.DeleteActivity(ctx, "user-1", models.Monday, activity.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete returned %v, want ErrNotFound", err)
	}

	// The counter kept its value, but the routine no longer lists.
	routine, err := store.GetRoutine(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if routine.LifetimeActivities != 1 {
		t.Errorf("lifetime counter = %d, want 1", routine.LifetimeActivities)
	}
	if _, err := svc.ListRoutine(ctx, "user-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ListRoutine on emptied routine returned %v, want ErrNotFound", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()
	owner := models.Identity{UserID: "user-1", Role: models.RoleUser}

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	updated, err := svc.MarkCompleted(ctx, owner, activity.ID, true)
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if !updated.Completed {
		t.Error("activity not marked completed")
	}

	records, err := store.ListCompletedActivities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d archival records, want 1", len(records))
	}
	if records[0].ActivityID != activity.ID || records[0].DurationMin != 30 {
		t.Errorf("archival record wrong: %+v", records[0])
	}

	// Unmark deletes the archival record again.
	updated, err = svc.MarkCompleted(ctx, owner, activity.ID, false)
	if err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	if updated.Completed {
		t.Error("activity still completed after unmark")
	}
	records, err = store.ListCompletedActivities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("got %d archival records after unmark, want 0", len(records))
	}
}

func TestMarkCompletedSideEffectsAlwaysRun(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()
	owner := models.Identity{UserID: "user-1", Role: models.RoleUser}

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	// Double-marking is not guarded: each call writes a record.
	if _, err := svc.MarkCompleted(ctx, owner, activity.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkCompleted(ctx, owner, activity.ID, true); err != nil {
		t.Fatal(err)
	}
	records, err := store.ListCompletedActivities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("got %d archival records after double mark, want 2", len(records))
	}
}

func TestMarkCompletedOwnership(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	stranger := models.Identity{UserID: "user-2", Role: models.RoleUser}
	if _, err := svc.MarkCompleted(ctx, stranger, activity.ID, true); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger mark returned %v, want ErrForbidden", err)
	}

	admin := models.Identity{UserID: "user-2", Role: models.RoleAdmin}
	if _, err := svc.MarkCompleted(ctx, admin, activity.ID, true); err != nil {
		t.Errorf("admin mark failed: %v", err)
	}
}

// flakyStore injects version-mismatch failures to exercise the CAS
// retry loop.
type flakyStore struct {
	*storage.MemoryStore
	failures int
}

func (s *flakyStore) ReplaceRoutine(ctx context.Context, routine models.Routine, expectedVersion int64) error {
	if s.failures > 0 {
		s.failures--
		return storage.ErrVersionMismatch
	}
	return s.MemoryStore.ReplaceRoutine(ctx, routine, expectedVersion)
}

func TestRoutineWriteContention(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	svc := NewService(flaky)

	activity := mustCreate(t, svc, "user-1", models.Monday, "07:00", "07:30", "Run")

	// Two mismatches are absorbed by retries.
	flaky.failures = 2
	end := "08:00"
	if _, err := svc.UpdateActivity(ctx, "user-1", models.Monday, activity.ID, models.ActivityPatch{End: &end}); err != nil {
		t.Fatalf("update under contention failed: %v", err)
	}

	// Exhausting the budget surfaces as a transient error.
	flaky.failures = 10
	if _, err := svc.UpdateActivity(ctx, "user-1", models.Monday, activity.ID, models.ActivityPatch{End: &end}); !errors.Is(err, models.ErrTransient) {
		t.Errorf("exhausted retries returned %v, want ErrTransient", err)
	}
}
