// Package scheduling implements the engine's public contract: activity
// CRUD inside a user's weekly routine, with the interval-conflict rule
// re-validated on every mutation and all routine writes going through a
// bounded compare-and-swap loop against the store.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/routinely/routinely/internal/logger"
	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/storage"
	"github.com/routinely/routinely/internal/validation"
)

// casRetries bounds the conditional-write retry loop. Contention on a
// single user's routine is rare (one person, a handful of clients), so
// a small budget is plenty; exhaustion surfaces as ErrTransient.
const casRetries = 3

type Service struct {
	store storage.Provider
	now   func() time.Time
	newID func() string
}

func NewService(store storage.Provider) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// CreateActivityInput carries the validated request body for a create.
type CreateActivityInput struct {
	Start    string
	End      string
	Label    string
	Category string
	Color    string
}

// ListRoutine returns the user's full weekly routine. A routine that
// was never created, or whose buckets are all empty, is NotFound.
func (s *Service) ListRoutine(ctx context.Context, userID string) (models.Routine, error) {
	routine, err := s.store.GetRoutine(ctx, userID)
	if err != nil {
		return models.Routine{}, err
	}
	if !routine.HasActivities() {
		return models.Routine{}, fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, userID)
	}
	return routine, nil
}

// ListDay returns the day's activities in start-time order. An empty
// bucket is NotFound.
func (s *Service) ListDay(ctx context.Context, userID string, day models.Weekday) ([]models.Activity, error) {
	routine, err := s.store.GetRoutine(ctx, userID)
	if err != nil {
		return nil, err
	}
	bucket := routine.Day(day)
	if len(bucket) == 0 {
		return nil, fmt.Errorf("%w: no activity for %s", models.ErrNotFound, day)
	}
	return bucket, nil
}

func (s *Service) GetActivity(ctx context.Context, userID string, day models.Weekday, activityID string) (models.Activity, error) {
	routine, err := s.store.GetRoutine(ctx, userID)
	if err != nil {
		return models.Activity{}, err
	}
	return routine.FindActivity(day, activityID)
}

// CreateActivity validates the input, lazily creates the routine on
// first use, inserts into the day bucket and persists routine and
// activity record together. The activity record is written first so a
// failed routine write can compensate by deleting it, never leaving the
// record inconsistent with the bucket.
func (s *Service) CreateActivity(ctx context.Context, userID string, day models.Weekday, in CreateActivityInput) (models.Activity, error) {
	if err := validation.ActivityFields(in.Start, in.End, in.Label, in.Category); err != nil {
		return models.Activity{}, err
	}
	if err := validation.HexColor(in.Color); err != nil {
		return models.Activity{}, err
	}

	activity := models.Activity{
		ID:           s.newID(),
		UserID:       userID,
		Weekday:      day,
		TimeInterval: models.TimeInterval{Start: in.Start, End: in.End},
		Label:        in.Label,
		Category:     models.Category(in.Category),
		Color:        in.Color,
		CreatedAt:    s.now().UTC(),
	}
	duration, err := activity.DurationMinutes()
	if err != nil {
		return models.Activity{}, err
	}
	activity.DurationMin = duration

	for attempt := 0; attempt < casRetries; attempt++ {
		routine, err := s.store.GetRoutine(ctx, userID)
		created := false
		if errors.Is(err, models.ErrNotFound) {
			routine = models.NewRoutine(s.newID(), userID)
			created = true
		} else if err != nil {
			return models.Activity{}, err
		}

		activity.RoutineID = routine.ID
		if err := routine.InsertActivity(day, activity); err != nil {
			return models.Activity{}, err
		}

		if err := s.store.InsertActivity(ctx, activity); err != nil {
			return models.Activity{}, err
		}

		if created {
			err = s.store.InsertRoutine(ctx, routine)
		} else {
			expected := routine.Version
			routine.Version = expected + 1
			err = s.store.ReplaceRoutine(ctx, routine, expected)
		}
		if err == nil {
			logger.Debug("activity created", "user", userID, "day", day, "id", activity.ID)
			return activity, nil
		}

		// Compensate so the standalone record never outlives a failed
		// bucket write.
		if delErr := s.store.DeleteActivity(ctx, activity.ID); delErr != nil {
			logger.Error("failed to roll back activity record", "id", activity.ID, "error", delErr)
		}
		if !errors.Is(err, storage.ErrVersionMismatch) {
			return models.Activity{}, err
		}
	}
	return models.Activity{}, fmt.Errorf("%w: create activity for user %s", models.ErrTransient, userID)
}

// UpdateActivity applies a non-empty partial patch, re-deriving the
// duration and re-running the conflict check against the activity's
// siblings.
func (s *Service) UpdateActivity(ctx context.Context, userID string, day models.Weekday, activityID string, patch models.ActivityPatch) (models.Activity, error) {
	if err := validation.ActivityPatch(patch); err != nil {
		return models.Activity{}, err
	}

	var updated models.Activity
	err := s.mutateRoutine(ctx, userID, func(routine *models.Routine) error {
		var err error
		updated, err = routine.UpdateActivity(day, activityID, patch)
		return err
	})
	if err != nil {
		return models.Activity{}, err
	}

	if err := s.store.ReplaceActivity(ctx, updated); err != nil {
		return models.Activity{}, err
	}
	return updated, nil
}

// DeleteActivity removes the activity from its bucket and from the
// activity store. The lifetime counter keeps its value.
func (s *Service) DeleteActivity(ctx context.Context, userID string, day models.Weekday, activityID string) error {
	err := s.mutateRoutine(ctx, userID, func(routine *models.Routine) error {
		_, err := routine.RemoveActivity(day, activityID)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.store.DeleteActivity(ctx, activityID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}

// MarkCompleted toggles the completion flag. Marking complete writes an
// archival record; unmarking deletes the most recent one. The side
// effects always run: a caller double-marking gets a duplicate record
// (or a missing-record error on the way back), by documented contract.
// Only the owner (or an admin) may mark.
func (s *Service) MarkCompleted(ctx context.Context, caller models.Identity, activityID string, completed bool) (models.Activity, error) {
	activity, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return models.Activity{}, err
	}
	if !caller.CanAccess(activity.UserID) {
		return models.Activity{}, fmt.Errorf("%w: activity %s", models.ErrForbidden, activityID)
	}

	var updated models.Activity
	err = s.mutateRoutine(ctx, activity.UserID, func(routine *models.Routine) error {
		var ok bool
		updated, ok = routine.SetCompleted(activityID, completed)
		if !ok {
			return fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, activityID)
		}
		return nil
	})
	if err != nil {
		return models.Activity{}, err
	}

	if err := s.store.ReplaceActivity(ctx, updated); err != nil {
		return models.Activity{}, err
	}

	if completed {
		record := models.CompletedActivity{
			ID:          s.newID(),
			ActivityID:  updated.ID,
			Label:       updated.Label,
			DurationMin: updated.DurationMin,
			Category:    updated.Category,
			CompletedAt: s.now().UTC(),
		}
		if err := s.store.InsertCompletedActivity(ctx, record); err != nil {
			return models.Activity{}, err
		}
	} else {
		if err := s.store.DeleteLatestCompletedActivity(ctx, activityID); err != nil && !errors.Is(err, models.ErrNotFound) {
			return models.Activity{}, err
		}
	}
	return updated, nil
}

// mutateRoutine runs fn against a fresh load of the routine and writes
// it back conditionally, retrying from a fresh load on version
// mismatch.
func (s *Service) mutateRoutine(ctx context.Context, userID string, fn func(*models.Routine) error) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		routine, err := s.store.GetRoutine(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(&routine); err != nil {
			return err
		}
		expected := routine.Version
		routine.Version = expected + 1
		err = s.store.ReplaceRoutine(ctx, routine, expected)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrVersionMismatch) {
			return err
		}
		logger.Debug("routine write contention, retrying", "user", userID, "attempt", attempt+1)
	}
	return fmt.Errorf("%w: routine write for user %s", models.ErrTransient, userID)
}
