package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/routinely/routinely/internal/models"
)

// MemoryStore is the in-process backend. It backs the engine tests and
// ephemeral runs; the conditional-replace semantics are identical to
// the persistent backends.
type MemoryStore struct {
	mu         sync.RWMutex
	routines   map[string]models.Routine // keyed by user id
	activities map[string]models.Activity
	completed  []models.CompletedActivity
	users      map[string]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		routines:   make(map[string]models.Routine),
		activities: make(map[string]models.Activity),
		users:      make(map[string]models.User),
	}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetRoutine(ctx context.Context, userID string) (models.Routine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routine, ok := s.routines[userID]
	if !ok {
		return models.Routine{}, fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, userID)
	}
	return routine.Clone(), nil
}

func (s *MemoryStore) InsertRoutine(ctx context.Context, routine models.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routines[routine.UserID]; ok {
		return fmt.Errorf("routine already exists for user %s", routine.UserID)
	}
	s.routines[routine.UserID] = routine.Clone()
	return nil
}

func (s *MemoryStore) ReplaceRoutine(ctx context.Context, routine models.Routine, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.routines[routine.UserID]
	if !ok {
		return fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, routine.UserID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: have %d, want %d", ErrVersionMismatch, current.Version, expectedVersion)
	}
	s.routines[routine.UserID] = routine.Clone()
	return nil
}

func (s *MemoryStore) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routines := make([]models.Routine, 0, len(s.routines))
	for _, r := range s.routines {
		routines = append(routines, r.Clone())
	}
	sort.Slice(routines, func(i, j int) bool { return routines[i].UserID < routines[j].UserID })
	return routines, nil
}

func (s *MemoryStore) GetActivity(ctx context.Context, id string) (models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return models.Activity{}, fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, id)
	}
	return a, nil
}

func (s *MemoryStore) InsertActivity(ctx context.Context, activity models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[activity.ID] = activity
	return nil
}

func (s *MemoryStore) ReplaceActivity(ctx context.Context, activity models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[activity.ID]; !ok {
		return fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, activity.ID)
	}
	s.activities[activity.ID] = activity
	return nil
}

func (s *MemoryStore) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[id]; !ok {
		return fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, id)
	}
	delete(s.activities, id)
	return nil
}

func (s *MemoryStore) ListActivities(ctx context.Context) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activities := make([]models.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })
	return activities, nil
}

func (s *MemoryStore) ResetCompletedForUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, a := range s.activities {
		if a.UserID == userID && a.Completed {
			a.Completed = false
			s.activities[id] = a
			n++
		}
	}
	if routine, ok := s.routines[userID]; ok {
		clone := routine.Clone()
		clone.ResetCompleted()
		s.routines[userID] = clone
	}
	return n, nil
}

func (s *MemoryStore) InsertCompletedActivity(ctx context.Context, record models.CompletedActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, record)
	return nil
}

func (s *MemoryStore) DeleteLatestCompletedActivity(ctx context.Context, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest := -1
	for i, rec := range s.completed {
		if rec.ActivityID != activityID {
			continue
		}
		if latest == -1 || !rec.CompletedAt.Before(s.completed[latest].CompletedAt) {
			latest = i
		}
	}
	if latest == -1 {
		return fmt.Errorf("%w: no completed record for activity %s", models.ErrNotFound, activityID)
	}
	s.completed = append(s.completed[:latest], s.completed[latest+1:]...)
	return nil
}

func (s *MemoryStore) ListCompletedActivities(ctx context.Context) ([]models.CompletedActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CompletedActivity(nil), s.completed...), nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%w: no user with id %s", models.ErrNotFound, id)
	}
	return u, nil
}

func (s *MemoryStore) InsertUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user already exists with id %s", user.ID)
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
