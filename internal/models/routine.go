package models

import (
	"fmt"
	"sort"
)

// Routine is the unit of optimistic mutation: one document per user
// holding the seven day buckets and the lifetime counter. Version is
// the conditional-replace token; every successful write increments it.
type Routine struct {
	ID      string `json:"id" bson:"_id"`
	UserID  string `json:"userId" bson:"userId"`
	Version int64  `json:"version" bson:"version"`
	// LifetimeActivities counts every activity ever created for this
	// routine. Deletions do not decrement it.
	LifetimeActivities int                    `json:"allTimeActivities" bson:"allTimeActivities"`
	Days               map[Weekday][]Activity `json:"days" bson:"days"`
}

// NewRoutine returns an empty routine for the user. Routines are
// created lazily on the first activity insertion.
func NewRoutine(id, userID string) Routine {
	return Routine{
		ID:     id,
		UserID: userID,
		Days:   make(map[Weekday][]Activity),
	}
}

// Day returns the bucket for the given weekday, which may be empty.
func (r *Routine) Day(day Weekday) []Activity {
	return r.Days[day]
}

// HasActivities reports whether any day bucket is non-empty. This, not
// the lifetime counter, is the routine-existence test: the counter
// never decrements, so it stays positive after the last delete.
func (r *Routine) HasActivities() bool {
	for _, bucket := range r.Days {
		if len(bucket) > 0 {
			return true
		}
	}
	return false
}

// InsertActivity adds the activity to its weekday bucket after checking
// it against every existing activity in that bucket. On conflict the
// bucket is left untouched. The bucket is re-sorted by start time after
// the append so order is a stored guarantee, not a read-time
// computation. The lifetime counter increments on success.
func (r *Routine) InsertActivity(day Weekday, a Activity) error {
	for _, existing := range r.Days[day] {
		if existing.Overlaps(a.TimeInterval) {
			return fmt.Errorf("%w: %s-%s overlaps %q (%s-%s)",
				ErrTimeConflict, a.Start, a.End, existing.Label, existing.Start, existing.End)
		}
	}
	if r.Days == nil {
		r.Days = make(map[Weekday][]Activity)
	}
	r.Days[day] = append(r.Days[day], a)
	sortBucket(r.Days[day])
	r.LifetimeActivities++
	return nil
}

// UpdateActivity applies the patch to the activity with the given id.
// A patched interval is re-validated against every other activity in
// the bucket; the activity itself is excluded so updates that keep the
// interval (or shrink it in place) never self-conflict. On any error
// the bucket is unchanged.
func (r *Routine) UpdateActivity(day Weekday, activityID string, patch ActivityPatch) (Activity, error) {
	idx := indexOf(r.Days[day], activityID)
	if idx < 0 {
		return Activity{}, fmt.Errorf("%w: no activity %s for %s", ErrNotFound, activityID, day)
	}

	updated := r.Days[day][idx]
	if patch.Start != nil {
		updated.Start = *patch.Start
	}
	if patch.End != nil {
		updated.End = *patch.End
	}
	if patch.Label != nil {
		updated.Label = *patch.Label
	}
	if patch.Category != nil {
		updated.Category = Category(*patch.Category)
	}
	if patch.Color != nil {
		updated.Color = *patch.Color
	}

	duration, err := updated.DurationMinutes()
	if err != nil {
		return Activity{}, err
	}
	updated.DurationMin = duration

	for _, existing := range r.Days[day] {
		if existing.ID == activityID {
			continue
		}
		if existing.Overlaps(updated.TimeInterval) {
			return Activity{}, fmt.Errorf("%w: %s-%s overlaps %q (%s-%s)",
				ErrTimeConflict, updated.Start, updated.End, existing.Label, existing.Start, existing.End)
		}
	}

	r.Days[day][idx] = updated
	sortBucket(r.Days[day])
	return updated, nil
}

// RemoveActivity deletes the activity from its bucket, preserving the
// order of the remainder. The lifetime counter is untouched.
func (r *Routine) RemoveActivity(day Weekday, activityID string) (Activity, error) {
	idx := indexOf(r.Days[day], activityID)
	if idx < 0 {
		return Activity{}, fmt.Errorf("%w: no activity %s for %s", ErrNotFound, activityID, day)
	}
	removed := r.Days[day][idx]
	r.Days[day] = append(r.Days[day][:idx], r.Days[day][idx+1:]...)
	return removed, nil
}

// FindActivity looks the activity up by id within one bucket.
func (r *Routine) FindActivity(day Weekday, activityID string) (Activity, error) {
	idx := indexOf(r.Days[day], activityID)
	if idx < 0 {
		return Activity{}, fmt.Errorf("%w: no activity %s for %s", ErrNotFound, activityID, day)
	}
	return r.Days[day][idx], nil
}

// SetCompleted flips the completion flag on the activity wherever it
// lives, returning the updated copy. The second return is false when
// the id is not present in any bucket.
func (r *Routine) SetCompleted(activityID string, completed bool) (Activity, bool) {
	for day, bucket := range r.Days {
		for i, a := range bucket {
			if a.ID == activityID {
				r.Days[day][i].Completed = completed
				return r.Days[day][i], true
			}
		}
	}
	return Activity{}, false
}

// ResetCompleted clears the completion flag on every activity across
// all buckets, returning how many were flipped.
func (r *Routine) ResetCompleted() int {
	n := 0
	for day, bucket := range r.Days {
		for i, a := range bucket {
			if a.Completed {
				r.Days[day][i].Completed = false
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy. Stores hand out clones so callers cannot
// alias the stored buckets.
func (r Routine) Clone() Routine {
	c := r
	c.Days = make(map[Weekday][]Activity, len(r.Days))
	for day, bucket := range r.Days {
		c.Days[day] = append([]Activity(nil), bucket...)
	}
	return c
}

func indexOf(bucket []Activity, activityID string) int {
	for i, a := range bucket {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

// sortBucket keeps the bucket ascending by start time. The sort is
// stable; equal starts cannot survive the conflict check anyway, but
// stability keeps insertion order deterministic for ties mid-mutation.
func sortBucket(bucket []Activity) {
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].Start < bucket[j].Start
	})
}
