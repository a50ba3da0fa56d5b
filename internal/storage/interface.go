// Package storage defines the document-store contract the engine
// writes against, plus the embedded backends. Routine writes are
// conditional on a version token: ReplaceRoutine succeeds only when the
// stored version still matches the one the caller loaded, which is what
// makes concurrent writers safe without an explicit lock.
package storage

import (
	"context"
	"errors"

	"github.com/routinely/routinely/internal/models"
)

// ErrVersionMismatch is returned by ReplaceRoutine when the stored
// routine changed since the caller loaded it. The caller should reload
// and retry.
var ErrVersionMismatch = errors.New("routine version mismatch")

type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Routines
	GetRoutine(ctx context.Context, userID string) (models.Routine, error)
	InsertRoutine(ctx context.Context, routine models.Routine) error
	// ReplaceRoutine stores the routine only if the persisted version
	// still equals expectedVersion. routine.Version already carries the
	// caller's incremented value.
	ReplaceRoutine(ctx context.Context, routine models.Routine, expectedVersion int64) error
	ListRoutines(ctx context.Context) ([]models.Routine, error)

	// Activities (addressable by id, denormalized from the routine doc)
	GetActivity(ctx context.Context, id string) (models.Activity, error)
	InsertActivity(ctx context.Context, activity models.Activity) error
	ReplaceActivity(ctx context.Context, activity models.Activity) error
	DeleteActivity(ctx context.Context, id string) error
	ListActivities(ctx context.Context) ([]models.Activity, error)
	// ResetCompletedForUser clears the completion flag on every
	// activity the user owns, in the routine document and the activity
	// records alike. Returns how many activities were flipped.
	ResetCompletedForUser(ctx context.Context, userID string) (int, error)

	// Completed-activity archive
	InsertCompletedActivity(ctx context.Context, record models.CompletedActivity) error
	// DeleteLatestCompletedActivity removes the most recent archival
	// record for the activity; models.ErrNotFound when none exists.
	DeleteLatestCompletedActivity(ctx context.Context, activityID string) error
	ListCompletedActivities(ctx context.Context) ([]models.CompletedActivity, error)

	// Users
	GetUser(ctx context.Context, id string) (models.User, error)
	InsertUser(ctx context.Context, user models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}
