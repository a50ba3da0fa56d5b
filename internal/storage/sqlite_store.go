package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/routinely/routinely/internal/models"
)

// SQLiteStore is the embedded persistent backend. Documents are stored
// as JSON rows; routines carry a version column so ReplaceRoutine can
// be a single conditional UPDATE.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS routines (
	user_id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	doc     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS activities (
	id        TEXT PRIMARY KEY,
	user_id   TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	doc       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id);
CREATE TABLE IF NOT EXISTS completed_activities (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	activity_id  TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	doc          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_completed_activity ON completed_activities(activity_id);
CREATE TABLE IF NOT EXISTS users (
	id  TEXT PRIMARY KEY,
	doc TEXT NOT NULL
);
`

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetRoutine(ctx context.Context, userID string) (models.Routine, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM routines WHERE user_id = ?", userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return models.Routine{}, fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, userID)
	}
	if err != nil {
		return models.Routine{}, err
	}
	var routine models.Routine
	if err := json.Unmarshal([]byte(doc), &routine); err != nil {
		return models.Routine{}, fmt.Errorf("failed to decode routine: %w", err)
	}
	return routine, nil
}

func (s *SQLiteStore) InsertRoutine(ctx context.Context, routine models.Routine) error {
	doc, err := json.Marshal(routine)
	if err != nil {
		return fmt.Errorf("failed to encode routine: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO routines (user_id, version, doc) VALUES (?, ?, ?)",
		routine.UserID, routine.Version, string(doc))
	return err
}

func (s *SQLiteStore) ReplaceRoutine(ctx context.Context, routine models.Routine, expectedVersion int64) error {
	doc, err := json.Marshal(routine)
	if err != nil {
		return fmt.Errorf("failed to encode routine: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE routines SET version = ?, doc = ? WHERE user_id = ? AND version = ?",
		routine.Version, string(doc), routine.UserID, expectedVersion)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			"SELECT count(*) FROM routines WHERE user_id = ?", routine.UserID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, routine.UserID)
		}
		return fmt.Errorf("%w: user %s", ErrVersionMismatch, routine.UserID)
	}
	return nil
}

func (s *SQLiteStore) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM routines ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var routine models.Routine
		if err := json.Unmarshal([]byte(doc), &routine); err != nil {
			return nil, fmt.Errorf("failed to decode routine: %w", err)
		}
		routines = append(routines, routine)
	}
	return routines, rows.Err()
}

func (s *SQLiteStore) GetActivity(ctx context.Context, id string) (models.Activity, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM activities WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return models.Activity{}, fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Activity{}, err
	}
	var activity models.Activity
	if err := json.Unmarshal([]byte(doc), &activity); err != nil {
		return models.Activity{}, fmt.Errorf("failed to decode activity: %w", err)
	}
	return activity, nil
}

func (s *SQLiteStore) InsertActivity(ctx context.Context, activity models.Activity) error {
	return s.writeActivity(ctx, activity, "INSERT INTO activities (id, user_id, completed, doc) VALUES (?, ?, ?, ?)")
}

func (s *SQLiteStore) ReplaceActivity(ctx context.Context, activity models.Activity) error {
	return s.writeActivity(ctx, activity, "INSERT OR REPLACE INTO activities (id, user_id, completed, doc) VALUES (?, ?, ?, ?)")
}

func (s *SQLiteStore) writeActivity(ctx context.Context, activity models.Activity, query string) error {
	doc, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to encode activity: %w", err)
	}
	completed := 0
	if activity.Completed {
		completed = 1
	}
	_, err = s.db.ExecContext(ctx, query, activity.ID, activity.UserID, completed, string(doc))
	return err
}

func (s *SQLiteStore) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) ListActivities(ctx context.Context) ([]models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM activities ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var activity models.Activity
		if err := json.Unmarshal([]byte(doc), &activity); err != nil {
			return nil, fmt.Errorf("failed to decode activity: %w", err)
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func (s *SQLiteStore) ResetCompletedForUser(ctx context.Context, userID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id, doc FROM activities WHERE user_id = ? AND completed = 1", userID)
	if err != nil {
		return 0, err
	}
	type pending struct {
		id  string
		doc string
	}
	var flips []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.doc); err != nil {
			rows.Close()
			return 0, err
		}
		flips = append(flips, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, p := range flips {
		var activity models.Activity
		if err := json.Unmarshal([]byte(p.doc), &activity); err != nil {
			return 0, fmt.Errorf("failed to decode activity: %w", err)
		}
		activity.Completed = false
		doc, err := json.Marshal(activity)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE activities SET completed = 0, doc = ? WHERE id = ?", string(doc), p.id); err != nil {
			return 0, err
		}
	}

	// The reset only ever clears flags, so the routine doc is rewritten
	// unconditionally; a racing completion just before midnight loses
	// its mark, which is the accepted outcome.
	var routineDoc string
	err = tx.QueryRowContext(ctx, "SELECT doc FROM routines WHERE user_id = ?", userID).Scan(&routineDoc)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	if err == nil {
		var routine models.Routine
		if err := json.Unmarshal([]byte(routineDoc), &routine); err != nil {
			return 0, fmt.Errorf("failed to decode routine: %w", err)
		}
		routine.ResetCompleted()
		doc, err := json.Marshal(routine)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE routines SET doc = ? WHERE user_id = ?", string(doc), userID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(flips), nil
}

func (s *SQLiteStore) InsertCompletedActivity(ctx context.Context, record models.CompletedActivity) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode completed activity: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO completed_activities (activity_id, completed_at, doc) VALUES (?, ?, ?)",
		record.ActivityID, record.CompletedAt.UTC().Format(time.RFC3339Nano), string(doc))
	return err
}

func (s *SQLiteStore) DeleteLatestCompletedActivity(ctx context.Context, activityID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM completed_activities WHERE seq = (
			SELECT seq FROM completed_activities
			WHERE activity_id = ?
			ORDER BY completed_at DESC, seq DESC
			LIMIT 1
		)`, activityID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: no completed record for activity %s", models.ErrNotFound, activityID)
	}
	return nil
}

func (s *SQLiteStore) ListCompletedActivities(ctx context.Context) ([]models.CompletedActivity, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM completed_activities ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletedActivity
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var record models.CompletedActivity
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return nil, fmt.Errorf("failed to decode completed activity: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (models.User, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM users WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("%w: no user with id %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(doc), &user); err != nil {
		return models.User{}, fmt.Errorf("failed to decode user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) InsertUser(ctx context.Context, user models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "INSERT INTO users (id, doc) VALUES (?, ?)", user.ID, string(doc))
	return err
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var user models.User
		if err := json.Unmarshal([]byte(doc), &user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
