package models

import "time"

type Category string

const (
	CategoryWork    Category = "work"
	CategoryStudy   Category = "study"
	CategoryHealth  Category = "health"
	CategorySport   Category = "sport"
	CategoryLeisure Category = "leisure"
	CategorySocial  Category = "social"
	CategoryOther   Category = "other"
)

var Categories = []Category{
	CategoryWork, CategoryStudy, CategoryHealth, CategorySport,
	CategoryLeisure, CategorySocial, CategoryOther,
}

// ValidCategory reports whether s names a known category. Categories
// are stored lowercase.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if Category(s) == c {
			return true
		}
	}
	return false
}

// Activity is one scheduled item inside a day bucket. It is embedded in
// its routine document and also persisted as a standalone record so it
// can be addressed directly by id.
type Activity struct {
	ID        string  `json:"id" bson:"_id"`
	RoutineID string  `json:"routineId" bson:"routineId"`
	UserID    string  `json:"userId" bson:"userId"`
	Weekday   Weekday `json:"weekday" bson:"weekday"`

	TimeInterval `bson:",inline"`

	// DurationMin is derived from the interval on every create and
	// update; callers never supply it.
	DurationMin int       `json:"duration" bson:"duration"`
	Label       string    `json:"activity" bson:"activity"`
	Category    Category  `json:"category" bson:"category"`
	Completed   bool      `json:"isCompleted" bson:"isCompleted"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// ActivityPatch carries a partial update. Nil fields keep the current
// value, so "not present" is distinguishable from "set to empty".
type ActivityPatch struct {
	Start    *string
	End      *string
	Label    *string
	Category *string
	Color    *string
}

func (p ActivityPatch) IsEmpty() bool {
	return p.Start == nil && p.End == nil && p.Label == nil && p.Category == nil && p.Color == nil
}

// CompletedActivity is the archival record written when an activity is
// marked complete. It lives in its own collection and survives the
// nightly completion reset.
type CompletedActivity struct {
	ID          string    `json:"id" bson:"_id"`
	ActivityID  string    `json:"activityId" bson:"activityId"`
	Label       string    `json:"activity" bson:"activity"`
	DurationMin int       `json:"duration" bson:"duration"`
	Category    Category  `json:"category" bson:"category"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}
