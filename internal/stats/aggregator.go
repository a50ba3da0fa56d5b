// Package stats computes the read-only rollups external reports depend
// on. Everything here is a load/group/sort pass over the store's
// collections; nothing mutates.
package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/storage"
)

type Aggregator struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Summary is the dashboard headline: totals plus today's movement.
type Summary struct {
	TotalUsers               int `json:"totalUsers"`
	ActiveActivities         int `json:"activeActivities"`
	TotalCompletedActivities int `json:"totalCompletedActivities"`
	AllTimeActivities        int `json:"allTimeActivities"`
	NewRegistrationsToday    int `json:"newRegistrationsToday"`
	ActivitiesCompletedToday int `json:"activitiesCompletedToday"`
}

func (a *Aggregator) Summary(ctx context.Context) (Summary, error) {
	var summary Summary

	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary.TotalUsers = len(users)

	activities, err := a.store.ListActivities(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary.ActiveActivities = len(activities)

	routines, err := a.store.ListRoutines(ctx)
	if err != nil {
		return Summary{}, err
	}
	for _, r := range routines {
		summary.AllTimeActivities += r.LifetimeActivities
	}

	completed, err := a.store.ListCompletedActivities(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary.TotalCompletedActivities = len(completed)

	dayStart := a.now().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, u := range users {
		if !u.CreatedAt.Before(dayStart) && u.CreatedAt.Before(dayEnd) {
			summary.NewRegistrationsToday++
		}
	}
	for _, c := range completed {
		if !c.CompletedAt.Before(dayStart) && c.CompletedAt.Before(dayEnd) {
			summary.ActivitiesCompletedToday++
		}
	}
	return summary, nil
}

// CategoryStat is one row of the per-category rollup.
type CategoryStat struct {
	Category      models.Category `json:"categoryName"`
	Activities    int             `json:"totalActivity"`
	TotalDuration int             `json:"totalDuration"`
	// AvgDuration is minutes per activity, rounded to two decimals.
	AvgDuration float64 `json:"durationPerActivity"`
}

// CategoryStats groups all live activities by category, sorted by total
// duration descending. NotFound when there are no activities at all.
func (a *Aggregator) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	activities, err := a.store.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: no activities", models.ErrNotFound)
	}

	byCategory := make(map[models.Category]*CategoryStat)
	for _, act := range activities {
		stat, ok := byCategory[act.Category]
		if !ok {
			stat = &CategoryStat{Category: act.Category}
			byCategory[act.Category] = stat
		}
		stat.Activities++
		stat.TotalDuration += act.DurationMin
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		stat.AvgDuration = round2(float64(stat.TotalDuration) / float64(stat.Activities))
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalDuration != out[j].TotalDuration {
			return out[i].TotalDuration > out[j].TotalDuration
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// DayCategory is one category's share within a weekday.
type DayCategory struct {
	Category models.Category `json:"categoryName"`
	Duration int             `json:"duration"`
}

// DayStat is the per-weekday breakdown; Categories is sorted by
// duration descending.
type DayStat struct {
	Day        models.Weekday `json:"day"`
	Activities int            `json:"totalActivities"`
	Categories []DayCategory  `json:"categories"`
}

// DayStats walks every routine's buckets and groups by weekday and
// category. Days are emitted Monday-first; days with no activities are
// omitted. NotFound when nothing is scheduled anywhere.
func (a *Aggregator) DayStats(ctx context.Context) ([]DayStat, error) {
	routines, err := a.store.ListRoutines(ctx)
	if err != nil {
		return nil, err
	}

	type key struct {
		day      models.Weekday
		category models.Category
	}
	durations := make(map[key]int)
	counts := make(map[models.Weekday]int)
	for _, routine := range routines {
		for day, bucket := range routine.Days {
			for _, act := range bucket {
				durations[key{day, act.Category}] += act.DurationMin
				counts[day]++
			}
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: no activities", models.ErrNotFound)
	}

	var out []DayStat
	for _, day := range models.Weekdays {
		if counts[day] == 0 {
			continue
		}
		stat := DayStat{Day: day, Activities: counts[day]}
		for _, category := range models.Categories {
			if d, ok := durations[key{day, category}]; ok {
				stat.Categories = append(stat.Categories, DayCategory{Category: category, Duration: d})
			}
		}
		sort.SliceStable(stat.Categories, func(i, j int) bool {
			return stat.Categories[i].Duration > stat.Categories[j].Duration
		})
		out = append(out, stat)
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
