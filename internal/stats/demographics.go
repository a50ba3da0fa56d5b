package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/routinely/routinely/internal/models"
)

// Page describes one slice of a paginated rollup.
type Page struct {
	Current      int `json:"currentPage"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// paginate slices a fully computed result set. Requesting a page past
// the end is NotFound, matching the report API contract.
func paginate[T any](items []T, page, limit int) ([]T, Page, error) {
	if page <= 0 || limit <= 0 {
		return nil, Page{}, fmt.Errorf("%w: page and limit must be greater than 0", models.ErrInvalidInput)
	}
	totalPages := (len(items) + limit - 1) / limit
	if page > totalPages {
		return nil, Page{}, fmt.Errorf("%w: page %d of %d", models.ErrNotFound, page, totalPages)
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], Page{
		Current:      page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: len(items),
	}, nil
}

// NationalityStat is the gender split for one nationality.
type NationalityStat struct {
	Nationality string `json:"nationality"`
	Total       int    `json:"total"`
	Male        int    `json:"male"`
	Female      int    `json:"female"`
	None        int    `json:"none"`
}

func (a *Aggregator) NationalityStats(ctx context.Context, page, limit int) ([]NationalityStat, Page, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, Page{}, err
	}
	if len(users) == 0 {
		return nil, Page{}, fmt.Errorf("%w: no users", models.ErrNotFound)
	}

	byNationality := make(map[string]*NationalityStat)
	for _, u := range users {
		stat, ok := byNationality[u.Nationality]
		if !ok {
			stat = &NationalityStat{Nationality: u.Nationality}
			byNationality[u.Nationality] = stat
		}
		stat.Total++
		switch u.Gender {
		case models.GenderMale:
			stat.Male++
		case models.GenderFemale:
			stat.Female++
		default:
			stat.None++
		}
	}

	out := make([]NationalityStat, 0, len(byNationality))
	for _, stat := range byNationality {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nationality < out[j].Nationality })
	return paginate(out, page, limit)
}

// BirthYearStat is one bar of the birth-year histogram.
type BirthYearStat struct {
	Year  int `json:"year"`
	Users int `json:"userCount"`
}

func (a *Aggregator) BirthdateStats(ctx context.Context, page, limit int) ([]BirthYearStat, Page, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, Page{}, err
	}
	if len(users) == 0 {
		return nil, Page{}, fmt.Errorf("%w: no users", models.ErrNotFound)
	}

	byYear := make(map[int]int)
	for _, u := range users {
		byYear[u.Birthdate.Year()]++
	}
	out := make([]BirthYearStat, 0, len(byYear))
	for year, count := range byYear {
		out = append(out, BirthYearStat{Year: year, Users: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return paginate(out, page, limit)
}

// RegistrationStat is one year/month cell of the registration
// histogram.
type RegistrationStat struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Users int `json:"userCount"`
}

// RegistrationStats groups signups by year and month, years ascending
// and months newest-first within a year.
func (a *Aggregator) RegistrationStats(ctx context.Context, page, limit int) ([]RegistrationStat, Page, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, Page{}, err
	}
	if len(users) == 0 {
		return nil, Page{}, fmt.Errorf("%w: no users", models.ErrNotFound)
	}

	type key struct{ year, month int }
	byMonth := make(map[key]int)
	for _, u := range users {
		created := u.CreatedAt.UTC()
		byMonth[key{created.Year(), int(created.Month())}]++
	}
	out := make([]RegistrationStat, 0, len(byMonth))
	for k, count := range byMonth {
		out = append(out, RegistrationStat{Year: k.year, Month: k.month, Users: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return paginate(out, page, limit)
}
