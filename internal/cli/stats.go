package cli

import (
	"context"
	"fmt"
)

type StatsSummaryCmd struct{}

func (c *StatsSummaryCmd) Run(appCtx *Context) error {
	summary, err := appCtx.Stats.Summary(context.Background())
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render("Summary"))
	fmt.Printf("%-28s %d\n", "Users", summary.TotalUsers)
	fmt.Printf("%-28s %d\n", "Active activities", summary.ActiveActivities)
	fmt.Printf("%-28s %d\n", "All-time activities", summary.AllTimeActivities)
	fmt.Printf("%-28s %d\n", "Completed (total)", summary.TotalCompletedActivities)
	fmt.Printf("%-28s %d\n", "Registrations today", summary.NewRegistrationsToday)
	fmt.Printf("%-28s %d\n", "Completed today", summary.ActivitiesCompletedToday)
	return nil
}

type StatsCategoriesCmd struct{}

func (c *StatsCategoriesCmd) Run(appCtx *Context) error {
	rows, err := appCtx.Stats.CategoryStats(context.Background())
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-10s %10s %12s %10s", "Category", "Activities", "Total (min)", "Avg (min)")))
	for _, row := range rows {
		fmt.Printf("%-10s %10d %12d %10.2f\n", row.Category, row.Activities, row.TotalDuration, row.AvgDuration)
	}
	return nil
}

type StatsDaysCmd struct{}

func (c *StatsDaysCmd) Run(appCtx *Context) error {
	days, err := appCtx.Stats.DayStats(context.Background())
	if err != nil {
		return friendlyError(err)
	}

	for _, day := range days {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d activities)", day.Day, day.Activities)))
		for _, cat := range day.Categories {
			fmt.Printf("  %-10s %6d min\n", cat.Category, cat.Duration)
		}
	}
	return nil
}

type pagingFlags struct {
	Page  int `short:"p" help:"Page number." default:"1"`
	Limit int `short:"l" help:"Results per page." default:"10"`
}

type StatsNationalitiesCmd struct {
	pagingFlags
}

func (c *StatsNationalitiesCmd) Run(appCtx *Context) error {
	rows, page, err := appCtx.Stats.NationalityStats(context.Background(), c.Page, c.Limit)
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-24s %6s %6s %8s %6s", "Nationality", "Total", "Male", "Female", "None")))
	for _, row := range rows {
		fmt.Printf("%-24s %6d %6d %8d %6d\n", row.Nationality, row.Total, row.Male, row.Female, row.None)
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("page %d/%d (%d results)", page.Current, page.TotalPages, page.TotalResults)))
	return nil
}

type StatsBirthdatesCmd struct {
	pagingFlags
}

func (c *StatsBirthdatesCmd) Run(appCtx *Context) error {
	rows, page, err := appCtx.Stats.BirthdateStats(context.Background(), c.Page, c.Limit)
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-6s %6s", "Year", "Users")))
	for _, row := range rows {
		fmt.Printf("%-6d %6d\n", row.Year, row.Users)
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("page %d/%d (%d results)", page.Current, page.TotalPages, page.TotalResults)))
	return nil
}

type StatsRegistrationsCmd struct {
	pagingFlags
}

func (c *StatsRegistrationsCmd) Run(appCtx *Context) error {
	rows, page, err := appCtx.Stats.RegistrationStats(context.Background(), c.Page, c.Limit)
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-6s %-6s %6s", "Year", "Month", "Users")))
	for _, row := range rows {
		fmt.Printf("%-6d %-6d %6d\n", row.Year, row.Month, row.Users)
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("page %d/%d (%d results)", page.Current, page.TotalPages, page.TotalResults)))
	return nil
}
