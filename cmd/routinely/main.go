package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/routinely/routinely/internal/cli"
	"github.com/routinely/routinely/internal/logger"
	"github.com/routinely/routinely/internal/resetter"
	"github.com/routinely/routinely/internal/scheduling"
	"github.com/routinely/routinely/internal/stats"
	"github.com/routinely/routinely/internal/storage"
	mongostore "github.com/routinely/routinely/internal/storage/mongo"
)

var CLI struct {
	Version  kong.VersionFlag
	Db       string `help:"SQLite database path." type:"path" default:"~/.config/routinely/routinely.db"`
	MongoUri string `help:"MongoDB connection string; overrides --db when set." env:"ROUTINELY_MONGO_URI"`
	MongoDb  string `help:"MongoDB database name." env:"ROUTINELY_MONGO_DB" default:"routinely"`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Activity struct {
		Add      cli.ActivityAddCmd      `cmd:"" help:"Add an activity to a weekday."`
		List     cli.ActivityListCmd     `cmd:"" help:"List a weekday's activities."`
		Show     cli.ActivityShowCmd     `cmd:"" help:"Show one activity."`
		Edit     cli.ActivityEditCmd     `cmd:"" help:"Edit an activity."`
		Delete   cli.ActivityDeleteCmd   `cmd:"" help:"Delete an activity."`
		Complete cli.ActivityCompleteCmd `cmd:"" help:"Mark an activity completed (or undo)."`
	} `cmd:"" help:"Manage activities."`

	Routine struct {
		Show cli.RoutineShowCmd `cmd:"" help:"Show the full weekly routine."`
	} `cmd:"" help:"Inspect routines."`

	User struct {
		Add  cli.UserAddCmd  `cmd:"" help:"Register a user."`
		List cli.UserListCmd `cmd:"" help:"List users."`
	} `cmd:"" help:"Manage users."`

	Stats struct {
		Summary       cli.StatsSummaryCmd       `cmd:"" help:"Headline totals."`
		Categories    cli.StatsCategoriesCmd    `cmd:"" help:"Per-category duration rollup."`
		Days          cli.StatsDaysCmd          `cmd:"" help:"Per-weekday category breakdown."`
		Nationalities cli.StatsNationalitiesCmd `cmd:"" help:"Nationality and gender counts."`
		Birthdates    cli.StatsBirthdatesCmd    `cmd:"" help:"Birth-year histogram."`
		Registrations cli.StatsRegistrationsCmd `cmd:"" help:"Registrations by month."`
	} `cmd:"" help:"Read-only statistics."`

	Reset struct {
		Run  cli.ResetRunCmd  `cmd:"" help:"Run the midnight completion-reset loop."`
		Once cli.ResetOnceCmd `cmd:"" help:"Run a single reset tick."`
	} `cmd:"" help:"Completion reset scheduler."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("routinely"),
		kong.Description("Weekly routine scheduling engine"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.1"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: filepath.Dir(CLI.Db)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	var store storage.Provider
	if CLI.MongoUri != "" {
		store = mongostore.NewStore(CLI.MongoUri, CLI.MongoDb)
	} else {
		store = storage.NewSQLiteStore(CLI.Db)
	}
	if err := store.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:    store,
		Service:  scheduling.NewService(store),
		Stats:    stats.New(store),
		Resetter: resetter.New(store),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
