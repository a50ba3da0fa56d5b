package cli

import (
	"context"
	"fmt"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/scheduling"
)

type ActivityAddCmd struct {
	Day      string `arg:"" help:"Weekday (monday..sunday)."`
	Label    string `arg:"" help:"Activity label."`
	User     string `short:"u" help:"Acting user id." required:""`
	Start    string `short:"s" help:"Start time (HH:MM)." required:""`
	End      string `short:"e" help:"End time (HH:MM)." required:""`
	Category string `short:"c" help:"Category (work|study|health|sport|leisure|social|other)." required:""`
	Color    string `help:"Hex color tag (#RRGGBB)."`
	For      string `help:"Target user id (admins only)."`
}

func (c *ActivityAddCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, appCtx, c.User, c.For)
	if err != nil {
		return err
	}

	activity, err := appCtx.Service.CreateActivity(ctx, target, day, scheduling.CreateActivityInput{
		Start:    c.Start,
		End:      c.End,
		Label:    c.Label,
		Category: c.Category,
		Color:    c.Color,
	})
	if err != nil {
		return friendlyError(err)
	}

	fmt.Printf("Added %s activity: %s (ID: %s)\n", day, activity.Label, activity.ID)
	return nil
}

type ActivityListCmd struct {
	Day  string `arg:"" help:"Weekday (monday..sunday)."`
	User string `short:"u" help:"Acting user id." required:""`
	For  string `help:"Target user id (admins only)."`
}

func (c *ActivityListCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, appCtx, c.User, c.For)
	if err != nil {
		return err
	}

	activities, err := appCtx.Service.ListDay(ctx, target, day)
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d activities)", day, len(activities))))
	for _, a := range activities {
		fmt.Println(formatActivity(a))
	}
	return nil
}

type ActivityShowCmd struct {
	Day  string `arg:"" help:"Weekday (monday..sunday)."`
	ID   string `arg:"" help:"Activity id."`
	User string `short:"u" help:"Acting user id." required:""`
	For  string `help:"Target user id (admins only)."`
}

func (c *ActivityShowCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, appCtx, c.User, c.For)
	if err != nil {
		return err
	}

	activity, err := appCtx.Service.GetActivity(ctx, target, day, c.ID)
	if err != nil {
		return friendlyError(err)
	}
	fmt.Println(formatActivity(activity))
	return nil
}

type ActivityEditCmd struct {
	Day      string  `arg:"" help:"Weekday (monday..sunday)."`
	ID       string  `arg:"" help:"Activity id."`
	User     string  `short:"u" help:"Acting user id." required:""`
	Start    *string `short:"s" help:"New start time (HH:MM)."`
	End      *string `short:"e" help:"New end time (HH:MM)."`
	Label    *string `short:"l" help:"New label."`
	Category *string `short:"c" help:"New category."`
	Color    *string `help:"New hex color tag."`
	For      string  `help:"Target user id (admins only)."`
}

func (c *ActivityEditCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, appCtx, c.User, c.For)
	if err != nil {
		return err
	}

	activity, err := appCtx.Service.UpdateActivity(ctx, target, day, c.ID, models.ActivityPatch{
		Start:    c.Start,
		End:      c.End,
		Label:    c.Label,
		Category: c.Category,
		Color:    c.Color,
	})
	if err != nil {
		return friendlyError(err)
	}

	fmt.Printf("Updated activity %s\n", activity.ID)
	fmt.Println(formatActivity(activity))
	return nil
}

type ActivityDeleteCmd struct {
	Day  string `arg:"" help:"Weekday (monday..sunday)."`
	ID   string `arg:"" help:"Activity id."`
	User string `short:"u" help:"Acting user id." required:""`
	For  string `help:"Target user id (admins only)."`
}

func (c *ActivityDeleteCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, appCtx, c.User, c.For)
	if err != nil {
		return err
	}

	if err := appCtx.Service.DeleteActivity(ctx, target, day, c.ID); err != nil {
		return friendlyError(err)
	}
	fmt.Printf("Deleted activity %s\n", c.ID)
	return nil
}

type ActivityCompleteCmd struct {
	ID   string `arg:"" help:"Activity id."`
	User string `short:"u" help:"Acting user id." required:""`
	Undo bool   `help:"Unmark instead of marking complete."`
}

func (c *ActivityCompleteCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	caller := identity(ctx, appCtx, c.User)

	activity, err := appCtx.Service.MarkCompleted(ctx, caller, c.ID, !c.Undo)
	if err != nil {
		return friendlyError(err)
	}
	if c.Undo {
		fmt.Printf("Unmarked %q\n", activity.Label)
	} else {
		fmt.Printf("Completed %q (%dm)\n", activity.Label, activity.DurationMin)
	}
	return nil
}
