package cli

import (
	"context"
	"fmt"

	"github.com/routinely/routinely/internal/models"
)

type RoutineShowCmd struct {
	User string `short:"u" help:"Acting user id." required:""`
	For  string `help:"Target user id (admins only)."`
}

func (c *RoutineShowCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	target, err := resolveTarget(ctx, appCtx, c.User, c.For)
	if err != nil {
		return err
	}

	routine, err := appCtx.Service.ListRoutine(ctx, target)
	if err != nil {
		return friendlyError(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Weekly routine for %s", target)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("all-time activities: %d", routine.LifetimeActivities)))
	for _, day := range models.Weekdays {
		bucket := routine.Day(day)
		if len(bucket) == 0 {
			continue
		}
		fmt.Println(headerStyle.Render(string(day)))
		for _, a := range bucket {
			fmt.Println("  " + formatActivity(a))
		}
	}
	return nil
}
