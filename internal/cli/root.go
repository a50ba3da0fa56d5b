package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/resetter"
	"github.com/routinely/routinely/internal/scheduling"
	"github.com/routinely/routinely/internal/stats"
	"github.com/routinely/routinely/internal/storage"
)

type Context struct {
	Store    storage.Provider
	Service  *scheduling.Service
	Stats    *stats.Aggregator
	Resetter *resetter.Scheduler
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// identity resolves the acting user to an Identity. Unknown ids get the
// plain user role; the auth layer owning user records is a collaborator,
// not this engine.
func identity(ctx context.Context, appCtx *Context, userID string) models.Identity {
	id := models.Identity{UserID: userID, Role: models.RoleUser}
	if user, err := appCtx.Store.GetUser(ctx, userID); err == nil {
		id.Role = user.Role
	}
	return id
}

// resolveTarget returns the user whose routine the command operates on.
// Reading another user's data requires an admin role.
func resolveTarget(ctx context.Context, appCtx *Context, userID, targetID string) (string, error) {
	if targetID == "" || targetID == userID {
		return userID, nil
	}
	caller := identity(ctx, appCtx, userID)
	if !caller.Role.IsAdmin() {
		return "", fmt.Errorf("%w: only admins may access other users' routines", models.ErrForbidden)
	}
	return targetID, nil
}

func parseDay(s string) (models.Weekday, error) {
	return models.ParseWeekday(strings.ToLower(strings.TrimSpace(s)))
}

func formatActivity(a models.Activity) string {
	mark := " "
	if a.Completed {
		mark = doneStyle.Render("✓")
	}
	line := fmt.Sprintf("[%s] %s-%s  %-20s %-8s %3dm", mark, a.Start, a.End, a.Label, a.Category, a.DurationMin)
	if a.Color != "" {
		line += "  " + dimStyle.Render(a.Color)
	}
	return line + "  " + dimStyle.Render(a.ID)
}

// friendlyError rewrites expected engine failures for terminal output.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, models.ErrTimeConflict):
		return fmt.Errorf("time conflict with an existing activity: %v", err)
	case errors.Is(err, models.ErrTransient):
		return fmt.Errorf("the routine is busy, please retry: %v", err)
	default:
		return err
	}
}
