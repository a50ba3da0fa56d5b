package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/validation"
)

type UserAddCmd struct {
	Name        string `arg:"" help:"First name."`
	Surname     string `arg:"" help:"Surname."`
	Email       string `short:"e" help:"E-mail address." required:""`
	Nationality string `short:"n" help:"Nationality (country name)." required:""`
	Gender      string `short:"g" help:"Gender (male|female|none)." default:"none"`
	Birthdate   string `short:"b" help:"Birthdate (YYYY-MM-DD)." required:""`
	Timezone    string `short:"t" help:"IANA timezone, defaults to UTC."`
	Role        string `help:"Role (user|admin|super-admin)." default:"user"`
}

func (c *UserAddCmd) Validate() error {
	switch models.Gender(c.Gender) {
	case models.GenderMale, models.GenderFemale, models.GenderNone:
	default:
		return fmt.Errorf("invalid gender: %s", c.Gender)
	}
	switch models.Role(c.Role) {
	case models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return fmt.Errorf("invalid role: %s", c.Role)
	}
	return validation.Timezone(c.Timezone)
}

func (c *UserAddCmd) Run(appCtx *Context) error {
	birthdate, err := time.Parse("2006-01-02", c.Birthdate)
	if err != nil {
		return fmt.Errorf("invalid birthdate: %w", err)
	}

	user := models.User{
		ID:          uuid.New().String(),
		Name:        c.Name,
		Surname:     c.Surname,
		Email:       c.Email,
		Nationality: c.Nationality,
		Gender:      models.Gender(c.Gender),
		Birthdate:   birthdate,
		Role:        models.Role(c.Role),
		Timezone:    c.Timezone,
		CreatedAt:   time.Now().UTC(),
	}
	if err := appCtx.Store.InsertUser(context.Background(), user); err != nil {
		return err
	}

	fmt.Printf("Added user: %s %s (ID: %s)\n", user.Name, user.Surname, user.ID)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(appCtx *Context) error {
	users, err := appCtx.Store.ListUsers(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Users (%d)", len(users))))
	for _, u := range users {
		tz := u.Timezone
		if tz == "" {
			tz = "UTC"
		}
		fmt.Printf("%-36s  %-20s %-10s %-12s %s\n", u.ID, u.Name+" "+u.Surname, u.Role, tz, dimStyle.Render(u.Email))
	}
	return nil
}
