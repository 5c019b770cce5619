package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/repositories"
	"github.com/urfave/cli/v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// UsersAdd creates an account.
func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	user := models.NewUser(cmd.String("email"), cmd.String("name"))
	if err := repositories.NewUserRepository(db).Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "id", user.ID, "email", user.Email)
	return r.writePlain("%s %s %s\n", okStyle.Render("✓ Created"), user.Email, dimStyle.Render(user.ID))
}

// UsersList prints every account.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	users, err := repositories.NewUserRepository(db).List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		if users == nil {
			users = []*models.User{}
		}
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		return r.writePlain("No users\n")
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = "-"
		}
		r.writePlain("  %s  %s  %s\n", u.Email, name, dimStyle.Render(u.ID))
	}
	return nil
}
