package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/reelist/internal/repositories"
	"github.com/desertthunder/reelist/internal/session"
	"github.com/desertthunder/reelist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionIssue prints a session token for --user-id and/or --email.
//
// When only --email is given and an account exists for it, the account id is included.
func (r *Runner) SessionIssue(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	userID := cmd.String("user-id")
	if email == "" && userID == "" {
		return fmt.Errorf("%w: --email or --user-id", shared.ErrMissingArgument)
	}
	ttl := cmd.Duration("ttl")
	if ttl < 0 {
		return fmt.Errorf("%w: --ttl %s is negative", shared.ErrInvalidArgument, ttl)
	}

	if userID == "" {
		db, err := r.database()
		if err != nil {
			return err
		}
		user, err := repositories.NewUserRepository(db).GetByEmail(ctx, email)
		switch {
		case err == nil:
			userID = user.ID
		case errors.Is(err, shared.ErrUserNotFound):
			r.logger.Warn("no account for email, issuing an email-only token", "email", email)
		default:
			return err
		}
	}

	manager, err := session.NewManager(r.config.Session)
	if err != nil {
		return err
	}

	token, expires, err := manager.Issue(userID, email, ttl)
	if err != nil {
		return err
	}

	r.logger.Debug("issued session", "user", userID, "email", email, "expires", expires)
	return r.writePlain("%s\n", token)
}
