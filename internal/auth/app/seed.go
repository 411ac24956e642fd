package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/cryptox"
	"github.com/fixhub/auth/pkg/idx"
)

// seedAdmin creates the configured admin account if it does not exist yet.
// Registration only hands out RESIDENT and PROVIDER roles, so the first
// admin has to come from somewhere; this is that somewhere. Idempotent
// across restarts.
func (app *Application) seedAdmin(ctx context.Context) error {
	if app.cfg.AdminEmail == "" || app.cfg.AdminPassword == "" {
		app.logger.Info("no admin seed configured, skipping")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(app.cfg.AdminEmail))

	_, err := app.db.Users().GetUserByEmail(ctx, email)
	if err == nil {
		app.logger.Info("admin account already present", "email", email)
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := cryptox.HashPassword(app.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         app.cfg.AdminName,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := app.db.Users().CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent replica; the account exists either way.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	app.logger.Info("admin account seeded", "email", email)
	return nil
}
