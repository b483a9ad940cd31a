// File: internal/database/seeder.go
package database

import (
	"context"
	"time"

	"pocaswap-api/internal/config"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedDefaultAdmin creates the admin console account for development environments.
func SeedDefaultAdmin(app *config.Application) {
	// Only seed in development environment
	if !app.Config.IsDevelopment() || app.Config.DefaultAdminUsername == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	err := app.DB.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM auth.users WHERE username = $1)", app.Config.DefaultAdminUsername).Scan(&exists)
	if err != nil {
		app.Logger.Error().Err(err).Msg("Failed to check for default admin")
		return
	}

	if exists {
		app.Logger.Info().Str("username", app.Config.DefaultAdminUsername).Msg("Default admin already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(app.Config.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		app.Logger.Error().Err(err).Msg("Failed to hash default admin password")
		return
	}

	userID := uuid.New().String()
	now := time.Now().UTC()

	_, err = app.DB.Exec(ctx, `
		INSERT INTO auth.users (id, username, nickname, password_hash, role, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, 'admin', $5, $5, true)`,
		userID, app.Config.DefaultAdminUsername, app.Config.DefaultAdminUsername, string(hashedPassword), now)

	if err != nil {
		app.Logger.Error().Err(err).Msg("Failed to create default admin")
		return
	}

	app.Logger.Info().Str("username", app.Config.DefaultAdminUsername).Msg("Default admin created successfully")
}
