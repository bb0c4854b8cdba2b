// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"net/mail"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matt-dz/platefeed/internal/argon2id"
	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/filestore"
	"github.com/matt-dz/platefeed/internal/password"
)

func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		conf.Database.User, conf.Database.Password,
		conf.Database.Host, conf.Database.Port, conf.Database.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

// Admin sets up an admin user if one does not exist. Requires env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	admin := env.Config.Admin
	if admin.Email == "" || admin.Password == "" {
		env.Logger.InfoContext(ctx, "admin credentials not configured, skipping admin setup")
		return nil
	}

	// Validate email and password
	if _, err := mail.ParseAddress(admin.Email); err != nil {
		return fmt.Errorf("parsing admin email: %w", err)
	}
	if err := password.ValidatePassword(string(admin.Password)); err != nil {
		return fmt.Errorf("validating admin password: %w", err)
	}

	// Check admin count
	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.InfoContext(ctx, "admin already setup, skipping setup")
		return nil
	}

	hashedPassword, err := argon2id.EncodeHash(string(admin.Password), argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// Create admin
	_, err = env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        admin.Email,
		Username:     admin.Username,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		PasswordHash: hashedPassword,
		Role:         database.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	env.Logger.InfoContext(ctx, "successfully setup admin!")

	return nil
}

func FileStore(conf config.Config) (filestore.FileStore, error) {
	var fs filestore.FileStore
	fileserverPath, err := filepath.Abs(conf.Fileserver.Volume)
	if err != nil {
		return fs, fmt.Errorf("creating fileserver path: %w", err)
	}
	urlPrefix := conf.Fileserver.URLPrefix
	if urlPrefix == "" {
		urlPrefix = filestore.DefaultURLPrefix
	}
	return filestore.New(fileserverPath, urlPrefix, conf.HostOrigin), nil
}
