// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/filestore"
	"github.com/matt-dz/platefeed/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  *database.Database
	FileStore filestore.FileStore
	Config    config.Config
}

func New(logger *slog.Logger, db *database.Database, fs filestore.FileStore, conf config.Config) *Env {
	if logger == nil {
		logger = log.NullLogger()
	}

	return &Env{
		Logger:    logger,
		Database:  db,
		FileStore: fs,
		Config:    conf,
	}
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx attaches the environment to a context.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx retrieves the environment from a context. Returns an
// environment with a null logger if none was attached.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok {
		return env
	}
	return &Env{Logger: log.NullLogger()}
}
