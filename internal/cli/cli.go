// Package cli implements the wealthctl administration commands.
//
// Commands act with admin rights and talk to the database directly, so they
// work while the server is down.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// operator is the principal every command runs as.
var operator = model.Principal{Role: model.RoleAdmin}

// Env is what commands share: configuration, output and a lazily opened store.
type Env struct {
	Config    *config.Config
	Out       io.Writer
	Log       zerolog.Logger
	Publisher events.Publisher

	db       *sql.DB
	services *service.Services
}

// NewEnv creates an Env writing to stdout.
func NewEnv(cfg *config.Config, log zerolog.Logger, publisher events.Publisher) *Env {
	return &Env{Config: cfg, Out: os.Stdout, Log: log, Publisher: publisher}
}

// WithDB makes the env use an already opened, migrated database.
func (e *Env) WithDB(db *sql.DB) *Env {
	e.db = db
	return e
}

// DB opens the configured database on first use.
func (e *Env) DB() (*sql.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := database.Open(e.Config.Database)
	if err != nil {
		return nil, err
	}
	e.db = db
	return db, nil
}

// Services wires the service layer on first use. The schema must already be migrated.
func (e *Env) Services() (service.Services, error) {
	if e.services != nil {
		return *e.services, nil
	}

	db, err := e.DB()
	if err != nil {
		return service.Services{}, err
	}

	// Commands never issue tokens; a throwaway key is enough.
	tokens, err := auth.NewTokenIssuer("", e.Config.Auth.TokenTTL)
	if err != nil {
		return service.Services{}, err
	}

	svc := service.New(db, tokens, e.Publisher, e.Log)
	e.services = &svc
	return svc, nil
}

// Close releases the database and the publisher.
func (e *Env) Close() error {
	if e.Publisher != nil {
		if err := e.Publisher.Close(); err != nil {
			e.Log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Commands returns every wealthctl subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&migrateCmd{env: env},
		&addUserCmd{env: env},
		&addAssetTypeCmd{env: env},
		&addAssetCmd{env: env},
		&setPriceCmd{env: env},
		&deleteUserCmd{env: env},
		&summaryCmd{env: env},
		&auditCmd{env: env},
	}
}

// fail prints err and maps it onto an exit status.
func fail(env *Env, what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	env.Log.Debug().Err(err).Msg(what)
	return subcommands.ExitFailure
}

// services is the common preamble of commands that need the service layer.
func services(ctx context.Context, env *Env) (service.Services, error) {
	if err := ctx.Err(); err != nil {
		return service.Services{}, err
	}
	return env.Services()
}
