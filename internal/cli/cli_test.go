package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/testutil"
)

func newTestEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{Auth: config.AuthConfig{TokenTTL: time.Hour}}
	out := &bytes.Buffer{}
	env := NewEnv(cfg, logging.Nop(), &events.Recorder{}).WithDB(testutil.SetupTestDB(t))
	env.Out = out
	return env, out
}

func run(t *testing.T, env *Env, args ...string) subcommands.ExitStatus {
	t.Helper()

	fs := flag.NewFlagSet("wealthctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	commander := subcommands.NewCommander(fs, "wealthctl")
	commander.Output = io.Discard
	commander.Error = io.Discard
	for _, c := range Commands(env) {
		commander.Register(c, "")
	}

	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse args: %v", err)
	}
	return commander.Execute(context.Background())
}

func TestCommands(t *testing.T) {
	t.Run("catalog and pricing round trip", func(t *testing.T) {
		env, out := newTestEnv(t)

		if got := run(t, env, "add-asset-type", "-name", "Stock"); got != subcommands.ExitSuccess {
			t.Fatalf("add-asset-type exited %d", got)
		}
		if got := run(t, env, "add-asset", "-name", "ACME", "-price", "70"); got != subcommands.ExitSuccess {
			t.Fatalf("add-asset exited %d", got)
		}
		if got := run(t, env, "set-price", "-asset", "ACME", "-price", "75.5"); got != subcommands.ExitSuccess {
			t.Fatalf("set-price exited %d: %s", got, out.String())
		}

		if !strings.Contains(out.String(), "ACME now at 75.5 per share") {
			t.Errorf("Unexpected output %q", out.String())
		}
	})

	t.Run("invalid price is a usage error", func(t *testing.T) {
		env, _ := newTestEnv(t)

		if got := run(t, env, "add-asset", "-name", "ACME", "-price", "abc"); got != subcommands.ExitUsageError {
			t.Errorf("Expected usage error, got %d", got)
		}
	})

	t.Run("summary of a seeded user", func(t *testing.T) {
		env, out := newTestEnv(t)
		db, _ := env.DB()
		user := testutil.NewUser().WithUsername("alice").Build(t, db)
		testutil.NewAccount(user.ID).WithBalance("1000").Build(t, db)

		if got := run(t, env, "summary", "-user", "alice"); got != subcommands.ExitSuccess {
			t.Fatalf("summary exited %d", got)
		}
		if !strings.Contains(out.String(), "1000.00") {
			t.Errorf("Expected balance in output, got %q", out.String())
		}
	})

	t.Run("adduser then delete-user", func(t *testing.T) {
		env, out := newTestEnv(t)

		if got := run(t, env, "adduser", "-username", "bob", "-password", "long enough password"); got != subcommands.ExitSuccess {
			t.Fatalf("adduser exited %d", got)
		}
		if got := run(t, env, "delete-user", "-user", "bob"); got != subcommands.ExitSuccess {
			t.Fatalf("delete-user exited %d", got)
		}

		db, _ := env.DB()
		testutil.AssertRowCount(t, db, "users", 0)
		if !strings.Contains(out.String(), "deleted bob") {
			t.Errorf("Unexpected output %q", out.String())
		}
	})

	t.Run("unknown user fails", func(t *testing.T) {
		env, _ := newTestEnv(t)

		if got := run(t, env, "summary", "-user", "nobody"); got != subcommands.ExitFailure {
			t.Errorf("Expected failure, got %d", got)
		}
	})

	t.Run("audit exits non-zero on bad data", func(t *testing.T) {
		env, _ := newTestEnv(t)

		if got := run(t, env, "audit"); got != subcommands.ExitSuccess {
			t.Fatalf("Expected clean audit, got %d", got)
		}

		db, _ := env.DB()
		testutil.NewAsset().Build(t, db)
		if _, err := db.Exec(`UPDATE assets SET unit_price = '0'`); err != nil {
			t.Fatalf("Failed to corrupt price: %v", err)
		}

		if got := run(t, env, "audit"); got != subcommands.ExitFailure {
			t.Errorf("Expected failure, got %d", got)
		}
	})
}
