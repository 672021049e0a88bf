package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

type migrateCmd struct {
	env *Env
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string {
	return `migrate

  Applies every pending migration for the configured driver and prints the
  resulting schema version.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.env.DB()
	if err != nil {
		return fail(c.env, "opening database", err)
	}
	if err := database.Migrate(db, c.env.Log); err != nil {
		return fail(c.env, "migrating database", err)
	}

	version, err := database.SchemaVersion(db)
	if err != nil {
		return fail(c.env, "reading schema version", err)
	}
	fmt.Fprintf(c.env.Out, "schema at version %d (%s)\n", version, database.DriverName(db))
	return subcommands.ExitSuccess
}

type addUserCmd struct {
	env      *Env
	username string
	email    string
	password string
	admin    bool
}

func (*addUserCmd) Name() string     { return "adduser" }
func (*addUserCmd) Synopsis() string { return "create a user" }
func (*addUserCmd) Usage() string {
	return `adduser -username <name> -password <password> [-email <email>] [-admin]

  Creates a user. This is the only way to create an admin.
`
}

func (c *addUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Login name (required)")
	f.StringVar(&c.email, "email", "", "Email address")
	f.StringVar(&c.password, "password", "", "Password, at least 8 characters (required)")
	f.BoolVar(&c.admin, "admin", false, "Grant the admin role")
}

func (c *addUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	role := model.RoleUser
	if c.admin {
		role = model.RoleAdmin
	}

	user, err := svc.User.CreateUser(ctx, request.RegisterRequest{
		Username: c.username,
		Email:    c.email,
		Password: c.password,
	}, role)
	if err != nil {
		return fail(c.env, "creating user", err)
	}

	fmt.Fprintf(c.env.Out, "created %s %s (%s)\n", user.Role, user.Username, user.ID)
	return subcommands.ExitSuccess
}

type addAssetTypeCmd struct {
	env         *Env
	name        string
	description string
}

func (*addAssetTypeCmd) Name() string     { return "add-asset-type" }
func (*addAssetTypeCmd) Synopsis() string { return "add an asset type to the catalog" }
func (*addAssetTypeCmd) Usage() string {
	return `add-asset-type -name <name> [-description <text>]
`
}

func (c *addAssetTypeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Asset type name, e.g. \"Stock\" (required)")
	f.StringVar(&c.description, "description", "", "Free text description")
}

func (c *addAssetTypeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	at, err := svc.Asset.CreateAssetType(ctx, operator, request.CreateAssetTypeRequest{
		Name:        c.name,
		Description: c.description,
	})
	if err != nil {
		return fail(c.env, "creating asset type", err)
	}

	fmt.Fprintf(c.env.Out, "created asset type %s (%s)\n", at.Name, at.ID)
	return subcommands.ExitSuccess
}

type addAssetCmd struct {
	env   *Env
	name  string
	price string
	unit  string
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "add a priced asset to the catalog" }
func (*addAssetCmd) Usage() string {
	return `add-asset -name <name> -price <unit price> [-unit <unit type>]

  Adds an asset. Holdings of it are valued at quantity times the unit price.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Asset name, e.g. \"ACME Corp\" (required)")
	f.StringVar(&c.price, "price", "", "Current unit price, > 0 (required)")
	f.StringVar(&c.unit, "unit", "share", "Unit the price is quoted in")
}

func (c *addAssetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}

	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	asset, err := svc.Asset.CreateAsset(ctx, operator, request.CreateAssetRequest{
		Name:      c.name,
		UnitPrice: price,
		UnitType:  c.unit,
	})
	if err != nil {
		return fail(c.env, "creating asset", err)
	}

	fmt.Fprintf(c.env.Out, "created asset %s at %s per %s (%s)\n", asset.Name, asset.UnitPrice, asset.UnitType, asset.ID)
	return subcommands.ExitSuccess
}

type setPriceCmd struct {
	env   *Env
	asset string
	price string
}

func (*setPriceCmd) Name() string     { return "set-price" }
func (*setPriceCmd) Synopsis() string { return "update the unit price of an asset" }
func (*setPriceCmd) Usage() string {
	return `set-price -asset <id or name> -price <unit price>

  Every holding of the asset is valued at the new price from the next read on.
`
}

func (c *setPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset id or exact name (required)")
	f.StringVar(&c.price, "price", "", "New unit price, > 0 (required)")
}

func (c *setPriceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}

	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	assetID, err := findAsset(ctx, svc, c.asset)
	if err != nil {
		return fail(c.env, "finding asset", err)
	}

	asset, err := svc.Asset.UpdateAssetPrice(ctx, operator, assetID, price)
	if err != nil {
		return fail(c.env, "updating price", err)
	}

	fmt.Fprintf(c.env.Out, "%s now at %s per %s\n", asset.Name, asset.UnitPrice, asset.UnitType)
	return subcommands.ExitSuccess
}

type deleteUserCmd struct {
	env  *Env
	user string
}

func (*deleteUserCmd) Name() string     { return "delete-user" }
func (*deleteUserCmd) Synopsis() string { return "delete a user and everything they own" }
func (*deleteUserCmd) Usage() string {
	return `delete-user -user <id or username>

  Removes the user's transactions, investments, accounts and portfolios, then the user.
`
}

func (c *deleteUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "User id or username (required)")
}

func (c *deleteUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	user, err := findUser(ctx, svc, c.user)
	if err != nil {
		return fail(c.env, "finding user", err)
	}

	deleted, err := svc.User.DeleteUser(ctx, operator, user.ID)
	if err != nil {
		return fail(c.env, "deleting user", err)
	}

	fmt.Fprintf(c.env.Out, "deleted %s: %d transactions, %d investments, %d accounts, %d portfolios\n",
		user.Username, deleted.Transactions, deleted.Investments, deleted.Accounts, deleted.Portfolios)
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	env  *Env
	user string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print a user's portfolio summary" }
func (*summaryCmd) Usage() string {
	return `summary -user <id or username>
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "User id or username (required)")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	user, err := findUser(ctx, svc, c.user)
	if err != nil {
		return fail(c.env, "finding user", err)
	}

	summary, err := svc.Valuation.PortfolioSummary(ctx, operator, user.ID)
	if err != nil {
		return fail(c.env, "computing summary", err)
	}

	fmt.Fprintf(c.env.Out, "%-12s %14s\n", "accounts", summary.TotalAccountBalance.StringFixed(2))
	fmt.Fprintf(c.env.Out, "%-12s %14s\n", "investments", summary.TotalInvestmentValue.StringFixed(2))
	fmt.Fprintf(c.env.Out, "%-12s %14s\n", "total", summary.TotalPortfolioValue.StringFixed(2))
	return subcommands.ExitSuccess
}

type auditCmd struct {
	env *Env
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "check stored data for integrity problems" }
func (*auditCmd) Usage() string {
	return `audit

  Exits non-zero when a holding has a negative quantity, an asset has no
  positive price, or a holding references a missing asset or portfolio.
`
}
func (*auditCmd) SetFlags(*flag.FlagSet) {}

func (c *auditCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := services(ctx, c.env)
	if err != nil {
		return fail(c.env, "opening database", err)
	}

	report, err := svc.Maintenance.Audit(ctx)
	if err != nil {
		return fail(c.env, "running audit", err)
	}

	fmt.Fprintf(c.env.Out, "negative quantity investments: %d\n", report.NegativeQuantityInvestments)
	fmt.Fprintf(c.env.Out, "non-positive price assets:     %d\n", report.NonPositivePriceAssets)
	fmt.Fprintf(c.env.Out, "orphan investments:            %d\n", report.OrphanInvestments)
	fmt.Fprintf(c.env.Out, "negative balance accounts:     %d\n", report.NegativeBalanceAccounts)

	if !report.Clean() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// findUser resolves an id or username.
func findUser(ctx context.Context, svc service.Services, ref string) (model.User, error) {
	if ref == "" {
		return model.User{}, apperrors.NewValidationError("user", "user is required")
	}

	users, err := svc.User.GetUsers(ctx, operator)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.ID == ref || u.Username == ref {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("%s: %w", ref, apperrors.ErrUserNotFound)
}

// findAsset resolves an id or exact asset name to an id.
func findAsset(ctx context.Context, svc service.Services, ref string) (string, error) {
	if ref == "" {
		return "", apperrors.NewValidationError("asset", "asset is required")
	}

	assets, err := svc.Asset.GetAssets(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range assets {
		if a.ID == ref || a.Name == ref {
			return a.ID, nil
		}
	}
	return "", fmt.Errorf("%s: %w", ref, apperrors.ErrAssetNotFound)
}
