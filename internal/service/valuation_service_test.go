package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/testutil"
)

// TestValuationService_PortfolioSummary tests the three-figure wealth summary.
//
// WHY: The summary is what users look at first. It must add up exactly and
// only ever include the requesting user's own accounts and holdings.
func TestValuationService_PortfolioSummary(t *testing.T) {
	t.Run("returns zeros for a user with nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)
		svc := testutil.NewTestValuationService(t, db)

		summary, err := svc.PortfolioSummary(context.Background(), testutil.UserPrincipal(user), "")
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}

		if !summary.TotalAccountBalance.IsZero() || !summary.TotalInvestmentValue.IsZero() || !summary.TotalPortfolioValue.IsZero() {
			t.Errorf("Expected zero summary, got %+v", summary)
		}
	})

	t.Run("totals accounts and holdings of the user only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)
		other := testutil.CreateUser(t, db)
		portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")
		assetType := testutil.CreateAssetType(t, db, "Commodity")
		gold := testutil.NewAsset().WithName("Gold").WithPrice("70.00").Build(t, db)

		testutil.NewAccount(user.ID).WithBalance("1000.00").Build(t, db)
		testutil.NewAccount(user.ID).WithBalance("-200.50").WithType("CreditCard").Build(t, db)
		testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, gold.ID).WithQuantity("5").Build(t, db)

		otherPortfolio := testutil.CreatePortfolio(t, db, other.ID, "Main")
		testutil.NewAccount(other.ID).WithBalance("99999").Build(t, db)
		testutil.NewInvestment(other.ID, otherPortfolio.ID, assetType.ID, gold.ID).WithQuantity("100").Build(t, db)

		svc := testutil.NewTestValuationService(t, db)

		summary, err := svc.PortfolioSummary(context.Background(), testutil.UserPrincipal(user), "")
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}

		if !summary.TotalAccountBalance.Equal(testutil.Dec("799.50")) {
			t.Errorf("Expected balance 799.50, got %s", summary.TotalAccountBalance)
		}
		if !summary.TotalInvestmentValue.Equal(testutil.Dec("350")) {
			t.Errorf("Expected investments 350, got %s", summary.TotalInvestmentValue)
		}
		if !summary.TotalPortfolioValue.Equal(testutil.Dec("1149.50")) {
			t.Errorf("Expected total 1149.50, got %s", summary.TotalPortfolioValue)
		}
	})

	t.Run("users cannot read someone else's summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)
		other := testutil.CreateUser(t, db)
		svc := testutil.NewTestValuationService(t, db)

		_, err := svc.PortfolioSummary(context.Background(), testutil.UserPrincipal(user), other.ID)
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("admins can read any summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		admin := testutil.NewUser().Admin().Build(t, db)
		user := testutil.CreateUser(t, db)
		testutil.NewAccount(user.ID).WithBalance("42.00").Build(t, db)
		svc := testutil.NewTestValuationService(t, db)

		summary, err := svc.PortfolioSummary(context.Background(), testutil.AdminPrincipal(admin), user.ID)
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}
		if !summary.TotalPortfolioValue.Equal(testutil.Dec("42")) {
			t.Errorf("Expected total 42, got %s", summary.TotalPortfolioValue)
		}
	})

	t.Run("holding with a missing asset is an integrity error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)
		portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")
		assetType := testutil.CreateAssetType(t, db, "Commodity")
		asset := testutil.NewAsset().Build(t, db)
		testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, asset.ID).Build(t, db)

		// Simulates a store without enforced foreign keys.
		if _, err := db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
			t.Fatalf("Failed to disable foreign keys: %v", err)
		}
		if _, err := db.Exec("DELETE FROM assets WHERE asset_id = ?", asset.ID); err != nil {
			t.Fatalf("Failed to delete asset: %v", err)
		}

		svc := testutil.NewTestValuationService(t, db)
		_, err := svc.PortfolioSummary(context.Background(), testutil.UserPrincipal(user), "")
		if !errors.Is(err, apperrors.ErrDataInconsistency) || !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected missing asset integrity error, got %v", err)
		}
	})
}

// TestValuationService_CurrentValue tests valuing one investment.
//
// WHY: Values are derived on every read from the current asset price. A price
// change must show up on the next read without any refresh step.
func TestValuationService_CurrentValue(t *testing.T) {
	t.Run("price update propagates on the next read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		admin := testutil.NewUser().Admin().Build(t, db)
		user := testutil.CreateUser(t, db)
		portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")
		assetType := testutil.CreateAssetType(t, db, "Commodity")
		gold := testutil.NewAsset().WithName("Gold").WithPrice("70.00").Build(t, db)
		inv := testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, gold.ID).WithQuantity("5").Build(t, db)

		valuation := testutil.NewTestValuationService(t, db)
		assets := testutil.NewTestAssetService(t, db, nil)
		p := testutil.UserPrincipal(user)

		value, err := valuation.CurrentValue(context.Background(), p, inv.ID)
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if !value.Equal(testutil.Dec("350")) {
			t.Errorf("Expected 350, got %s", value)
		}

		if _, err := assets.UpdateAssetPrice(context.Background(), testutil.AdminPrincipal(admin), gold.ID, testutil.Dec("75.00")); err != nil {
			t.Fatalf("UpdateAssetPrice() returned unexpected error: %v", err)
		}

		value, err = valuation.CurrentValue(context.Background(), p, inv.ID)
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if !value.Equal(testutil.Dec("375")) {
			t.Errorf("Expected 375, got %s", value)
		}
	})

	t.Run("rounds to cents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)
		portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")
		assetType := testutil.CreateAssetType(t, db, "Stock")
		asset := testutil.NewAsset().WithPrice("12.3456").Build(t, db)
		inv := testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, asset.ID).WithQuantity("3.5").Build(t, db)

		value, err := testutil.NewTestValuationService(t, db).CurrentValue(context.Background(), testutil.UserPrincipal(user), inv.ID)
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if value.StringFixed(2) != "43.21" {
			t.Errorf("Expected 43.21, got %s", value)
		}
	})

	t.Run("other users' investments are forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)
		other := testutil.CreateUser(t, db)
		portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")
		assetType := testutil.CreateAssetType(t, db, "Stock")
		asset := testutil.NewAsset().Build(t, db)
		inv := testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, asset.ID).Build(t, db)

		_, err := testutil.NewTestValuationService(t, db).CurrentValue(context.Background(), testutil.UserPrincipal(other), inv.ID)
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown investment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db)

		_, err := testutil.NewTestValuationService(t, db).CurrentValue(context.Background(), testutil.UserPrincipal(user), testutil.MakeID())
		if !errors.Is(err, apperrors.ErrInvestmentNotFound) {
			t.Errorf("Expected ErrInvestmentNotFound, got %v", err)
		}
	})
}

func TestValuationService_Holdings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")
	otherPortfolio := testutil.CreatePortfolio(t, db, other.ID, "Main")
	assetType := testutil.CreateAssetType(t, db, "Stock")
	asset := testutil.NewAsset().WithName("ACME").WithPrice("10").WithUnitType("share").Build(t, db)

	testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, asset.ID).WithQuantity("4").Build(t, db)
	testutil.NewInvestment(other.ID, otherPortfolio.ID, assetType.ID, asset.ID).WithQuantity("1").Build(t, db)

	holdings, err := testutil.NewTestValuationService(t, db).Holdings(context.Background(), testutil.UserPrincipal(user))
	if err != nil {
		t.Fatalf("Holdings() returned unexpected error: %v", err)
	}

	if len(holdings) != 1 {
		t.Fatalf("Expected 1 holding, got %d", len(holdings))
	}
	h := holdings[0]
	if !h.CurrentValue.Equal(testutil.Dec("40")) || h.AssetName != "ACME" || h.PortfolioName != "Main" || h.AssetTypeName != "Stock" {
		t.Errorf("Unexpected holding detail: %+v", h)
	}
}
