package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/testutil"
)

type investmentFixture struct {
	db        *sql.DB
	user      model.User
	portfolio model.Portfolio
	assetType model.AssetType
	asset     model.Asset
}

func setupInvestment(t *testing.T) *investmentFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	return &investmentFixture{
		db:        db,
		user:      user,
		portfolio: testutil.CreatePortfolio(t, db, user.ID, "Main"),
		assetType: testutil.CreateAssetType(t, db, "Stock"),
		asset:     testutil.NewAsset().WithName("ACME").Build(t, db),
	}
}

func (f *investmentFixture) request() request.CreateInvestmentRequest {
	return request.CreateInvestmentRequest{
		PortfolioID:             f.portfolio.ID,
		AssetTypeID:             f.assetType.ID,
		AssetID:                 f.asset.ID,
		Name:                    "ACME shares",
		Symbol:                  "ACME",
		InitialInvestmentAmount: testutil.Dec("1000"),
		PurchaseDate:            "2024-03-01",
		Quantity:                testutil.Dec("10"),
		Currency:                "USD",
	}
}

// TestInvestmentService_CreateInvestment tests recording a holding by hand.
//
// WHY: Every investment must reference a portfolio of its owner and an
// existing asset type and asset. A dangling reference would make the holding
// impossible to value.
func TestInvestmentService_CreateInvestment(t *testing.T) {
	t.Run("creates investment", func(t *testing.T) {
		f := setupInvestment(t)
		svc := testutil.NewTestInvestmentService(t, f.db)

		inv, err := svc.CreateInvestment(context.Background(), testutil.UserPrincipal(f.user), f.request())
		if err != nil {
			t.Fatalf("CreateInvestment() returned unexpected error: %v", err)
		}

		if inv.UserID != f.user.ID || !inv.Quantity.Equal(testutil.Dec("10")) {
			t.Errorf("Unexpected investment: %+v", inv)
		}
		if inv.PurchaseDate.Format("2006-01-02") != "2024-03-01" {
			t.Errorf("Expected purchase date 2024-03-01, got %s", inv.PurchaseDate)
		}
		testutil.AssertRowCount(t, f.db, "investments", 1)
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		f := setupInvestment(t)
		svc := testutil.NewTestInvestmentService(t, f.db)

		req := f.request()
		req.PortfolioID = testutil.MakeID()

		_, err := svc.CreateInvestment(context.Background(), testutil.UserPrincipal(f.user), req)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
		testutil.AssertRowCount(t, f.db, "investments", 0)
	})

	t.Run("unknown asset type and asset", func(t *testing.T) {
		f := setupInvestment(t)
		svc := testutil.NewTestInvestmentService(t, f.db)

		req := f.request()
		req.AssetTypeID = testutil.MakeID()
		_, err := svc.CreateInvestment(context.Background(), testutil.UserPrincipal(f.user), req)
		if !errors.Is(err, apperrors.ErrAssetTypeNotFound) {
			t.Errorf("Expected ErrAssetTypeNotFound, got %v", err)
		}

		req = f.request()
		req.AssetID = testutil.MakeID()
		_, err = svc.CreateInvestment(context.Background(), testutil.UserPrincipal(f.user), req)
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})

	t.Run("another user's portfolio is forbidden", func(t *testing.T) {
		f := setupInvestment(t)
		other := testutil.CreateUser(t, f.db)
		svc := testutil.NewTestInvestmentService(t, f.db)

		_, err := svc.CreateInvestment(context.Background(), testutil.UserPrincipal(other), f.request())
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		f := setupInvestment(t)
		svc := testutil.NewTestInvestmentService(t, f.db)

		req := f.request()
		req.Quantity = testutil.Dec("-1")
		_, err := svc.CreateInvestment(context.Background(), testutil.UserPrincipal(f.user), req)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestInvestmentService_UpdateInvestment(t *testing.T) {
	t.Run("moves to another owned portfolio", func(t *testing.T) {
		f := setupInvestment(t)
		second := testutil.CreatePortfolio(t, f.db, f.user.ID, "Second")
		inv := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).Build(t, f.db)
		svc := testutil.NewTestInvestmentService(t, f.db)

		qty := testutil.Dec("12.5")
		updated, err := svc.UpdateInvestment(context.Background(), testutil.UserPrincipal(f.user), inv.ID, request.UpdateInvestmentRequest{
			PortfolioID: &second.ID,
			Quantity:    &qty,
		})
		if err != nil {
			t.Fatalf("UpdateInvestment() returned unexpected error: %v", err)
		}
		if updated.PortfolioID != second.ID || !updated.Quantity.Equal(qty) {
			t.Errorf("Unexpected investment after update: %+v", updated)
		}
	})

	t.Run("cannot move into another user's portfolio", func(t *testing.T) {
		f := setupInvestment(t)
		other := testutil.CreateUser(t, f.db)
		foreign := testutil.CreatePortfolio(t, f.db, other.ID, "Theirs")
		inv := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).Build(t, f.db)
		svc := testutil.NewTestInvestmentService(t, f.db)

		_, err := svc.UpdateInvestment(context.Background(), testutil.UserPrincipal(f.user), inv.ID, request.UpdateInvestmentRequest{
			PortfolioID: &foreign.ID,
		})
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}

func TestInvestmentService_DeleteInvestment(t *testing.T) {
	t.Run("deletes unreferenced investment", func(t *testing.T) {
		f := setupInvestment(t)
		inv := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).Build(t, f.db)
		svc := testutil.NewTestInvestmentService(t, f.db)

		if err := svc.DeleteInvestment(context.Background(), testutil.UserPrincipal(f.user), inv.ID); err != nil {
			t.Fatalf("DeleteInvestment() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, f.db, "investments", 0)
	})

	t.Run("refuses when transactions reference it", func(t *testing.T) {
		f := setupInvestment(t)
		inv := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).Build(t, f.db)
		testutil.NewTransaction(f.user.ID).WithInvestment(inv.ID).WithType(model.TransactionBuy).Build(t, f.db)
		svc := testutil.NewTestInvestmentService(t, f.db)

		err := svc.DeleteInvestment(context.Background(), testutil.UserPrincipal(f.user), inv.ID)
		if !errors.Is(err, apperrors.ErrInvestmentInUse) {
			t.Errorf("Expected ErrInvestmentInUse, got %v", err)
		}
	})
}
