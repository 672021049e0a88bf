package service_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/testutil"
)

type buyFixture struct {
	db        *sql.DB
	user      model.User
	account   model.Account
	asset     model.Asset
	portfolio model.Portfolio
	assetType model.AssetType
	recorder  *events.Recorder
}

func setupBuy(t *testing.T, balance, price string) buyFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)

	return buyFixture{
		db:        db,
		user:      user,
		account:   testutil.NewAccount(user.ID).WithBalance(balance).Build(t, db),
		asset:     testutil.NewAsset().WithName("Gold").WithPrice(price).WithUnitType("oz").Build(t, db),
		portfolio: testutil.CreatePortfolio(t, db, user.ID, "Metals"),
		assetType: testutil.CreateAssetType(t, db, "Commodity"),
		recorder:  &events.Recorder{},
	}
}

func (f buyFixture) order(quantity string) model.BuyOrder {
	return model.BuyOrder{
		UserID:      f.user.ID,
		AccountID:   f.account.ID,
		AssetID:     f.asset.ID,
		Quantity:    testutil.Dec(quantity),
		PortfolioID: f.portfolio.ID,
		AssetTypeID: f.assetType.ID,
	}
}

func (f buyFixture) balance(t *testing.T) string {
	t.Helper()

	a, err := repository.NewAccountRepository(f.db).GetAccount(context.Background(), f.account.ID)
	if err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	return a.CurrentBalance.StringFixed(2)
}

func (f buyFixture) quantity(t *testing.T, investmentID string) string {
	t.Helper()

	inv, err := repository.NewInvestmentRepository(f.db).GetInvestment(context.Background(), investmentID)
	if err != nil {
		t.Fatalf("Failed to reload investment: %v", err)
	}
	return inv.Quantity.String()
}

// TestPurchaseService_Buy_Success tests purchases that commit.
//
// WHY: A purchase moves cash into a holding. Cash leaving the account must equal
// the cost logged in the transaction and the value added to the holding at the
// purchase price, otherwise the user's total wealth changes by buying.
func TestPurchaseService_Buy_Success(t *testing.T) {
	t.Run("adds to an existing holding", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		holding := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).
			WithQuantity("2").
			Build(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)

		result, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("5"))
		if err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}

		if got := f.balance(t); got != "650.00" {
			t.Errorf("Expected balance 650.00, got %s", got)
		}
		if got := f.quantity(t, holding.ID); got != "7" {
			t.Errorf("Expected quantity 7, got %s", got)
		}
		if result.CreatedHolding {
			t.Error("Expected existing holding to be reused")
		}
		if result.Investment.ID != holding.ID {
			t.Errorf("Expected investment %s, got %s", holding.ID, result.Investment.ID)
		}
		if !result.TotalCost.Equal(testutil.Dec("350")) {
			t.Errorf("Expected total cost 350, got %s", result.TotalCost)
		}

		testutil.AssertRowCount(t, f.db, "investments", 1)
		testutil.AssertRowCount(t, f.db, "transactions", 1)

		txn, err := repository.NewTransactionRepository(f.db).GetTransaction(context.Background(), result.Transaction.ID)
		if err != nil {
			t.Fatalf("Failed to load transaction: %v", err)
		}
		if txn.Type != model.TransactionBuy {
			t.Errorf("Expected Buy, got %s", txn.Type)
		}
		if !txn.Amount.Equal(testutil.Dec("350")) {
			t.Errorf("Expected amount 350, got %s", txn.Amount)
		}
		if txn.Quantity == nil || !txn.Quantity.Equal(testutil.Dec("5")) {
			t.Errorf("Expected quantity 5, got %v", txn.Quantity)
		}
		if txn.UnitPriceAtTransaction == nil || !txn.UnitPriceAtTransaction.Equal(testutil.Dec("70")) {
			t.Errorf("Expected unit price 70, got %v", txn.UnitPriceAtTransaction)
		}
		if txn.AccountID != f.account.ID || txn.InvestmentID != holding.ID || txn.AssetID != f.asset.ID {
			t.Errorf("Transaction references are wrong: %+v", txn)
		}
		if txn.Description != "Bought 5 oz of Gold" {
			t.Errorf("Unexpected description %q", txn.Description)
		}
	})

	t.Run("creates a holding on first purchase", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)

		result, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("5"))
		if err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}

		if !result.CreatedHolding {
			t.Error("Expected a new holding")
		}
		inv := result.Investment
		if inv.Name != "Gold Holdings" {
			t.Errorf("Expected name 'Gold Holdings', got %q", inv.Name)
		}
		if inv.Notes != "Initial purchase of Gold" {
			t.Errorf("Unexpected notes %q", inv.Notes)
		}
		if !inv.InitialInvestmentAmount.Equal(testutil.Dec("350")) {
			t.Errorf("Expected initial amount 350, got %s", inv.InitialInvestmentAmount)
		}
		if inv.PortfolioID != f.portfolio.ID || inv.AssetTypeID != f.assetType.ID {
			t.Errorf("Holding placed in wrong portfolio or type: %+v", inv)
		}
		if inv.Currency != f.account.Currency {
			t.Errorf("Expected currency %s, got %s", f.account.Currency, inv.Currency)
		}
		if got := f.balance(t); got != "650.00" {
			t.Errorf("Expected balance 650.00, got %s", got)
		}
		if got := f.quantity(t, inv.ID); got != "5" {
			t.Errorf("Expected quantity 5, got %s", got)
		}
	})

	t.Run("conserves total wealth at the purchase price", func(t *testing.T) {
		f := setupBuy(t, "500.00", "12.3456")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)
		valuation := testutil.NewTestValuationService(t, f.db)
		p := testutil.UserPrincipal(f.user)

		before, err := valuation.PortfolioSummary(context.Background(), p, "")
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}

		if _, err := svc.Buy(context.Background(), p, f.order("3.5")); err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}

		after, err := valuation.PortfolioSummary(context.Background(), p, "")
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}
		if !before.TotalPortfolioValue.Equal(after.TotalPortfolioValue) {
			t.Errorf("Expected total to stay %s, got %s", before.TotalPortfolioValue, after.TotalPortfolioValue)
		}
	})

	t.Run("spends the exact balance", func(t *testing.T) {
		f := setupBuy(t, "150.00", "50.00")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		if _, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("3")); err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}
		if got := f.balance(t); got != "0.00" {
			t.Errorf("Expected balance 0.00, got %s", got)
		}
	})

	t.Run("publishes a purchase event after commit", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)

		result, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("5"))
		if err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}

		published := f.recorder.Events()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		e := published[0]
		if e.Type != events.TypePurchaseCompleted || e.Key != f.account.ID {
			t.Errorf("Unexpected event envelope: %+v", e)
		}
		payload, ok := e.Payload.(events.PurchaseCompleted)
		if !ok {
			t.Fatalf("Unexpected payload type %T", e.Payload)
		}
		if payload.TransactionID != result.Transaction.ID || !payload.TotalCost.Equal(testutil.Dec("350")) {
			t.Errorf("Unexpected payload: %+v", payload)
		}
	})
}

// TestPurchaseService_Buy_Failure tests purchases that abort.
//
// WHY: A purchase that fails at any step must leave balances, holdings and the
// transaction log exactly as they were. Partial purchases would create or
// destroy money.
func TestPurchaseService_Buy_Failure(t *testing.T) {
	t.Run("insufficient funds changes nothing", func(t *testing.T) {
		f := setupBuy(t, "100.00", "50.00")
		holding := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).
			WithQuantity("1").
			Build(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)

		_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("3"))

		var insufficient *apperrors.InsufficientFundsError
		if !errors.As(err, &insufficient) {
			t.Fatalf("Expected InsufficientFundsError, got %v", err)
		}
		if !insufficient.Required.Equal(testutil.Dec("150")) || !insufficient.Available.Equal(testutil.Dec("100")) {
			t.Errorf("Expected required 150 available 100, got %s / %s", insufficient.Required, insufficient.Available)
		}
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Error("Expected errors.Is(err, ErrInsufficientFunds)")
		}

		if got := f.balance(t); got != "100.00" {
			t.Errorf("Expected balance 100.00, got %s", got)
		}
		if got := f.quantity(t, holding.ID); got != "1" {
			t.Errorf("Expected quantity 1, got %s", got)
		}
		testutil.AssertRowCount(t, f.db, "transactions", 0)
		if len(f.recorder.Events()) != 0 {
			t.Error("Expected no events for an aborted purchase")
		}
	})

	t.Run("store failure while logging rolls back debit and holding", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		holding := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).
			WithQuantity("2").
			Build(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)

		if _, err := f.db.Exec("DROP TABLE transactions"); err != nil {
			t.Fatalf("Failed to drop transactions: %v", err)
		}

		_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("5"))
		if !errors.Is(err, apperrors.ErrStore) {
			t.Fatalf("Expected a store error, got %v", err)
		}

		if got := f.balance(t); got != "1000.00" {
			t.Errorf("Expected balance 1000.00, got %s", got)
		}
		if got := f.quantity(t, holding.ID); got != "2" {
			t.Errorf("Expected quantity 2, got %s", got)
		}
	})

	t.Run("store failure rolls back a newly created holding", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		if _, err := f.db.Exec("DROP TABLE transactions"); err != nil {
			t.Fatalf("Failed to drop transactions: %v", err)
		}

		if _, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("5")); err == nil {
			t.Fatal("Expected error")
		}

		testutil.AssertRowCount(t, f.db, "investments", 0)
		if got := f.balance(t); got != "1000.00" {
			t.Errorf("Expected balance 1000.00, got %s", got)
		}
	})

	t.Run("first purchase without portfolio is a validation error", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		order := f.order("1")
		order.PortfolioID = ""
		order.AssetTypeID = ""

		_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), order)
		if !errors.Is(err, apperrors.ErrHoldingTargetRequired) {
			t.Errorf("Expected ErrHoldingTargetRequired, got %v", err)
		}
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) || len(ve.Fields) != 2 {
			t.Errorf("Expected 2 field errors, got %v", err)
		}
		if got := f.balance(t); got != "1000.00" {
			t.Errorf("Expected balance 1000.00, got %s", got)
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		for _, q := range []string{"0", "-2", "1.00001"} {
			_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order(q))
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput for quantity %s, got %v", q, err)
			}
		}
	})

	t.Run("unpriced asset", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "0")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("1"))
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing account and asset are integrity errors", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)
		p := testutil.UserPrincipal(f.user)

		order := f.order("1")
		order.AccountID = testutil.MakeID()
		_, err := svc.Buy(context.Background(), p, order)
		if !errors.Is(err, apperrors.ErrAccountNotFound) || !errors.Is(err, apperrors.ErrDataInconsistency) {
			t.Errorf("Expected missing account integrity error, got %v", err)
		}

		order = f.order("1")
		order.AssetID = testutil.MakeID()
		_, err = svc.Buy(context.Background(), p, order)
		if !errors.Is(err, apperrors.ErrAssetNotFound) || !errors.Is(err, apperrors.ErrDataInconsistency) {
			t.Errorf("Expected missing asset integrity error, got %v", err)
		}
	})

	t.Run("someone else's account is forbidden", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		other := testutil.CreateUser(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		order := f.order("1")
		order.UserID = other.ID
		_, err := svc.Buy(context.Background(), testutil.UserPrincipal(other), order)
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
		if got := f.balance(t); got != "1000.00" {
			t.Errorf("Expected balance 1000.00, got %s", got)
		}
	})

	t.Run("users cannot buy for others", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "70.00")
		other := testutil.CreateUser(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		_, err := svc.Buy(context.Background(), testutil.UserPrincipal(other), f.order("1"))
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}

// TestPurchaseService_Buy_HoldingResolution tests which investment a purchase adds to.
//
// WHY: A user can hold the same asset in several portfolios. Without an explicit
// rule the purchase would land in whichever row the store returned first.
func TestPurchaseService_Buy_HoldingResolution(t *testing.T) {
	t.Run("oldest holding wins without a portfolio", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "10.00")
		second := testutil.CreatePortfolio(t, f.db, f.user.ID, "Second")

		newer := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).
			WithCreatedAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).
			Build(t, f.db)
		older := testutil.NewInvestment(f.user.ID, second.ID, f.assetType.ID, f.asset.ID).
			WithCreatedAt(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).
			Build(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		order := f.order("1")
		order.PortfolioID = ""

		result, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), order)
		if err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}
		if result.Investment.ID != older.ID {
			t.Errorf("Expected oldest holding %s, got %s", older.ID, result.Investment.ID)
		}
		if got := f.quantity(t, newer.ID); got != "1" {
			t.Errorf("Expected newer holding untouched, got %s", got)
		}
	})

	t.Run("explicit portfolio overrides age", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "10.00")
		second := testutil.CreatePortfolio(t, f.db, f.user.ID, "Second")

		newer := testutil.NewInvestment(f.user.ID, f.portfolio.ID, f.assetType.ID, f.asset.ID).
			WithCreatedAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).
			Build(t, f.db)
		testutil.NewInvestment(f.user.ID, second.ID, f.assetType.ID, f.asset.ID).
			WithCreatedAt(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).
			Build(t, f.db)
		svc := testutil.NewTestPurchaseService(t, f.db, nil)

		result, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("1"))
		if err != nil {
			t.Fatalf("Buy() returned unexpected error: %v", err)
		}
		if result.Investment.ID != newer.ID {
			t.Errorf("Expected holding in named portfolio %s, got %s", newer.ID, result.Investment.ID)
		}
	})

	t.Run("second portfolio gets its own named holding", func(t *testing.T) {
		f := setupBuy(t, "1000.00", "10.00")
		svc := testutil.NewTestPurchaseService(t, f.db, nil)
		p := testutil.UserPrincipal(f.user)

		if _, err := svc.Buy(context.Background(), p, f.order("1")); err != nil {
			t.Fatalf("first Buy() returned unexpected error: %v", err)
		}

		second := testutil.CreatePortfolio(t, f.db, f.user.ID, "Second")
		order := f.order("1")
		order.PortfolioID = second.ID

		result, err := svc.Buy(context.Background(), p, order)
		if err != nil {
			t.Fatalf("second Buy() returned unexpected error: %v", err)
		}
		if !result.CreatedHolding || result.Investment.Name != "Gold Holdings (Second)" {
			t.Errorf("Expected new holding 'Gold Holdings (Second)', got %q", result.Investment.Name)
		}
		testutil.AssertRowCount(t, f.db, "investments", 2)
	})
}

// TestPurchaseService_Buy_Concurrent tests that concurrent purchases cannot overspend.
//
// WHY: Two purchases that both read the same balance would each succeed and
// drive the account below zero.
func TestPurchaseService_Buy_Concurrent(t *testing.T) {
	f := setupBuy(t, "100.00", "30.00")
	svc := testutil.NewTestPurchaseService(t, f.db, nil)
	p := testutil.UserPrincipal(f.user)

	const buyers = 6
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Buy(context.Background(), p, f.order("1"))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrConcurrentModification):
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if succeeded != 3 {
		t.Errorf("Expected 3 purchases to succeed, got %d", succeeded)
	}
	if got := f.balance(t); got != "10.00" {
		t.Errorf("Expected balance 10.00, got %s", got)
	}
	testutil.AssertRowCount(t, f.db, "transactions", succeeded)
}

// TestPurchaseService_Buy_Rounding tests purchases whose cost is not a whole number of cents.
//
// WHY: The debit is the cost rounded to cents. An order that rounds to zero would
// add units to a holding without spending anything, so it must be refused, and
// an order that rounds must debit and log the same rounded amount.
func TestPurchaseService_Buy_Rounding(t *testing.T) {
	t.Run("refuses orders that cost less than a cent", func(t *testing.T) {
		f := setupBuy(t, "1.00", "10.00")
		svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)

		for i := 0; i < 20; i++ {
			_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("0.0004"))

			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Buy %d: expected ValidationError, got %v", i, err)
			}
			if _, ok := verr.Fields["quantity"]; !ok {
				t.Fatalf("Buy %d: expected quantity field error, got %v", i, verr.Fields)
			}
		}

		if got := f.balance(t); got != "1.00" {
			t.Errorf("Expected balance 1.00, got %s", got)
		}
		testutil.AssertRowCount(t, f.db, "investments", 0)
		testutil.AssertRowCount(t, f.db, "transactions", 0)
		if got := len(f.recorder.Events()); got != 0 {
			t.Errorf("Expected no events, got %d", got)
		}
	})

	tests := []struct {
		name     string
		balance  string
		price    string
		quantity string
		cost     string
		after    string
	}{
		{"half a cent rounds up", "1000.00", "10.00", "0.0005", "0.01", "999.99"},
		{"fractional price rounds to the nearest cent", "500.00", "12.3456", "3.5", "43.21", "456.79"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupBuy(t, tt.balance, tt.price)
			svc := testutil.NewTestPurchaseService(t, f.db, nil)

			result, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order(tt.quantity))
			if err != nil {
				t.Fatalf("Buy() returned unexpected error: %v", err)
			}

			if got := f.balance(t); got != tt.after {
				t.Errorf("Expected balance %s, got %s", tt.after, got)
			}
			if !result.TotalCost.Equal(testutil.Dec(tt.cost)) {
				t.Errorf("Expected total cost %s, got %s", tt.cost, result.TotalCost)
			}
			if got := f.quantity(t, result.Investment.ID); !testutil.Dec(got).Equal(testutil.Dec(tt.quantity)) {
				t.Errorf("Expected quantity %s, got %s", tt.quantity, got)
			}

			txn, err := repository.NewTransactionRepository(f.db).GetTransaction(context.Background(), result.Transaction.ID)
			if err != nil {
				t.Fatalf("Failed to load transaction: %v", err)
			}
			if !txn.Amount.Equal(testutil.Dec(tt.cost)) {
				t.Errorf("Expected logged amount %s, got %s", tt.cost, txn.Amount)
			}
			if txn.Quantity == nil || !txn.Quantity.Equal(testutil.Dec(tt.quantity)) {
				t.Errorf("Expected logged quantity %s, got %v", tt.quantity, txn.Quantity)
			}
		})
	}
}

func TestPurchaseService_Buy_StoreUnavailable(t *testing.T) {
	f := setupBuy(t, "1000.00", "70.00")
	svc := testutil.NewTestPurchaseService(t, f.db, f.recorder)
	f.db.Close()

	_, err := svc.Buy(context.Background(), testutil.UserPrincipal(f.user), f.order("1"))

	var storeErr *apperrors.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Expected StoreError, got %v", err)
	}
	if storeErr.Kind != apperrors.StoreFailure {
		t.Errorf("Expected kind %s, got %s", apperrors.StoreFailure, storeErr.Kind)
	}
	if !errors.Is(err, apperrors.ErrStore) {
		t.Error("Expected errors.Is(err, ErrStore)")
	}
	if got := len(f.recorder.Events()); got != 0 {
		t.Errorf("Expected no events, got %d", got)
	}
}
