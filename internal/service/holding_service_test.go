package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/repository"
	"github.com/nkoopman/dividend-tracker-backend/internal/testutil"
)

const testOwner = "owner-1"

// TestHoldingService_CreateHolding tests holding creation.
//
// WHY: Creation must persist a fully populated snapshot or nothing at all,
// and must enforce per-owner ticker uniqueness case-insensitively.
func TestHoldingService_CreateHolding(t *testing.T) {
	t.Run("creates holding with derived metrics", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 150.00, "Apple Inc.").
			WithProfile("AAPL", "Apple Inc.").
			WithDividends("AAPL",
				testutil.Event(testNow.AddDate(0, -2, 0), 1.00),
				testutil.Event(testNow.AddDate(0, -8, 0), 1.00),
			)
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		holding, err := svc.CreateHolding(context.Background(), testOwner, "AAPL", 100)

		// Assert
		if err != nil {
			t.Fatalf("CreateHolding() returned unexpected error: %v", err)
		}
		if holding.Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %q", holding.Ticker)
		}
		if holding.CompanyName != "Apple Inc." {
			t.Errorf("Expected company name 'Apple Inc.', got %q", holding.CompanyName)
		}
		if holding.CurrentPrice != 150.00 {
			t.Errorf("Expected price 150.00, got %v", holding.CurrentPrice)
		}
		if holding.TotalValue != 15000.00 {
			t.Errorf("Expected total value 15000.00, got %v", holding.TotalValue)
		}
		// 2.00 annual * 100 shares / 12
		if holding.MonthlyDividend != 200.0/12 {
			t.Errorf("Expected monthly dividend %v, got %v", 200.0/12, holding.MonthlyDividend)
		}

		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("normalizes ticker before storing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 150.00, "Apple Inc.")
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		holding, err := svc.CreateHolding(context.Background(), testOwner, " aapl ", 10)

		if err != nil {
			t.Fatalf("CreateHolding() returned unexpected error: %v", err)
		}
		if holding.Ticker != "AAPL" {
			t.Errorf("Expected normalized ticker AAPL, got %q", holding.Ticker)
		}
	})

	t.Run("rejects duplicate ticker case-insensitively", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 150.00, "Apple Inc.")
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		if _, err := svc.CreateHolding(context.Background(), testOwner, "AAPL", 10); err != nil {
			t.Fatalf("First CreateHolding() returned unexpected error: %v", err)
		}

		// Execute: same ticker, different case
		_, err := svc.CreateHolding(context.Background(), testOwner, "aapl", 5)

		// Assert
		if !errors.Is(err, apperrors.ErrDuplicateHolding) {
			t.Errorf("Expected ErrDuplicateHolding, got %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("same ticker allowed for different owners", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 150.00, "Apple Inc.")
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		if _, err := svc.CreateHolding(context.Background(), "owner-1", "AAPL", 10); err != nil {
			t.Fatalf("CreateHolding() for owner-1 returned unexpected error: %v", err)
		}
		if _, err := svc.CreateHolding(context.Background(), "owner-2", "AAPL", 20); err != nil {
			t.Fatalf("CreateHolding() for owner-2 returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "holding", 2)
	})

	t.Run("unknown symbol creates nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFMPClient()
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		_, err := svc.CreateHolding(context.Background(), testOwner, "NOPE", 10)

		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
	})

	t.Run("profile failure does not block creation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 150.00, "Apple Inc.").
			WithProfileError("AAPL",
				fmt.Errorf("%w: status 500", apperrors.ErrUpstreamUnavailable))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		holding, err := svc.CreateHolding(context.Background(), testOwner, "AAPL", 10)

		if err != nil {
			t.Fatalf("CreateHolding() returned unexpected error: %v", err)
		}
		if holding.CompanyName != "AAPL" {
			t.Errorf("Expected ticker fallback company name, got %q", holding.CompanyName)
		}
	})
}

// TestHoldingService_UpdateHolding tests share count edits.
//
// WHY: A share edit re-derives the snapshot; dividend and yield integrity is
// mandatory on this path, so upstream failure must fail the edit whole.
func TestHoldingService_UpdateHolding(t *testing.T) {
	t.Run("updates shares and re-derives metrics", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 200.00, "Apple Inc.").
			WithDividends("AAPL", testutil.Event(testNow.AddDate(0, -1, 0), 3.00))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		holding, err := svc.UpdateHolding(context.Background(), testOwner, seeded.ID, 25)

		// Assert
		if err != nil {
			t.Fatalf("UpdateHolding() returned unexpected error: %v", err)
		}
		if holding.Shares != 25 {
			t.Errorf("Expected 25 shares, got %d", holding.Shares)
		}
		if holding.TotalValue != 5000.00 {
			t.Errorf("Expected total value 5000.00, got %v", holding.TotalValue)
		}
		if holding.MonthlyDividend != 3.00*25/12 {
			t.Errorf("Expected monthly dividend %v, got %v", 3.00*25/12, holding.MonthlyDividend)
		}

		// Persisted too
		repo := repository.NewHoldingRepository(db)
		stored, err := repo.GetHoldingOnID(testOwner, seeded.ID)
		if err != nil {
			t.Fatalf("GetHoldingOnID() returned unexpected error: %v", err)
		}
		if stored.Shares != 25 || stored.TotalValue != 5000.00 {
			t.Errorf("Stored snapshot not updated: %+v", stored)
		}
	})

	t.Run("returns ErrHoldingNotFound for another owner's holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, "owner-2", "AAPL", 10)
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 200.00, "Apple Inc.")
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		_, err := svc.UpdateHolding(context.Background(), testOwner, seeded.ID, 25)

		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound, got %v", err)
		}
	})

	t.Run("upstream failure leaves stored snapshot untouched", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		mock := testutil.NewMockFMPClient().WithQuoteError("AAPL",
			fmt.Errorf("%w: status 503", apperrors.ErrUpstreamUnavailable))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		_, err := svc.UpdateHolding(context.Background(), testOwner, seeded.ID, 25)

		// Assert
		if !errors.Is(err, apperrors.ErrUpstreamUnavailable) {
			t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
		}

		repo := repository.NewHoldingRepository(db)
		stored, _ := repo.GetHoldingOnID(testOwner, seeded.ID)
		if stored.Shares != 10 || stored.CurrentPrice != seeded.CurrentPrice {
			t.Errorf("Snapshot changed despite failed update: %+v", stored)
		}
	})
}

// TestHoldingService_RefreshHolding tests single-holding refresh.
func TestHoldingService_RefreshHolding(t *testing.T) {
	t.Run("is idempotent with unchanged upstream data", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 175.50, "Apple Inc.").
			WithDividends("AAPL", testutil.Event(testNow.AddDate(0, -3, 0), 0.96))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		first, err := svc.RefreshHolding(context.Background(), testOwner, seeded.ID)
		if err != nil {
			t.Fatalf("First RefreshHolding() returned unexpected error: %v", err)
		}
		second, err := svc.RefreshHolding(context.Background(), testOwner, seeded.ID)
		if err != nil {
			t.Fatalf("Second RefreshHolding() returned unexpected error: %v", err)
		}

		// Assert
		if first != second {
			t.Errorf("Expected identical snapshots, got\n%+v\n%+v", first, second)
		}
	})

	t.Run("does not apply results after context cancellation", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 999.00, "Apple Inc.")
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Execute
		_, err := svc.RefreshHolding(ctx, testOwner, seeded.ID)

		// Assert
		if err == nil {
			t.Fatal("Expected error from cancelled refresh")
		}

		repo := repository.NewHoldingRepository(db)
		stored, _ := repo.GetHoldingOnID(testOwner, seeded.ID)
		if stored.CurrentPrice != seeded.CurrentPrice {
			t.Errorf("Snapshot applied despite cancelled context: %+v", stored)
		}
	})
}

// TestHoldingService_RefreshAllHoldings tests the bulk refresh quarantine.
//
// WHY: One bad ticker must not take down the whole portfolio view. Failed
// holdings keep their previous snapshot and the rest still refresh.
func TestHoldingService_RefreshAllHoldings(t *testing.T) {
	t.Run("quarantines failed holdings and refreshes the rest", func(t *testing.T) {
		// Setup: three holdings, BAD's dividend feed fails
		db := testutil.SetupTestDB(t)
		testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		bad := testutil.CreateHolding(t, db, testOwner, "BAD", 5)
		testutil.CreateHolding(t, db, testOwner, "MSFT", 20)

		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 150.00, "Apple Inc.").
			WithQuote("BAD", 10.00, "Bad Corp").
			WithQuote("MSFT", 300.00, "Microsoft Corporation").
			WithDividends("AAPL", testutil.Event(testNow.AddDate(0, -1, 0), 1.00)).
			WithDividends("MSFT", testutil.Event(testNow.AddDate(0, -1, 0), 3.00)).
			WithDividendError("BAD",
				fmt.Errorf("%w: status 500", apperrors.ErrUpstreamUnavailable))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		results, err := svc.RefreshAllHoldings(context.Background(), testOwner)

		// Assert
		if err != nil {
			t.Fatalf("RefreshAllHoldings() returned unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("Expected 3 results, got %d", len(results))
		}

		refreshed := 0
		for _, result := range results {
			if result.Refreshed {
				refreshed++
				continue
			}
			// The quarantined unit keeps its prior snapshot
			if result.Holding.Ticker != "BAD" {
				t.Errorf("Unexpected retained holding %s", result.Holding.Ticker)
			}
			if result.Err == nil {
				t.Error("Expected retained holding to carry its error")
			}
			if result.Holding.CurrentPrice != bad.CurrentPrice {
				t.Errorf("Retained holding was modified: %+v", result.Holding)
			}
		}
		if refreshed != 2 {
			t.Errorf("Expected 2 refreshed holdings, got %d", refreshed)
		}

		// Stored BAD snapshot is untouched
		repo := repository.NewHoldingRepository(db)
		stored, _ := repo.GetHoldingOnID(testOwner, bad.ID)
		if stored.CurrentPrice != bad.CurrentPrice || stored.UpdatedAt != bad.UpdatedAt {
			t.Errorf("Stored snapshot of failed holding changed: %+v", stored)
		}
	})

	t.Run("maintains metric invariants across refreshed holdings", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		testutil.CreateHolding(t, db, testOwner, "MSFT", 20)

		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 150.00, "Apple Inc.").
			WithQuote("MSFT", 300.00, "Microsoft Corporation").
			WithDividends("AAPL", testutil.Event(testNow.AddDate(0, -1, 0), 1.00)).
			WithDividends("MSFT", testutil.Event(testNow.AddDate(0, -1, 0), 3.00))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		results, err := svc.RefreshAllHoldings(context.Background(), testOwner)
		if err != nil {
			t.Fatalf("RefreshAllHoldings() returned unexpected error: %v", err)
		}

		// Assert: totalValue = price*shares, monthlyDividend = annual*shares/12
		annual := map[string]float64{"AAPL": 1.00, "MSFT": 3.00}
		for _, result := range results {
			h := result.Holding
			if !result.Refreshed {
				t.Errorf("Expected %s to refresh, got error %v", h.Ticker, result.Err)
				continue
			}
			if h.TotalValue != h.CurrentPrice*float64(h.Shares) {
				t.Errorf("%s: total value %v != price %v * shares %d",
					h.Ticker, h.TotalValue, h.CurrentPrice, h.Shares)
			}
			expected := annual[h.Ticker] * float64(h.Shares) / 12
			if h.MonthlyDividend != expected {
				t.Errorf("%s: monthly dividend %v, expected %v", h.Ticker, h.MonthlyDividend, expected)
			}
		}
	})

	t.Run("only refreshes the requesting owner's holdings", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		other := testutil.CreateHolding(t, db, "owner-2", "MSFT", 20)

		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 150.00, "Apple Inc.").
			WithQuote("MSFT", 300.00, "Microsoft Corporation")
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		results, err := svc.RefreshAllHoldings(context.Background(), testOwner)

		// Assert
		if err != nil {
			t.Fatalf("RefreshAllHoldings() returned unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].Holding.Ticker != "AAPL" {
			t.Fatalf("Expected only AAPL in results, got %+v", results)
		}

		repo := repository.NewHoldingRepository(db)
		stored, _ := repo.GetHoldingOnID("owner-2", other.ID)
		if stored.CurrentPrice != other.CurrentPrice {
			t.Errorf("Other owner's holding was refreshed: %+v", stored)
		}
	})
}

// TestHoldingService_RefreshSystem tests the cross-owner refresh used by the
// schedule and the internal endpoint.
func TestHoldingService_RefreshSystem(t *testing.T) {
	t.Run("refreshes holdings across owners and counts outcomes", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.CreateHolding(t, db, "owner-1", "AAPL", 10)
		testutil.CreateHolding(t, db, "owner-2", "MSFT", 20)
		testutil.CreateHolding(t, db, "owner-2", "BAD", 5)

		mock := testutil.NewMockFMPClient().
			WithQuote("AAPL", 150.00, "Apple Inc.").
			WithQuote("MSFT", 300.00, "Microsoft Corporation").
			WithQuoteError("BAD",
				fmt.Errorf("%w: status 503", apperrors.ErrUpstreamUnavailable))
		svc := testutil.NewTestHoldingService(db, mock, fixedClock)

		// Execute
		refreshed, retained, err := svc.RefreshSystem(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("RefreshSystem() returned unexpected error: %v", err)
		}
		if refreshed != 2 {
			t.Errorf("Expected 2 refreshed, got %d", refreshed)
		}
		if retained != 1 {
			t.Errorf("Expected 1 retained, got %d", retained)
		}
	})
}

// TestHoldingService_DeleteHolding tests deletion scoping.
func TestHoldingService_DeleteHolding(t *testing.T) {
	t.Run("deletes own holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, testOwner, "AAPL", 10)
		svc := testutil.NewTestHoldingService(db, testutil.NewMockFMPClient(), fixedClock)

		if err := svc.DeleteHolding(context.Background(), testOwner, seeded.ID); err != nil {
			t.Fatalf("DeleteHolding() returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "holding", 0)
	})

	t.Run("cannot delete another owner's holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		seeded := testutil.CreateHolding(t, db, "owner-2", "AAPL", 10)
		svc := testutil.NewTestHoldingService(db, testutil.NewMockFMPClient(), fixedClock)

		err := svc.DeleteHolding(context.Background(), testOwner, seeded.ID)

		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound, got %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 1)
	})
}
