package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/testutil"
)

// TestQuoteService_GetQuote tests quote retrieval and caching.
//
// WHY: The quote cache is what keeps a portfolio refresh from issuing one
// upstream call per holding per second. These tests pin the read-through
// behavior and the error contract the handlers map onto HTTP statuses.
func TestQuoteService_GetQuote(t *testing.T) {
	t.Run("fetches quote on cache miss", func(t *testing.T) {
		// Setup
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 150.00, "Apple Inc.")
		svc := testutil.NewTestQuoteService(mock)

		// Execute
		quote, err := svc.GetQuote(context.Background(), "AAPL")

		// Assert
		if err != nil {
			t.Fatalf("GetQuote() returned unexpected error: %v", err)
		}
		if quote.Price != 150.00 {
			t.Errorf("Expected price 150.00, got %v", quote.Price)
		}
		if quote.Name != "Apple Inc." {
			t.Errorf("Expected name 'Apple Inc.', got %q", quote.Name)
		}
	})

	t.Run("serves second lookup from cache", func(t *testing.T) {
		// Setup
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 150.00, "Apple Inc.")
		svc := testutil.NewTestQuoteService(mock)

		// Execute
		if _, err := svc.GetQuote(context.Background(), "AAPL"); err != nil {
			t.Fatalf("First GetQuote() returned unexpected error: %v", err)
		}
		if _, err := svc.GetQuote(context.Background(), "AAPL"); err != nil {
			t.Fatalf("Second GetQuote() returned unexpected error: %v", err)
		}

		// Assert
		quotes, _, _ := mock.Calls()
		if quotes != 1 {
			t.Errorf("Expected 1 upstream call, got %d", quotes)
		}
	})

	t.Run("differently cased tickers share one cache entry", func(t *testing.T) {
		// Setup
		mock := testutil.NewMockFMPClient().WithQuote("AAPL", 150.00, "Apple Inc.")
		svc := testutil.NewTestQuoteService(mock)

		// Execute
		if _, err := svc.GetQuote(context.Background(), "aapl"); err != nil {
			t.Fatalf("GetQuote(aapl) returned unexpected error: %v", err)
		}
		if _, err := svc.GetQuote(context.Background(), "AAPL"); err != nil {
			t.Fatalf("GetQuote(AAPL) returned unexpected error: %v", err)
		}

		// Assert
		quotes, _, _ := mock.Calls()
		if quotes != 1 {
			t.Errorf("Expected 1 upstream call, got %d", quotes)
		}
	})

	t.Run("returns ErrSymbolNotFound for unknown ticker", func(t *testing.T) {
		mock := testutil.NewMockFMPClient()
		svc := testutil.NewTestQuoteService(mock)

		_, err := svc.GetQuote(context.Background(), "NOPE")

		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})

	t.Run("propagates upstream failure", func(t *testing.T) {
		mock := testutil.NewMockFMPClient().WithQuoteError("AAPL",
			fmt.Errorf("%w: status 503", apperrors.ErrUpstreamUnavailable))
		svc := testutil.NewTestQuoteService(mock)

		_, err := svc.GetQuote(context.Background(), "AAPL")

		if !errors.Is(err, apperrors.ErrUpstreamUnavailable) {
			t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
		}
	})

	t.Run("failed lookups are not cached", func(t *testing.T) {
		// Setup
		mock := testutil.NewMockFMPClient().WithQuoteError("AAPL",
			fmt.Errorf("%w: status 503", apperrors.ErrUpstreamUnavailable))
		svc := testutil.NewTestQuoteService(mock)

		// Execute: fail once, then recover the upstream
		if _, err := svc.GetQuote(context.Background(), "AAPL"); err == nil {
			t.Fatal("Expected error from first lookup")
		}
		delete(mock.QuoteErrs, "AAPL")
		mock.WithQuote("AAPL", 150.00, "Apple Inc.")

		quote, err := svc.GetQuote(context.Background(), "AAPL")

		// Assert
		if err != nil {
			t.Fatalf("GetQuote() after recovery returned unexpected error: %v", err)
		}
		if quote.Price != 150.00 {
			t.Errorf("Expected price 150.00, got %v", quote.Price)
		}
	})
}
