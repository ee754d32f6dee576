package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nkoopman/dividend-tracker-backend/internal/model"
	"github.com/nkoopman/dividend-tracker-backend/internal/repository"
)

// CreateHolding inserts a holding row with plausible snapshot values and
// returns it. Use it to seed state the test itself is not about.
func CreateHolding(t *testing.T, db *sql.DB, ownerID, ticker string, shares int) model.Holding {
	t.Helper()

	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	holding := model.Holding{
		ID:                   uuid.New().String(),
		OwnerID:              ownerID,
		Ticker:               ticker,
		CompanyName:          ticker + " Inc.",
		Shares:               shares,
		CurrentPrice:         100,
		DividendYieldPercent: 2.5,
		TotalValue:           100 * float64(shares),
		MonthlyDividend:      2.5 * float64(shares) / 12,
		CreatedAt:            created,
		UpdatedAt:            created,
	}

	repo := repository.NewHoldingRepository(db)
	if err := repo.InsertHolding(context.Background(), &holding); err != nil {
		t.Fatalf("Failed to insert test holding %s: %v", ticker, err)
	}

	return holding
}
