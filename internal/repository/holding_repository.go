package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// Every read and write is scoped by owner ID; the owner ID is the sole
// tenancy boundary and always comes from the verified credential, never
// from client-supplied request fields.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

const holdingColumns = `id, owner_id, ticker, company_name, shares,
	current_price, dividend_yield, total_value, monthly_dividend,
	created_at, updated_at`

// GetHoldingsByOwner retrieves all holdings belonging to an owner, ordered
// by ticker. Returns an empty slice when the owner has no holdings.
func (s *HoldingRepository) GetHoldingsByOwner(ownerID string) ([]model.Holding, error) {
	query := `
          SELECT ` + holdingColumns + `
          FROM holding
          WHERE owner_id = ?
          ORDER BY ticker
      `

	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// GetAllHoldings retrieves every holding in the system, ordered by ticker.
// Used by the scheduled system-wide refresh, which crosses owner boundaries
// by design and is never reachable from an owner-facing operation.
func (s *HoldingRepository) GetAllHoldings() ([]model.Holding, error) {
	query := `
          SELECT ` + holdingColumns + `
          FROM holding
          ORDER BY ticker
      `

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// GetHoldingOnID retrieves a single holding by ID, scoped to the owner.
// Returns apperrors.ErrHoldingNotFound if no such holding exists for the
// owner, including when the ID belongs to another owner.
func (s *HoldingRepository) GetHoldingOnID(ownerID, holdingID string) (model.Holding, error) {
	query := `
          SELECT ` + holdingColumns + `
          FROM holding
          WHERE id = ? AND owner_id = ?
      `

	row := s.db.QueryRow(query, holdingID, ownerID)
	h, err := scanHolding(row)
	if err == sql.ErrNoRows {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding: %w", err)
	}

	return h, nil
}

// TickerExists reports whether the owner already has a holding for the
// (already normalized) ticker.
func (s *HoldingRepository) TickerExists(ownerID, ticker string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM holding WHERE owner_id = ? AND ticker = ?",
		ownerID, ticker,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check ticker existence: %w", err)
	}

	return count > 0, nil
}

// InsertHolding inserts a fully populated holding. The (owner_id, ticker)
// uniqueness constraint backs the duplicate pre-check in the service layer;
// a constraint violation maps to apperrors.ErrDuplicateHolding.
func (s *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	query := `
          INSERT INTO holding (` + holdingColumns + `)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
      `

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.OwnerID,
		h.Ticker,
		h.CompanyName,
		h.Shares,
		h.CurrentPrice,
		h.DividendYieldPercent,
		h.TotalValue,
		h.MonthlyDividend,
		h.CreatedAt.UTC().Format(time.RFC3339),
		h.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateHolding
		}
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// UpdateSnapshot persists a refreshed snapshot for an existing holding.
// Only the mutable fields change: shares, the derived metrics and
// updated_at. Ticker, owner, ID and created_at are immutable after insert.
func (s *HoldingRepository) UpdateSnapshot(ctx context.Context, h model.Holding) error {
	query := `
          UPDATE holding
          SET shares = ?, current_price = ?, dividend_yield = ?,
              total_value = ?, monthly_dividend = ?, updated_at = ?
          WHERE id = ? AND owner_id = ?
      `

	result, err := s.db.ExecContext(ctx, query,
		h.Shares,
		h.CurrentPrice,
		h.DividendYieldPercent,
		h.TotalValue,
		h.MonthlyDividend,
		h.UpdatedAt.UTC().Format(time.RFC3339),
		h.ID,
		h.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// DeleteHolding removes a holding, scoped to the owner.
// Returns apperrors.ErrHoldingNotFound if nothing was deleted.
func (s *HoldingRepository) DeleteHolding(ctx context.Context, ownerID, holdingID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM holding WHERE id = ? AND owner_id = ?",
		holdingID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for holding scans.
type scanner interface {
	Scan(dest ...any) error
}

func scanHolding(row scanner) (model.Holding, error) {
	var h model.Holding
	var createdAt, updatedAt string

	err := row.Scan(
		&h.ID,
		&h.OwnerID,
		&h.Ticker,
		&h.CompanyName,
		&h.Shares,
		&h.CurrentPrice,
		&h.DividendYieldPercent,
		&h.TotalValue,
		&h.MonthlyDividend,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Holding{}, err
	}

	if h.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Holding{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if h.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Holding{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return h, nil
}

func scanHoldings(rows *sql.Rows) ([]model.Holding, error) {
	holdings := []model.Holding{}

	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}
