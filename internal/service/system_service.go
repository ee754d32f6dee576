package service

import (
	"database/sql"
	"fmt"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/database"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
)

// AppVersion is the application release identifier reported by the version
// endpoint.
const AppVersion = "1.2.0"

// SystemService provides health and version information about the running
// instance.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a SystemService backed by the given database.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// CheckHealth verifies that the database connection is alive.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the application version and the applied schema
// version.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetVersionInfo, err)
	}

	return model.VersionInfo{
		AppVersion: AppVersion,
		DBVersion:  dbVersion,
	}, nil
}
