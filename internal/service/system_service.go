package service

import (
	"context"
	"database/sql"
	"fmt"
	"maps"

	"github.com/ndewijer/stock-portfolio-tracker/internal/database"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
	"github.com/ndewijer/stock-portfolio-tracker/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	quotes   *quote.Cache
	features map[string]bool
}

// NewSystemService creates a new SystemService. features is reported as-is by CheckVersion.
func NewSystemService(db *sql.DB, quotes *quote.Cache, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		quotes:   quotes,
		features: maps.Clone(features),
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and whether the database schema
// is behind the migrations shipped with the binary.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	current, latest, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  fmt.Sprintf("%d", current),
		Features:   s.features,
	}
	if info.Features == nil {
		info.Features = map[string]bool{}
	}

	if current < latest {
		msg := fmt.Sprintf("database schema is at version %d, latest is %d", current, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}

	return info, nil
}

// CacheStats reports the size of the quote cache.
func (s *SystemService) CacheStats() model.CacheStats {
	return model.CacheStats{
		Entries:         s.quotes.Len(),
		FreshnessWindow: quote.FreshnessWindow.String(),
	}
}
