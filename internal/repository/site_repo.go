package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/database"
)

// SiteRepository handles construction site database operations
type SiteRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *database.DB, logger *zap.Logger) *SiteRepository {
	return &SiteRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new site
func (r *SiteRepository) Create(ctx context.Context, site *entity.Site) error {
	query := `
		INSERT INTO sites (id, name, supervisor_user_id)
		VALUES (?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, site.ID, site.Name, site.SupervisorUserID)
	if err != nil {
		r.logger.Error("Failed to create site", zap.String("id", site.ID), zap.Error(err))
		return fmt.Errorf("failed to create site: %w", err)
	}
	return nil
}

// GetByID retrieves a site by ID
func (r *SiteRepository) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	query := `
		SELECT id, name, supervisor_user_id, created_at
		FROM sites
		WHERE id = ?
	`

	var site entity.Site
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&site.ID,
		&site.Name,
		&site.SupervisorUserID,
		&site.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("site", id)
	}
	if err != nil {
		r.logger.Error("Failed to get site", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return &site, nil
}
