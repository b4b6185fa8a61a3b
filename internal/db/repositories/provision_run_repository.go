package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/models/entities"
	"live-airlines/provisioner/internal/models/gorm"
)

// ProvisionRunRepo stores provisioning history. Writes go through GORM,
// listing uses plain SQL through sqlx on the same connection pool.
type ProvisionRunRepo struct {
	db *gormlib.DB
	sx *sqlx.DB
}

func NewProvisionRunRepo(db *gormlib.DB) (*ProvisionRunRepo, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("history: underlying sql.DB: %w", err)
	}
	return &ProvisionRunRepo{
		db: db,
		sx: sqlx.NewDb(sqlDB, db.Dialector.Name()),
	}, nil
}

// Migrate creates or updates the provision_runs table
func (r *ProvisionRunRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&gorm.ProvisionRun{})
}

// Record inserts a finished run
func (r *ProvisionRunRepo) Record(ctx context.Context, run *gorm.ProvisionRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("record provision run %s: %w", run.ID, err)
	}
	return nil
}

// ListRecent returns the latest runs for a database, newest first
func (r *ProvisionRunRepo) ListRecent(ctx context.Context, database string, limit int) ([]entities.ProvisionRun, error) {
	runs := []entities.ProvisionRun{}
	query := r.sx.Rebind(constants.ListRecentProvisionRuns)
	if err := r.sx.SelectContext(ctx, &runs, query, database, limit); err != nil {
		return nil, fmt.Errorf("list provision runs: %w", err)
	}
	return runs, nil
}

// LastSuccess returns the most recent successful run, or nil when there is none
func (r *ProvisionRunRepo) LastSuccess(ctx context.Context, database string) (*entities.ProvisionRun, error) {
	var run entities.ProvisionRun
	query := r.sx.Rebind(constants.LastSuccessfulProvisionRun)
	err := r.sx.GetContext(ctx, &run, query, database)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last successful provision run: %w", err)
	}
	return &run, nil
}

// Ping checks the history database connection
func (r *ProvisionRunRepo) Ping(ctx context.Context) error {
	return r.sx.PingContext(ctx)
}

// Close closes the shared connection pool
func (r *ProvisionRunRepo) Close() error {
	return r.sx.Close()
}
