package services

import (
	"context"

	"live-airlines/provisioner/internal/metrics"
)

// DocumentStore is the document-level access the maintenance commands need.
type DocumentStore interface {
	Database() string
	InsertOne(ctx context.Context, collection string, doc interface{}) error
	InsertMany(ctx context.Context, collection string, docs []interface{}) (int, error)
	Exists(ctx context.Context, collection string, filter interface{}) (bool, error)
	DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, collection string) (int64, error)
	DropDatabase(ctx context.Context) error
}

// MaintenanceService groups the operational commands that sit next to
// provisioning: smoke test, seeding, retention purge and drop.
type MaintenanceService struct {
	store   DocumentStore
	metrics *metrics.MetricsRegistry
}

func NewMaintenanceService(store DocumentStore, metricsReg *metrics.MetricsRegistry) *MaintenanceService {
	return &MaintenanceService{store: store, metrics: metricsReg}
}
