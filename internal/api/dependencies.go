package api

import (
	"context"
	"time"

	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/models/entities"
	"live-airlines/provisioner/internal/schema"
)

// SchemaService is the part of services.ProvisionService the handlers use.
type SchemaService interface {
	Provision(ctx context.Context) (*schema.Report, error)
	Verify(ctx context.Context) (*schema.VerifyReport, error)
}

// RunHistory lists past provisioning runs.
type RunHistory interface {
	ListRecent(ctx context.Context, database string, limit int) ([]entities.ProvisionRun, error)
	LastSuccess(ctx context.Context, database string) (*entities.ProvisionRun, error)
}

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	Database string
	Schema   SchemaService

	// History is nil when no HISTORY_DSN is configured.
	History RunHistory
	Cache   common.CacheInterface

	// VerifyTTL is how long a verify report is served from cache.
	VerifyTTL time.Duration

	// Checks are keyed by service name ("mongodb", "redis", "history").
	Checks map[string]HealthCheck
}
