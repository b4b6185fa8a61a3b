package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/metrics"
	"live-airlines/provisioner/internal/models/gorm"
	"live-airlines/provisioner/internal/schema"
)

// RunRecorder persists provisioning history.
type RunRecorder interface {
	Record(ctx context.Context, run *gorm.ProvisionRun) error
}

// ProvisionService wraps a schema.Provisioner with the cross-instance lock,
// run history and metrics.
type ProvisionService struct {
	provisioner *schema.Provisioner
	database    string
	lock        common.Locker
	history     RunRecorder
	metrics     *metrics.MetricsRegistry
	host        string
}

// NewProvisionService builds the service. lock and history are optional.
func NewProvisionService(
	provisioner *schema.Provisioner,
	database string,
	lock common.Locker,
	history RunRecorder,
	metricsReg *metrics.MetricsRegistry,
) *ProvisionService {
	if lock == nil {
		lock = common.NoopLock{}
	}
	host, _ := os.Hostname()
	return &ProvisionService{
		provisioner: provisioner,
		database:    database,
		lock:        lock,
		history:     history,
		metrics:     metricsReg,
		host:        host,
	}
}

// StepMetrics counts every provisioning step by outcome.
func StepMetrics(m *metrics.MetricsRegistry) schema.StepObserver {
	return func(s schema.Step) {
		m.SchemaStepsTotal.WithLabelValues(string(s.Kind), s.Collection, string(s.Outcome)).Inc()
	}
}

// Provision runs the provisioner under the schema lock and records the run.
func (s *ProvisionService) Provision(ctx context.Context) (*schema.Report, error) {
	runID := uuid.NewString()
	log := logging.WithRun(runID, s.database, constants.CommandProvision)
	startedAt := time.Now()

	release, err := s.lock.Acquire(ctx, common.LockKey(s.database))
	if err != nil {
		log.Warnw("Could not acquire schema lock", "error", err.Error())
		s.finish(ctx, runID, &schema.Report{Database: s.database, StartedAt: startedAt, FinishedAt: time.Now()}, err)
		return nil, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			log.Warnw("Failed to release schema lock", "error", err.Error())
		}
	}()

	report, err := s.provisioner.Provision(ctx)
	s.finish(ctx, runID, report, err)
	if err != nil {
		log.Errorw("Schema provisioning failed", "error", err.Error())
		return report, err
	}

	log.Infow("Schema provisioned",
		"created", report.Created(),
		"existing", report.Existing(),
		"duration_ms", report.Duration().Milliseconds(),
	)
	return report, nil
}

// Verify runs a read-only check and updates the schema health gauge.
func (s *ProvisionService) Verify(ctx context.Context) (*schema.VerifyReport, error) {
	report, err := s.provisioner.Verify(ctx)
	if err != nil {
		s.metrics.SchemaHealthy.Set(0)
		return nil, err
	}
	if report.OK {
		s.metrics.SchemaHealthy.Set(1)
	} else {
		s.metrics.SchemaHealthy.Set(0)
	}
	return report, nil
}

func RunStatus(err error) string {
	switch {
	case err == nil:
		return constants.RunStatusSuccess
	case errors.Is(err, common.ErrLockHeld):
		return constants.RunStatusSkipped
	case schema.IsConflict(err):
		return constants.RunStatusConflict
	}
	return constants.RunStatusFailed
}

func (s *ProvisionService) finish(ctx context.Context, runID string, report *schema.Report, runErr error) {
	status := RunStatus(runErr)

	s.metrics.ProvisionRunsTotal.WithLabelValues(status).Inc()
	s.metrics.ProvisionRunDuration.Observe(report.Duration().Seconds())
	if runErr == nil {
		s.metrics.LastProvisionTimestamp.Set(float64(report.FinishedAt.Unix()))
		s.metrics.SchemaHealthy.Set(1)
	}

	if s.history == nil {
		return
	}
	run := &gorm.ProvisionRun{
		ID:         runID,
		Database:   s.database,
		Command:    constants.CommandProvision,
		Status:     status,
		Created:    report.Created(),
		Existing:   report.Existing(),
		Host:       s.host,
		StartedAt:  report.StartedAt.UTC(),
		FinishedAt: report.FinishedAt.UTC(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	// history is best effort, the schema outcome is what callers act on
	if err := s.history.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.Warn("Failed to record provision run", "run_id", runID, "error", err.Error())
	}
}
