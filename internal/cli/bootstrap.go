package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/db"
	"live-airlines/provisioner/internal/db/repositories"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/metrics"
	"live-airlines/provisioner/internal/schema"
	"live-airlines/provisioner/internal/services"
)

// app holds the connections one command needs. Redis and the history
// database are optional and stay nil when not configured.
type app struct {
	cfg     *config.Config
	command string

	mongo   *mongo.Client
	store   *db.MongoStore
	redis   *redis.Client
	history *repositories.ProvisionRunRepo
	metrics *metrics.MetricsRegistry

	provision   *services.ProvisionService
	maintenance *services.MaintenanceService
}

// bootstrap connects to MongoDB and, when configured, to Redis and the
// history database. A MongoDB failure is fatal; the optional backends are
// also fatal once configured, since silently skipping the lock would defeat it.
func bootstrap(ctx context.Context, cfg *config.Config, command string) (*app, error) {
	a := &app{
		cfg:     cfg,
		command: command,
		metrics: metrics.NewMetricsRegistry(),
	}

	client, err := db.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	a.mongo = client
	a.store = db.NewMongoStore(client, cfg.Mongo.Database)

	var lock common.Locker
	if cfg.Redis.Enabled() {
		rc, err := common.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.close()
			return nil, err
		}
		a.redis = rc
		lock = common.NewRedisLock(rc, cfg.Lock.TTL, cfg.Lock.Wait)
	} else {
		logging.Debug("REDIS_HOST not set, provisioning lock disabled")
	}

	var recorder services.RunRecorder
	if cfg.History != "" {
		gdb, err := db.InitHistoryORM(cfg.History)
		if err != nil {
			a.close()
			return nil, err
		}
		repo, err := repositories.NewProvisionRunRepo(gdb)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			a.close()
			return nil, err
		}
		a.history = repo
		recorder = repo
	}

	provisioner := schema.NewProvisioner(a.store, schema.WithObserver(services.StepMetrics(a.metrics)))
	a.provision = services.NewProvisionService(provisioner, cfg.Mongo.Database, lock, recorder, a.metrics)
	a.maintenance = services.NewMaintenanceService(a.store, a.metrics)
	return a, nil
}

// close releases every connection and pushes metrics for one-shot commands.
func (a *app) close() {
	if a.cfg.PushgatewayURL != "" && a.command != "serve" {
		if err := a.metrics.Push(a.cfg.PushgatewayURL, a.command); err != nil {
			logging.Warn("Metrics push failed", "error", err.Error())
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
	if a.mongo != nil {
		_ = a.mongo.Disconnect(context.Background())
	}
	_ = logging.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
