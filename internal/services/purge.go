package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/schema"
)

// RetentionRule names the timestamp field that ages a collection's documents.
type RetentionRule struct {
	Collection string
	Field      string
}

// DefaultRetentionRules: raw feeds age by capture time, aggregates by the
// start of the aggregated flight.
func DefaultRetentionRules() []RetentionRule {
	return []RetentionRule{
		{Collection: schema.CollOpensky, Field: "datatime"},
		{Collection: schema.CollAirlabs, Field: "datatime"},
		{Collection: schema.CollDataAggregated, Field: "datetime_start"},
	}
}

type PurgeResult struct {
	Collection string    `json:"collection"`
	Cutoff     time.Time `json:"cutoff"`
	Deleted    int64     `json:"deleted"`
}

// Purge deletes documents older than retention, relative to now.
func (s *MaintenanceService) Purge(ctx context.Context, rules []RetentionRule, now time.Time, retention time.Duration) ([]PurgeResult, error) {
	cutoff := now.Add(-retention)
	results := make([]PurgeResult, 0, len(rules))

	for _, rule := range rules {
		filter := bson.M{rule.Field: bson.M{"$lt": cutoff}}
		deleted, err := s.store.DeleteMany(ctx, rule.Collection, filter)
		if err != nil {
			return results, fmt.Errorf("purge %s: %w", rule.Collection, err)
		}
		s.metrics.DocumentsAffectedTotal.WithLabelValues(constants.CommandPurge, rule.Collection).Add(float64(deleted))
		logging.Info("Old documents purged",
			"collection", rule.Collection,
			"field", rule.Field,
			"cutoff", cutoff.Format(time.RFC3339),
			"deleted", deleted,
		)
		results = append(results, PurgeResult{Collection: rule.Collection, Cutoff: cutoff, Deleted: deleted})
	}
	return results, nil
}

// Drop removes the whole database. Callers are expected to confirm first.
func (s *MaintenanceService) Drop(ctx context.Context) error {
	logging.Warn("Dropping database", "database", s.store.Database())
	return s.store.DropDatabase(ctx)
}
