package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"live-airlines/provisioner/internal/logging"
)

const probeField = "_smoke_probe"

type SmokeResult struct {
	Collection string `json:"collection"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// Smoke checks that each collection accepts a write, serves it back and lets
// it be deleted. Every collection is tried; the returned error joins all
// failures.
func (s *MaintenanceService) Smoke(ctx context.Context, collections []string) ([]SmokeResult, error) {
	results := make([]SmokeResult, 0, len(collections))
	var errs []error

	for _, coll := range collections {
		err := s.roundTrip(ctx, coll)
		res := SmokeResult{Collection: coll, OK: err == nil}
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", coll, err))
			logging.Error("Smoke test failed", "collection", coll, "error", err.Error())
		} else {
			logging.Info("Smoke test passed", "collection", coll)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (s *MaintenanceService) roundTrip(ctx context.Context, coll string) error {
	marker := uuid.NewString()
	filter := bson.M{probeField: marker}

	if err := s.store.InsertOne(ctx, coll, bson.M{probeField: marker, "key": "value"}); err != nil {
		return fmt.Errorf("insert probe: %w", err)
	}

	found, err := s.store.Exists(ctx, coll, filter)
	if err != nil {
		return fmt.Errorf("read probe: %w", err)
	}

	deleted, delErr := s.store.DeleteMany(ctx, coll, filter)
	if !found {
		return errors.New("inserted probe document was not found")
	}
	if delErr != nil {
		return fmt.Errorf("delete probe: %w", delErr)
	}
	if deleted != 1 {
		return fmt.Errorf("expected to delete 1 probe document, deleted %d", deleted)
	}
	return nil
}
