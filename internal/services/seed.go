package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"

	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/logging"
)

type SeedResult struct {
	Collection string `json:"collection"`
	Inserted   int    `json:"inserted"`
	Skipped    bool   `json:"skipped"`
	Reason     string `json:"reason,omitempty"`
}

// ParseSeedDocuments decodes a JSON array of documents. Each element is read
// as relaxed Extended JSON, so {"$date": ...} and {"$oid": ...} survive.
func ParseSeedDocuments(data []byte) ([]interface{}, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("seed file must contain a JSON array: %w", err)
	}

	docs := make([]interface{}, 0, len(raws))
	for i, raw := range raws {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
			return nil, fmt.Errorf("seed document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SeedFromFile loads precomputed documents into collection, but only while
// the collection is still empty.
func (s *MaintenanceService) SeedFromFile(ctx context.Context, collection, path string) (*SeedResult, error) {
	result := &SeedResult{Collection: collection}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		result.Skipped, result.Reason = true, "no seed file"
		logging.Info("No seed file, nothing to insert", "path", path)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	docs, err := ParseSeedDocuments(data)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		result.Skipped, result.Reason = true, "seed file is empty"
		logging.Info("Seed file is empty, nothing to insert", "path", path)
		return result, nil
	}

	count, err := s.store.CountDocuments(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", collection, err)
	}
	if count > 0 {
		result.Skipped, result.Reason = true, "collection already populated"
		logging.Info("Collection already populated, seed skipped", "collection", collection, "documents", count)
		return result, nil
	}

	inserted, err := s.store.InsertMany(ctx, collection, docs)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", collection, err)
	}
	result.Inserted = inserted
	s.metrics.DocumentsAffectedTotal.WithLabelValues(constants.CommandSeed, collection).Add(float64(inserted))
	logging.Info("Seed documents inserted", "collection", collection, "inserted", inserted)
	return result, nil
}
