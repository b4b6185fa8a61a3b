package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/metrics"
	"live-airlines/provisioner/internal/schema"
)

func newMaintenance() (*MaintenanceService, *memStore, *metrics.MetricsRegistry) {
	store := newMemStore()
	m := metrics.NewMetricsRegistry()
	return NewMaintenanceService(store, m), store, m
}

func TestSmoke_AllCollections(t *testing.T) {
	svc, store, _ := newMaintenance()
	names := schema.CollectionNames(schema.Target())

	results, err := svc.Smoke(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.OK, r.Collection)
		assert.Empty(t, store.docs[r.Collection], "probe must be cleaned up")
	}
}

func TestSmoke_ReportsEveryFailure(t *testing.T) {
	svc, store, _ := newMaintenance()
	store.insertErr = errors.New("not authorized on liveAirlines")

	results, err := svc.Smoke(context.Background(), []string{schema.CollAirlabs, schema.CollOpensky})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "airlabs")
	assert.Contains(t, err.Error(), "opensky")
	require.Len(t, results, 2)
	assert.False(t, results[0].OK)
	assert.False(t, results[1].OK)
}

func TestSmoke_ProbeNotReadBack(t *testing.T) {
	svc, store, _ := newMaintenance()
	store.hideReads = true

	results, err := svc.Smoke(context.Background(), []string{schema.CollAirlabs})
	require.Error(t, err)
	assert.Contains(t, results[0].Error, "not found")
	assert.Empty(t, store.docs[schema.CollAirlabs], "probe is removed even when the read failed")
}

func TestParseSeedDocuments(t *testing.T) {
	docs, err := ParseSeedDocuments([]byte(`[
		{"_id": "4d1c", "callsign": "AFR123", "count": 12, "datetime_start": {"$date": "2026-10-01T08:00:00Z"}},
		{"_id": "4d1d", "callsign": "DLH4AB", "count": 3}
	]`))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	first := docs[0].(bson.D)
	assert.Equal(t, "callsign", first[1].Key)
	assert.Equal(t, "AFR123", first[1].Value)
	assert.IsType(t, int32(0), first[2].Value)
	assert.Equal(t, "datetime_start", first[3].Key)
}

func TestParseSeedDocuments_Invalid(t *testing.T) {
	_, err := ParseSeedDocuments([]byte(`{"not": "an array"}`))
	assert.ErrorContains(t, err, "JSON array")

	_, err = ParseSeedDocuments([]byte(`[{"ok": 1}, 42]`))
	assert.ErrorContains(t, err, "seed document 1")
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedFromFile_InsertsIntoEmptyCollection(t *testing.T) {
	svc, store, m := newMaintenance()
	path := writeSeed(t, `[{"callsign": "AFR123"}, {"callsign": "BAW12"}]`)

	res, err := svc.SeedFromFile(context.Background(), schema.CollDataAggregated, path)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 2, res.Inserted)
	assert.Len(t, store.docs[schema.CollDataAggregated], 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsAffectedTotal.WithLabelValues(constants.CommandSeed, schema.CollDataAggregated)))

	again, err := svc.SeedFromFile(context.Background(), schema.CollDataAggregated, path)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, "collection already populated", again.Reason)
	assert.Len(t, store.docs[schema.CollDataAggregated], 2)
}

func TestSeedFromFile_NothingToDo(t *testing.T) {
	svc, _, _ := newMaintenance()

	res, err := svc.SeedFromFile(context.Background(), schema.CollDataAggregated, filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "no seed file", res.Reason)

	res, err = svc.SeedFromFile(context.Background(), schema.CollDataAggregated, writeSeed(t, `[]`))
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "seed file is empty", res.Reason)
}

func TestPurge(t *testing.T) {
	svc, store, _ := newMaintenance()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * 24 * time.Hour)
	recent := now.Add(-1 * time.Hour)

	store.docs[schema.CollOpensky] = []bson.M{{"datatime": old}, {"datatime": recent}}
	store.docs[schema.CollAirlabs] = []bson.M{{"datatime": old}}
	store.docs[schema.CollDataAggregated] = []bson.M{{"datetime_start": old}, {"datetime_start": recent}}

	results, err := svc.Purge(context.Background(), DefaultRetentionRules(), now, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, results, 3)

	deleted := map[string]int64{}
	for _, r := range results {
		deleted[r.Collection] = r.Deleted
		assert.Equal(t, now.Add(-7*24*time.Hour), r.Cutoff)
	}
	assert.Equal(t, int64(1), deleted[schema.CollOpensky])
	assert.Equal(t, int64(1), deleted[schema.CollAirlabs])
	assert.Equal(t, int64(1), deleted[schema.CollDataAggregated])
	assert.Len(t, store.docs[schema.CollOpensky], 1)

	assert.Equal(t, bson.M{"datetime_start": bson.M{"$lt": now.Add(-7 * 24 * time.Hour)}}, store.filters[schema.CollDataAggregated])
}

func TestDrop(t *testing.T) {
	svc, store, _ := newMaintenance()
	require.NoError(t, svc.Drop(context.Background()))
	assert.True(t, store.dropped)
}
