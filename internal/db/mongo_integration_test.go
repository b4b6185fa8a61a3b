package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/schema"
)

// Runs only against a live server: MONGO_TEST_URI=mongodb://localhost:27017
func TestMongoStore_ProvisionLive(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.MongoConfig{
		RawURI:                 uri,
		Database:               "liveAirlines_test_" + uuid.NewString()[:8],
		ServerSelectionTimeout: 2 * time.Second,
		ConnectTimeout:         10 * time.Second,
	}
	client, err := ConnectMongo(ctx, cfg)
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	store := NewMongoStore(client, cfg.Database)
	defer store.DropDatabase(context.Background())

	p := schema.NewProvisioner(store)
	first, err := p.Provision(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, first.Created())

	second, err := p.Provision(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created())

	report, err := p.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK, report.Problems())
}
