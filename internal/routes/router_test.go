package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"live-airlines/provisioner/internal/api"
	"live-airlines/provisioner/internal/auth"
	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/metrics"
	"live-airlines/provisioner/internal/schema"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

type stubSchema struct{ provisioned int }

func (s *stubSchema) Verify(ctx context.Context) (*schema.VerifyReport, error) {
	return &schema.VerifyReport{Database: schema.DefaultDatabase, OK: true}, nil
}

func (s *stubSchema) Provision(ctx context.Context) (*schema.Report, error) {
	s.provisioned++
	return &schema.Report{Database: schema.DefaultDatabase}, nil
}

func newTestRouter(t *testing.T, stub *stubSchema, tokens *auth.TokenService) http.Handler {
	t.Helper()
	deps := &api.Dependencies{
		Database:  schema.DefaultDatabase,
		Schema:    stub,
		Cache:     common.NewCacheService(time.Minute, time.Minute),
		VerifyTTL: time.Second,
		Checks: map[string]api.HealthCheck{
			"mongodb": func(ctx context.Context) error { return nil },
		},
	}
	return RegisterRoutes(deps, tokens, metrics.NewMetricsRegistry(), RouterOptions{
		AllowedOrigins:    []string{"http://localhost:8050"},
		RequestsPerSecond: 100,
		Burst:             100,
		UpSince:           time.Now(),
	})
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t, &stubSchema{}, auth.NewTokenService([]byte("secret")))

	for _, path := range []string{"/healthCheck", "/v1/schema", "/metrics"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestRouter_MetricsExposeHTTPCounters(t *testing.T) {
	router := newTestRouter(t, &stubSchema{}, auth.NewTokenService([]byte("secret")))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "liveairlines_http_requests_total"))
}

func TestRouter_ProvisionRequiresToken(t *testing.T) {
	tokens := auth.NewTokenService([]byte("secret"))
	stub := &stubSchema{}
	router := newTestRouter(t, stub, tokens)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/schema/provision", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, stub.provisioned)

	token, err := tokens.Mint("ops", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/schema/provision", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, stub.provisioned)
}
