package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"live-airlines/provisioner/internal/models/entities"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheckHandler handles GET /healthCheck
//
// Every configured backing service is pinged concurrently. The overall status
// is "down" (503) as soon as one of them fails.
func HealthCheckHandler(database string, checks map[string]HealthCheck, upSince time.Time) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		statuses := make([]entities.ServiceStatus, len(names))
		var g errgroup.Group
		for i, name := range names {
			check := checks[name]
			g.Go(func() error {
				start := time.Now()
				err := check(ctx)
				status := entities.ServiceStatus{Status: "ok", Details: "connected", LatencyMs: time.Since(start).Milliseconds()}
				if err != nil {
					status.Status, status.Details = "down", err.Error()
				}
				statuses[i] = status
				return nil
			})
		}
		_ = g.Wait()

		services := make(map[string]entities.ServiceStatus, len(names))
		overallStatus := "ok"
		for i, name := range names {
			services[name] = statuses[i]
			if statuses[i].Status != "ok" {
				overallStatus = "down"
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			Database: database,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	}
}
