package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"live-airlines/provisioner/internal/auth"
	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/constants"
	reqctx "live-airlines/provisioner/internal/context"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/models/dtos/responses"
	"live-airlines/provisioner/internal/models/entities"
	"live-airlines/provisioner/internal/schema"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200

	verifyLoadTimeout = 15 * time.Second
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

func (h *Handlers) verifyCacheKey() string {
	return string(constants.CachePrefixSchemaVerify) + h.deps.Database
}

// GetSchema handles GET /v1/schema
func (h *Handlers) GetSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		val, err := h.deps.Cache.GetOrSet(h.verifyCacheKey(), h.deps.VerifyTTL, func() (any, error) {
			// shared by every waiting request; outlives the one that started it
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), verifyLoadTimeout)
			defer cancel()
			return h.deps.Schema.Verify(ctx)
		})
		if err != nil {
			respondWithError(w, statusFor(err), err.Error())
			return
		}

		report, ok := val.(*schema.VerifyReport)
		if !ok {
			respondWithError(w, http.StatusInternalServerError, constants.MsgUnexpectedCache)
			return
		}
		respondWithSuccess(w, http.StatusOK, report)
	}
}

// ProvisionSchema handles POST /v1/schema/provision
func (h *Handlers) ProvisionSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operator := "unknown"
		if claims := auth.GetOperatorClaims(r.Context()); claims != nil {
			operator = claims.Subject
		}
		logging.Info("Provisioning requested over HTTP",
			"operator", operator,
			"database", h.deps.Database,
			"request_id", reqctx.GetRequestID(r.Context()),
		)

		report, err := h.deps.Schema.Provision(r.Context())
		// whatever happened, the cached verify report is stale now
		h.deps.Cache.Delete(h.verifyCacheKey())

		if err != nil {
			respondWithErrorData(w, statusFor(err), err.Error(), report)
			return
		}
		respondWithSuccess(w, http.StatusOK, report)
	}
}

// ListRuns handles GET /v1/schema/runs?limit=N
func (h *Handlers) ListRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.deps.History == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgHistoryDisabled)
			return
		}

		limit := defaultRunsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				respondWithError(w, http.StatusBadRequest, constants.MsgInvalidLimit)
				return
			}
			limit = min(n, maxRunsLimit)
		}

		runs, err := h.deps.History.ListRecent(r.Context(), h.deps.Database, limit)
		if err != nil {
			logging.Error("Failed to list provision runs", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, constants.MsgListRunsFailed)
			return
		}
		if runs == nil {
			runs = []entities.ProvisionRun{}
		}

		lastSuccess, err := h.deps.History.LastSuccess(r.Context(), h.deps.Database)
		if err != nil {
			logging.Error("Failed to load last successful run", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, constants.MsgListRunsFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, &responses.ProvisionRunsResponse{
			Runs:        runs,
			LastSuccess: lastSuccess,
		})
	}
}

// statusFor maps provisioning errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case schema.IsConflict(err):
		return http.StatusConflict
	case schema.IsConnectionError(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, common.ErrLockHeld):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
