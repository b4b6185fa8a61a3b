package responses

import "live-airlines/provisioner/internal/models/entities"

// ProvisionRunsResponse is the response for GET /v1/schema/runs
type ProvisionRunsResponse struct {
	Runs []entities.ProvisionRun `json:"runs"`
	// LastSuccess may be older than every entry in Runs
	LastSuccess *entities.ProvisionRun `json:"last_success,omitempty"`
}
