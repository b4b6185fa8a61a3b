package constants

const (
	// Placeholders are written with ? and rebound for the active driver.
	ListRecentProvisionRuns = `
	SELECT id, database_name, command, status, created_count, existing_count,
	       COALESCE(error, '') AS error, COALESCE(host, '') AS host, started_at, finished_at
	FROM provision_runs
	WHERE database_name = ?
	ORDER BY started_at DESC
	LIMIT ?
	`

	LastSuccessfulProvisionRun = `
	SELECT id, database_name, command, status, created_count, existing_count,
	       COALESCE(error, '') AS error, COALESCE(host, '') AS host, started_at, finished_at
	FROM provision_runs
	WHERE database_name = ? AND status = 'success'
	ORDER BY started_at DESC
	LIMIT 1
	`
)
