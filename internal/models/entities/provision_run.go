package entities

import "time"

type ProvisionRun struct {
	ID         string    `db:"id" json:"id"`
	Database   string    `db:"database_name" json:"database"`
	Command    string    `db:"command" json:"command"`
	Status     string    `db:"status" json:"status"`
	Created    int       `db:"created_count" json:"created"`
	Existing   int       `db:"existing_count" json:"existing"`
	Error      string    `db:"error" json:"error,omitempty"`
	Host       string    `db:"host" json:"host"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}
