package schema

import "time"

type StepKind string

const (
	StepCollection StepKind = "collection"
	StepIndex      StepKind = "index"
)

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeExisting Outcome = "existing"
)

// Step is one "ensure" action of a provisioning run.
type Step struct {
	Kind       StepKind `json:"kind"`
	Collection string   `json:"collection"`
	Index      string   `json:"index,omitempty"`
	Outcome    Outcome  `json:"outcome"`
}

// Report summarises a provisioning run.
type Report struct {
	Database   string    `json:"database"`
	Steps      []Step    `json:"steps"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r *Report) count(o Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Created is the number of collections and indexes this run had to create.
func (r *Report) Created() int { return r.count(OutcomeCreated) }

// Existing is the number of collections and indexes already in place.
func (r *Report) Existing() int { return r.count(OutcomeExisting) }

func (r *Report) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }
