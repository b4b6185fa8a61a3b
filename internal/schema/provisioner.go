package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"live-airlines/provisioner/internal/logging"
)

// StepObserver is notified after every completed step.
type StepObserver func(Step)

type Option func(*Provisioner)

// WithTarget replaces the default liveAirlines layout.
func WithTarget(specs []CollectionSpec) Option {
	return func(p *Provisioner) { p.target = specs }
}

func WithObserver(obs StepObserver) Option {
	return func(p *Provisioner) { p.observe = obs }
}

// Provisioner brings a database to the target layout. Each run is a single
// linear sequence: collections in declaration order, each followed by its
// indexes. The first failure aborts the run.
type Provisioner struct {
	catalog Catalog
	target  []CollectionSpec
	observe StepObserver
	now     func() time.Time
}

func NewProvisioner(catalog Catalog, opts ...Option) *Provisioner {
	p := &Provisioner{
		catalog: catalog,
		target:  Target(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provisioner) Target() []CollectionSpec { return p.target }

// Provision ensures every collection and index of the target layout exists.
// Running it again against a provisioned database creates nothing.
func (p *Provisioner) Provision(ctx context.Context) (*Report, error) {
	report := &Report{
		Database:  p.catalog.Database(),
		StartedAt: p.now(),
	}
	defer func() { report.FinishedAt = p.now() }()

	log := logging.GetLogger().With("database", report.Database)
	log.Infow("Schema provisioning started", "collections", CollectionNames(p.target))

	names, err := p.catalog.CollectionNames(ctx)
	if err != nil {
		return report, fmt.Errorf("list collections: %w", err)
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	for _, coll := range p.target {
		outcome, err := p.ensureCollection(ctx, coll.Name, present[coll.Name])
		if err != nil {
			return report, err
		}
		p.record(report, Step{Kind: StepCollection, Collection: coll.Name, Outcome: outcome})
		log.Infow("Collection ensured", "collection", coll.Name, "outcome", outcome)

		if len(coll.Indexes) == 0 {
			continue
		}

		existing, err := p.catalog.Indexes(ctx, coll.Name)
		if err != nil {
			return report, fmt.Errorf("list indexes on %s: %w", coll.Name, err)
		}
		for _, idx := range coll.Indexes {
			outcome, err := p.ensureIndex(ctx, coll.Name, idx, existing)
			if err != nil {
				return report, err
			}
			p.record(report, Step{Kind: StepIndex, Collection: coll.Name, Index: idx.Name, Outcome: outcome})
			log.Infow("Index ensured", "collection", coll.Name, "index", idx.Name, "outcome", outcome)
		}
	}

	log.Infow("Schema provisioning finished",
		"created", report.Created(),
		"existing", report.Existing(),
	)
	return report, nil
}

func (p *Provisioner) ensureCollection(ctx context.Context, name string, exists bool) (Outcome, error) {
	if exists {
		return OutcomeExisting, nil
	}
	err := p.catalog.CreateCollection(ctx, name)
	switch {
	case err == nil:
		return OutcomeCreated, nil
	case errors.Is(err, ErrAlreadyExists):
		return OutcomeExisting, nil
	default:
		return "", fmt.Errorf("create collection %s: %w", name, err)
	}
}

func (p *Provisioner) ensureIndex(ctx context.Context, coll string, want IndexSpec, existing []ExistingIndex) (Outcome, error) {
	if err := checkIndex(coll, want, existing); err != nil {
		if errors.Is(err, errIndexPresent) {
			return OutcomeExisting, nil
		}
		return "", err
	}

	err := p.catalog.CreateIndex(ctx, coll, want)
	switch {
	case err == nil:
		return OutcomeCreated, nil
	case errors.Is(err, ErrAlreadyExists):
		return OutcomeExisting, nil
	default:
		return "", fmt.Errorf("create index %s on %s: %w", want.Name, coll, err)
	}
}

var errIndexPresent = errors.New("index present")

// checkIndex compares a wanted index against the server's list. It returns
// errIndexPresent when an index with the same keys exists under any name,
// a *SchemaConflictError when the wanted name is taken by different keys,
// and nil when the index still has to be created.
func checkIndex(coll string, want IndexSpec, existing []ExistingIndex) error {
	for _, ex := range existing {
		if SameKeys(ex.Keys, want.Keys) {
			return errIndexPresent
		}
	}
	for _, ex := range existing {
		if ex.Name == want.Name {
			return &SchemaConflictError{
				Collection: coll,
				Index:      want.Name,
				Reason:     fmt.Sprintf("existing index has keys %s", formatKeys(ex.Keys)),
			}
		}
	}
	return nil
}

func (p *Provisioner) record(r *Report, s Step) {
	r.Steps = append(r.Steps, s)
	if p.observe != nil {
		p.observe(s)
	}
}

func formatKeys(keys []KeyField) string {
	out := "{"
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %d", k.Field, k.Order)
	}
	return out + "}"
}
