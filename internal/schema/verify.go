package schema

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// CollectionStatus is the verification result for one collection.
type CollectionStatus struct {
	Name        string   `json:"name"`
	Exists      bool     `json:"exists"`
	Missing     []string `json:"missing_indexes,omitempty"`
	Conflicting []string `json:"conflicting_indexes,omitempty"`
	Unexpected  []string `json:"unexpected_indexes,omitempty"`
}

func (s CollectionStatus) OK() bool {
	return s.Exists && len(s.Missing) == 0 && len(s.Conflicting) == 0 && len(s.Unexpected) == 0
}

// VerifyReport is the read-only view of how far a database is from the layout.
type VerifyReport struct {
	Database    string             `json:"database"`
	OK          bool               `json:"ok"`
	Collections []CollectionStatus `json:"collections"`
}

// Problems flattens the report into human readable lines.
func (r *VerifyReport) Problems() []string {
	var out []string
	for _, c := range r.Collections {
		if !c.Exists {
			out = append(out, fmt.Sprintf("collection %s is missing", c.Name))
			continue
		}
		for _, n := range c.Missing {
			out = append(out, fmt.Sprintf("%s: index %s is missing", c.Name, n))
		}
		for _, n := range c.Conflicting {
			out = append(out, fmt.Sprintf("%s: index %s has conflicting keys", c.Name, n))
		}
		for _, n := range c.Unexpected {
			out = append(out, fmt.Sprintf("%s: unexpected index %s", c.Name, n))
		}
	}
	return out
}

// Verify checks the database against the target layout without changing it.
// A collection declared without indexes must carry nothing but the primary
// _id index. Collections are inspected concurrently.
func (p *Provisioner) Verify(ctx context.Context) (*VerifyReport, error) {
	names, err := p.catalog.CollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	statuses := make([]CollectionStatus, len(p.target))
	g, gctx := errgroup.WithContext(ctx)
	for i, coll := range p.target {
		statuses[i] = CollectionStatus{Name: coll.Name, Exists: present[coll.Name]}
		if !present[coll.Name] {
			for _, idx := range coll.Indexes {
				statuses[i].Missing = append(statuses[i].Missing, idx.Name)
			}
			continue
		}
		g.Go(func() error {
			existing, err := p.catalog.Indexes(gctx, coll.Name)
			if err != nil {
				return fmt.Errorf("list indexes on %s: %w", coll.Name, err)
			}
			inspect(&statuses[i], coll, existing)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &VerifyReport{Database: p.catalog.Database(), OK: true, Collections: statuses}
	for _, s := range statuses {
		if !s.OK() {
			report.OK = false
		}
	}
	return report, nil
}

func inspect(status *CollectionStatus, coll CollectionSpec, existing []ExistingIndex) {
	for _, want := range coll.Indexes {
		err := checkIndex(coll.Name, want, existing)
		switch {
		case err == nil:
			status.Missing = append(status.Missing, want.Name)
		case IsConflict(err):
			status.Conflicting = append(status.Conflicting, want.Name)
		}
	}
	if len(coll.Indexes) > 0 {
		return
	}
	for _, ex := range existing {
		if ex.Name != PrimaryIndexName {
			status.Unexpected = append(status.Unexpected, ex.Name)
		}
	}
	sort.Strings(status.Unexpected)
}
