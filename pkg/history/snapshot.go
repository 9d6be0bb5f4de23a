package history

import (
	"maps"
	"slices"
	"time"
)

// Snapshot is a plain, format-agnostic copy of a Store: the four input tables
// plus the derived forward and reverse dependency sets. It holds only maps,
// slices, strings and timestamps, so any encoder can persist it (see
// package io for the JSON form).
type Snapshot struct {
	Authors             Authors
	ReleaseDates        ReleaseDates
	DependencyEdges     DependencyEdges
	EndOfTime           time.Time
	Dependencies        map[string][]string
	ReverseDependencies map[string][]string
}

// Snapshot copies the store's tables and derived sets. It builds the reverse
// index if it is not cached yet.
func (s *Store) Snapshot() (*Snapshot, error) {
	if err := s.BuildReverseIndex(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Authors:             cloneAuthors(s.authors),
		ReleaseDates:        cloneDates(s.dates),
		DependencyEdges:     cloneEdges(s.edges),
		EndOfTime:           s.endOfTime,
		Dependencies:        make(map[string][]string, len(s.edges)),
		ReverseDependencies: make(map[string][]string, len(s.idx.reverse)),
	}
	for pkg := range s.edges {
		deps, err := s.Dependencies(pkg)
		if err != nil {
			return nil, err
		}
		snap.Dependencies[pkg] = deps
	}
	for dep, users := range s.idx.reverse {
		snap.ReverseDependencies[dep] = slices.Sorted(maps.Keys(users))
	}
	return snap, nil
}

// Restore loads a snapshot with [Store.Preload]. The derived sets in the
// snapshot are not trusted; they are recomputed from the tables on demand.
func (s *Store) Restore(snap *Snapshot) error {
	return s.Preload(snap.Authors, snap.ReleaseDates, snap.DependencyEdges, snap.EndOfTime)
}

// FromSnapshot creates a Store from snap.
func FromSnapshot(snap *Snapshot) (*Store, error) {
	s := New()
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}
