package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/history"
)

// ReadJSON decodes a JSON snapshot from r.
//
// The input must be a JSON object with "release_dates", "dependency_edges"
// and "end_of_time"; "authors" and the derived sets are optional. See the
// package documentation for the full format.
//
// ReadJSON returns an INVALID_INPUT error if the JSON is malformed, a
// timestamp cannot be parsed, or a declaration is not a [kind, constraint]
// pair. It does not check the tables against each other; load the snapshot
// into a store and call Validate for that.
//
// The returned snapshot is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*history.Snapshot, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	if time.Time(data.EndOfTime).IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot has no end_of_time")
	}

	snap := &history.Snapshot{
		Authors:             history.Authors(data.Authors),
		ReleaseDates:        make(history.ReleaseDates, len(data.ReleaseDates)),
		DependencyEdges:     make(history.DependencyEdges, len(data.DependencyEdges)),
		EndOfTime:           time.Time(data.EndOfTime),
		Dependencies:        data.Dependencies,
		ReverseDependencies: data.ReverseDependencies,
	}
	if snap.Authors == nil {
		snap.Authors = history.Authors{}
	}

	for pkg, versions := range data.ReleaseDates {
		vs := make(map[string]time.Time, len(versions))
		for v, t := range versions {
			vs[v] = time.Time(t)
		}
		snap.ReleaseDates[pkg] = vs
	}
	for pkg, versions := range data.DependencyEdges {
		vs := make(map[string]map[string][]history.Edge, len(versions))
		for v, deps := range versions {
			ds := make(map[string][]history.Edge, len(deps))
			for dep, list := range deps {
				es := make([]history.Edge, len(list))
				for i, e := range list {
					es[i] = history.Edge{Kind: e[0], Constraint: e[1]}
				}
				ds[dep] = es
			}
			vs[v] = ds
		}
		snap.DependencyEdges[pkg] = vs
	}

	return snap, nil
}

// ImportJSON reads a JSON snapshot file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*history.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	snap, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// ImportStore reads a snapshot file and loads it into a new store.
func ImportStore(path string) (*history.Store, error) {
	snap, err := ImportJSON(path)
	if err != nil {
		return nil, err
	}
	return history.FromSnapshot(snap)
}
