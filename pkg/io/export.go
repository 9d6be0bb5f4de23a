package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depalyze/pkg/history"
)

type snapshot struct {
	Authors             map[string]string                       `json:"authors"`
	ReleaseDates        map[string]map[string]timestamp         `json:"release_dates"`
	DependencyEdges     map[string]map[string]map[string][]edge `json:"dependency_edges"`
	EndOfTime           timestamp                               `json:"end_of_time"`
	Dependencies        map[string][]string                     `json:"dependencies,omitempty"`
	ReverseDependencies map[string][]string                     `json:"reverse_dependencies,omitempty"`
}

// edge is the [kind, constraint] pair form of history.Edge.
type edge [2]string

func (e *edge) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("edge: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("edge: want [kind, constraint], got %d elements", len(parts))
	}
	*e = edge{parts[0], parts[1]}
	return nil
}

// WriteJSON encodes snap as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(snap *history.Snapshot, w io.Writer) error {
	out := snapshot{
		Authors:             snap.Authors,
		ReleaseDates:        make(map[string]map[string]timestamp, len(snap.ReleaseDates)),
		DependencyEdges:     make(map[string]map[string]map[string][]edge, len(snap.DependencyEdges)),
		EndOfTime:           timestamp(snap.EndOfTime),
		Dependencies:        snap.Dependencies,
		ReverseDependencies: snap.ReverseDependencies,
	}
	if out.Authors == nil {
		out.Authors = map[string]string{}
	}

	for pkg, versions := range snap.ReleaseDates {
		vs := make(map[string]timestamp, len(versions))
		for v, t := range versions {
			vs[v] = timestamp(t)
		}
		out.ReleaseDates[pkg] = vs
	}
	for pkg, versions := range snap.DependencyEdges {
		vs := make(map[string]map[string][]edge, len(versions))
		for v, deps := range versions {
			ds := make(map[string][]edge, len(deps))
			for dep, list := range deps {
				es := make([]edge, len(list))
				for i, e := range list {
					es[i] = edge{e.Kind, e.Constraint}
				}
				ds[dep] = es
			}
			vs[v] = ds
		}
		out.DependencyEdges[pkg] = vs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes snap to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(snap *history.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(snap, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportStore snapshots s and writes it to path. The reverse index is built
// if needed so the file carries the derived sets.
func ExportStore(s *history.Store, path string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return ExportJSON(snap, path)
}
