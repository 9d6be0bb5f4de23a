// Package io provides JSON import and export for history snapshots.
//
// # Overview
//
// The history core exchanges plain tables with the outside world (see
// [history.Snapshot]). This package gives those tables a JSON form so that a
// scanner can run once over a registry dump and every later analysis can
// start from the saved snapshot.
//
// # JSON Format
//
//	{
//	  "authors": {"app": "alice@example.com"},
//	  "release_dates": {
//	    "app": {"1.0": "2020-01-01T00:00:00Z", "2.0": "2021-01-01"}
//	  },
//	  "dependency_edges": {
//	    "app": {
//	      "1.0": {"lib": [["dependencies", "^0.9"]]},
//	      "2.0": {"lib": [["dependencies", "^1.0"], ["devDependencies", "*"]]}
//	    }
//	  },
//	  "end_of_time": "2022-01-01T00:00:00Z",
//	  "dependencies": {"app": ["lib"]},
//	  "reverse_dependencies": {"lib": ["app"]}
//	}
//
// Each dependency declaration is a two-element array [kind, constraint]; the
// first declaration of a dependency is the canonical one.
//
// # Timestamps
//
// Timestamps are written as RFC 3339 in UTC. On import, RFC 3339 values keep
// their offset, while values without zone information ("2006-01-02T15:04:05",
// "2006-01-02 15:04:05", "2006-01-02") and JSON numbers (Unix seconds) are
// read as UTC. The store normalizes everything to UTC on load.
//
// # Derived sets
//
// "dependencies" and "reverse_dependencies" are written for consumers that
// only need the graph. They are optional on import and never trusted: the
// store recomputes them from the tables.
//
// [history.Snapshot]: github.com/matzehuels/depalyze/pkg/history.Snapshot
package io
