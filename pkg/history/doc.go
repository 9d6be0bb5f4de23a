// Package history holds the release and dependency history of a package
// ecosystem and the indexes derived from it.
//
// # Tables
//
// A [Store] is loaded in one batch from three raw tables produced by an
// ecosystem scanner:
//
//   - [Authors]: package -> maintainer identifier
//   - [ReleaseDates]: package -> version -> release timestamp
//   - [DependencyEdges]: package -> version -> dependency -> []Edge
//
// plus an end-of-time cutoff that closes open-ended intervals (a package's
// latest version is considered current until then). All timestamps are held
// in UTC regardless of the location they were supplied in.
//
// # Derived indexes
//
// Forward dependency sets, the reverse dependency index and per-edge
// constraint timespans are computed lazily and cached until the next
// [Store.Preload]. The reverse index needs a full pass over every package, so
// it is built exactly once, on the first query that needs it:
//
//	s := history.New()
//	if err := s.Preload(authors, dates, edges, cutoff); err != nil {
//	    return err
//	}
//	if err := s.Validate(); err != nil {
//	    return err
//	}
//	users, err := s.ReverseDependencies("left-pad") // builds the index
//
// # Concurrency
//
// A Store is not safe for concurrent use. Hosts that query from several
// goroutines should load, call [Store.BuildReverseIndex] once, and serialize
// access from there on.
package history
