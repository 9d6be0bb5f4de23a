// Package pkg provides the core libraries for depalyze, an analyzer for the
// release and dependency history of software ecosystems.
//
// # Overview
//
// A scanner (outside this module) turns a registry dump into four tables:
// package authors, release dates per version, the dependencies each release
// declared with their constraint strings, and the dataset's end of time.
// The packages here answer questions about those tables:
//
//  1. [pointspans] - turns timestamped state changes into merged time spans
//  2. [history] - the history store, its validation and its lazily built
//     forward and reverse dependency index
//  3. [timeline] - per-package timelines as report rows or chart spans
//  4. [heuristics] - release cadence and "interesting package" detection
//  5. [io] - JSON snapshots of a store
//
// Supporting packages: [errors] (coded errors), [cache] (report cache
// backends), [observability] (hooks for index and cache events) and
// [buildinfo] (version stamping).
//
// # Architecture
//
//	scanner output / snapshot file
//	         ↓
//	    [io] package (decode, timezone normalization)
//	         ↓
//	    [history] package (Preload, Validate, reverse index)
//	         ↓
//	    [timeline] / [heuristics] packages
//	         ↓
//	    text report, JSON spans, findings
//
// # Quick Start
//
//	s, err := io.ImportStore("npm.json")
//	if err != nil {
//	    return err
//	}
//	if err := s.Validate(); err != nil {
//	    return err
//	}
//	rows, err := timeline.Rows(s, "express", timeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(timeline.Report(rows, "express"))
//
//	a := heuristics.New(s, heuristics.DefaultConfig())
//	findings, err := a.InterestingPackages()
package pkg
