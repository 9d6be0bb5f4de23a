// Package historytest builds small ecosystems for tests.
package historytest

import (
	"testing"
	"time"

	"github.com/matzehuels/depalyze/pkg/history"
)

// DefaultKind is the edge kind Release records.
const DefaultKind = "dependencies"

// Date parses a YYYY-MM-DD date in UTC and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Builder accumulates the raw tables of a test ecosystem.
type Builder struct {
	Authors   history.Authors
	Dates     history.ReleaseDates
	Edges     history.DependencyEdges
	EndOfTime time.Time
}

// New returns a Builder whose end of time is the given date.
func New(end string) *Builder {
	return &Builder{
		Authors:   history.Authors{},
		Dates:     history.ReleaseDates{},
		Edges:     history.DependencyEdges{},
		EndOfTime: Date(end),
	}
}

// Author sets the author of pkg.
func (b *Builder) Author(pkg, author string) *Builder {
	b.Authors[pkg] = author
	return b
}

// Release records version of pkg released on date, declaring deps
// (dependency name -> constraint) under [DefaultKind].
func (b *Builder) Release(pkg, version, date string, deps map[string]string) *Builder {
	if b.Dates[pkg] == nil {
		b.Dates[pkg] = map[string]time.Time{}
		b.Edges[pkg] = map[string]map[string][]history.Edge{}
	}
	b.Dates[pkg][version] = Date(date)
	decls := map[string][]history.Edge{}
	for name, constraint := range deps {
		decls[name] = []history.Edge{{Kind: DefaultKind, Constraint: constraint}}
	}
	b.Edges[pkg][version] = decls
	return b
}

// Store loads the tables into a new store, failing the test on error.
func (b *Builder) Store(tb testing.TB) *history.Store {
	tb.Helper()
	s := history.New()
	if err := s.Preload(b.Authors, b.Dates, b.Edges, b.EndOfTime); err != nil {
		tb.Fatalf("preload: %v", err)
	}
	return s
}
