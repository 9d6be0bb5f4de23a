package history

import (
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/observability"
	"github.com/matzehuels/depalyze/pkg/pointspans"
)

// progressEvery controls how often the reverse index build logs progress.
const progressEvery = 200

// index holds every cache derived from the raw tables. It is dropped as a
// whole by invalidate; there is no finer-grained invalidation.
type index struct {
	versions map[string][]string                     // package -> chronological versions
	forward  map[string][]string                     // package -> every dependency ever declared
	reverse  map[string]map[string]struct{}          // dependency -> dependents
	spans    map[string]map[string][]pointspans.Span // dependency -> dependent -> spans
	built    bool                                    // reverse and spans are complete
}

func (ix *index) invalidate() {
	ix.versions = make(map[string][]string)
	ix.forward = make(map[string][]string)
	ix.reverse = nil
	ix.spans = nil
	ix.built = false
}

// Dependencies returns every dependency pkg has declared in any release,
// sorted by name. The result includes names that are not known packages.
func (s *Store) Dependencies(pkg string) ([]string, error) {
	if cached, ok := s.idx.forward[pkg]; ok {
		return slices.Clone(cached), nil
	}
	versions, ok := s.edges[pkg]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "unknown package %q", pkg)
	}
	set := make(map[string]struct{})
	for _, deps := range versions {
		for dep := range deps {
			set[dep] = struct{}{}
		}
	}
	deps := slices.Sorted(maps.Keys(set))
	s.idx.forward[pkg] = deps
	return slices.Clone(deps), nil
}

// DepVersionSpans returns the history of the constraint pkg declared on dep:
// one span per run of releases that declared the same canonical constraint,
// ending at the next release that changed it (or at the end of time).
// Releases that did not declare dep leave a gap.
func (s *Store) DepVersionSpans(pkg, dep string) ([]pointspans.Span, error) {
	versions, err := s.Versions(pkg)
	if err != nil {
		return nil, err
	}
	r := pointspans.New()
	for _, v := range versions {
		at := s.dates[pkg][v]
		if constraint, ok := canonical(s.edges[pkg][v], dep); ok {
			err = r.AddChange(constraint, at)
		} else {
			err = r.Clear(at)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTimestamp, err, "package %q version %q", pkg, v)
		}
	}
	return r.Spans(s.endOfTime)
}

// BuildReverseIndex scans every package's dependency history and records,
// for each dependency, which packages declared it and the constraint spans
// they used. This is the expensive step of the store: it visits every edge of
// every package once. It is a no-op if the index is already built.
//
// On error the index stays unbuilt and the next query retries the scan.
func (s *Store) BuildReverseIndex() error {
	if s.idx.built {
		return nil
	}

	start := time.Now()
	packages := slices.Sorted(maps.Keys(s.edges))
	observability.Index().OnBuildStart(len(packages))
	s.logger.Info("building reverse dependency index", "packages", len(packages))

	reverse := make(map[string]map[string]struct{})
	spans := make(map[string]map[string][]pointspans.Span)
	edges := 0
	for i, p := range packages {
		if (i+1)%progressEvery == 0 {
			s.logger.Debug("indexing", "count", i+1, "package", p)
		}
		deps, err := s.Dependencies(p)
		if err != nil {
			observability.Index().OnBuildComplete(len(packages), edges, time.Since(start), err)
			return err
		}
		for _, d := range deps {
			if reverse[d] == nil {
				reverse[d] = make(map[string]struct{})
				spans[d] = make(map[string][]pointspans.Span)
			}
			reverse[d][p] = struct{}{}
			sp, err := s.DepVersionSpans(p, d)
			if err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "reverse index: %q -> %q", p, d)
				observability.Index().OnBuildComplete(len(packages), edges, time.Since(start), err)
				return err
			}
			spans[d][p] = sp
			edges++
		}
	}

	s.idx.reverse = reverse
	s.idx.spans = spans
	s.idx.built = true

	elapsed := time.Since(start)
	observability.Index().OnBuildComplete(len(packages), edges, elapsed, nil)
	s.logger.Info("reverse dependency index built", "dependencies", len(reverse), "edges", edges,
		"duration", elapsed.Round(time.Millisecond))
	return nil
}

// IndexBuilt reports whether the reverse index is currently cached.
func (s *Store) IndexBuilt() bool { return s.idx.built }

// ReverseDependencies returns every package that has declared pkg as a
// dependency in any release, sorted by name. pkg need not be a known package:
// external dependencies have dependents too. The reverse index is built on
// first use.
func (s *Store) ReverseDependencies(pkg string) ([]string, error) {
	if err := s.BuildReverseIndex(); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(s.idx.reverse[pkg])), nil
}

// ReverseDependencyTimespans returns the constraint spans dependent declared
// on dep, as cached by the reverse index. ok is false if dependent never
// declared dep.
func (s *Store) ReverseDependencyTimespans(dep, dependent string) (spans []pointspans.Span, ok bool, err error) {
	if err := s.BuildReverseIndex(); err != nil {
		return nil, false, err
	}
	spans, ok = s.idx.spans[dep][dependent]
	return slices.Clone(spans), ok, nil
}
