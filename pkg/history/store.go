package history

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depalyze/pkg/errors"
)

// Store is the authoritative in-memory history of an ecosystem.
//
// The zero value is not usable; create one with [New] and load it with
// [Store.Preload]. A Store is not safe for concurrent use.
type Store struct {
	authors   Authors
	dates     ReleaseDates
	edges     DependencyEdges
	endOfTime time.Time
	logger    *log.Logger
	idx       index
}

// New creates an empty Store whose end of time is the current instant.
func New() *Store {
	s := &Store{
		authors:   Authors{},
		dates:     ReleaseDates{},
		edges:     DependencyEdges{},
		endOfTime: time.Now().UTC(),
		logger:    log.Default(),
	}
	s.idx.invalidate()
	return s
}

// SetLogger replaces the logger used for index build progress. A nil logger
// restores log.Default().
func (s *Store) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	s.logger = l
}

// Logger returns the store's logger.
func (s *Store) Logger() *log.Logger { return s.logger }

// Preload replaces the whole history in one step. The tables are copied, so
// later changes to the arguments do not leak into the store. Release dates
// and endOfTime are normalized to UTC, and every derived cache is dropped.
//
// Preload returns an INVALID_TIMESTAMP error if endOfTime is zero; the store
// is left untouched in that case. It does not check the tables against each
// other; call [Store.Validate] for that.
func (s *Store) Preload(authors Authors, dates ReleaseDates, edges DependencyEdges, endOfTime time.Time) error {
	if endOfTime.IsZero() {
		return errors.New(errors.ErrCodeInvalidTimestamp, "end of time must be set")
	}
	s.authors = cloneAuthors(authors)
	s.dates = cloneDates(dates)
	s.edges = cloneEdges(edges)
	s.endOfTime = endOfTime.UTC()
	s.idx.invalidate()
	return nil
}

// SetEndOfTime moves the dataset cutoff. Cached timespans depend on it, so
// the derived indexes are dropped.
func (s *Store) SetEndOfTime(t time.Time) error {
	if t.IsZero() {
		return errors.New(errors.ErrCodeInvalidTimestamp, "end of time must be set")
	}
	s.endOfTime = t.UTC()
	s.idx.invalidate()
	return nil
}

// EndOfTime returns the dataset cutoff in UTC.
func (s *Store) EndOfTime() time.Time { return s.endOfTime }

// Validate checks the loaded tables for consistency. It returns the first
// violation found, as an INVALID_* error naming the package, version and
// dependency involved. Packages are visited in name order so the reported
// violation is stable.
//
// Checked invariants:
//   - every package with release dates has a dependency table, and vice versa
//   - package names, versions and dependency names are valid names
//   - release dates are set
//   - constraint strings are valid text
func (s *Store) Validate() error {
	for _, pkg := range slices.Sorted(maps.Keys(s.dates)) {
		if _, ok := s.edges[pkg]; !ok {
			return errors.New(errors.ErrCodeInvalidInput,
				"package %q has release dates but no dependency table", pkg)
		}
	}
	for _, pkg := range slices.Sorted(maps.Keys(s.edges)) {
		if _, ok := s.dates[pkg]; !ok {
			return errors.New(errors.ErrCodeInvalidInput,
				"package %q has a dependency table but no release dates", pkg)
		}
	}

	for _, pkg := range slices.Sorted(maps.Keys(s.dates)) {
		if err := errors.ValidatePackageName(pkg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPackage, err, "package %q", pkg)
		}
		for _, v := range slices.Sorted(maps.Keys(s.dates[pkg])) {
			if v == "" {
				return errors.New(errors.ErrCodeInvalidInput, "package %q has an empty version string", pkg)
			}
			if s.dates[pkg][v].IsZero() {
				return errors.New(errors.ErrCodeInvalidTimestamp,
					"package %q version %q has no release date", pkg, v)
			}
		}
		for _, v := range slices.Sorted(maps.Keys(s.edges[pkg])) {
			deps := s.edges[pkg][v]
			for _, dep := range slices.Sorted(maps.Keys(deps)) {
				if err := errors.ValidatePackageName(dep); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPackage, err,
						"package %q version %q dependency %q", pkg, v, dep)
				}
				for _, e := range deps[dep] {
					if err := errors.ValidateConstraint(e.Constraint); err != nil {
						return errors.Wrap(errors.ErrCodeInvalidInput, err,
							"package %q version %q dependency %q", pkg, v, dep)
					}
				}
			}
		}
	}
	return nil
}

// Packages returns every package with release dates, sorted by name.
func (s *Store) Packages() []string {
	return slices.Sorted(maps.Keys(s.dates))
}

// Has reports whether pkg is a known package.
func (s *Store) Has(pkg string) bool {
	_, ok := s.dates[pkg]
	return ok
}

// Versions returns the versions of pkg in ascending release order. Versions
// released at the same instant are ordered by version string.
// It returns a PACKAGE_NOT_FOUND error if pkg is unknown.
func (s *Store) Versions(pkg string) ([]string, error) {
	if cached, ok := s.idx.versions[pkg]; ok {
		return slices.Clone(cached), nil
	}
	dates, ok := s.dates[pkg]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "unknown package %q", pkg)
	}
	versions := slices.Collect(maps.Keys(dates))
	slices.SortFunc(versions, func(a, b string) int {
		if c := dates[a].Compare(dates[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	s.idx.versions[pkg] = versions
	return slices.Clone(versions), nil
}

// LatestVersion returns the most recently released version of pkg.
// It returns NO_VERSIONS if the package is known but has no releases.
func (s *Store) LatestVersion(pkg string) (string, error) {
	versions, err := s.Versions(pkg)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", errors.New(errors.ErrCodeNoVersions, "package %q has no versions", pkg)
	}
	return versions[len(versions)-1], nil
}

// DateOfVersion returns the release date of version v of pkg.
func (s *Store) DateOfVersion(pkg, v string) (time.Time, error) {
	dates, ok := s.dates[pkg]
	if !ok {
		return time.Time{}, errors.New(errors.ErrCodePackageNotFound, "unknown package %q", pkg)
	}
	t, ok := dates[v]
	if !ok {
		return time.Time{}, errors.New(errors.ErrCodeVersionNotFound, "package %q has no version %q", pkg, v)
	}
	return t, nil
}

// Author returns the author of pkg, or "" if none is recorded.
func (s *Store) Author(pkg string) string {
	return s.authors[pkg]
}

// Declarations returns the dependencies version v of pkg declared. The
// returned map must not be modified.
func (s *Store) Declarations(pkg, v string) (map[string][]Edge, error) {
	versions, ok := s.edges[pkg]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "unknown package %q", pkg)
	}
	decls, ok := versions[v]
	if !ok {
		return nil, errors.New(errors.ErrCodeVersionNotFound, "package %q has no version %q", pkg, v)
	}
	return decls, nil
}

// PresentDependencies returns the dependencies declared by the latest release
// of pkg that are themselves known packages, sorted by name.
func (s *Store) PresentDependencies(pkg string) ([]string, error) {
	latest, err := s.LatestVersion(pkg)
	if err != nil {
		return nil, err
	}
	var present []string
	for dep := range s.edges[pkg][latest] {
		if s.Has(dep) {
			present = append(present, dep)
		}
	}
	slices.Sort(present)
	return present, nil
}

// PresentTransitiveDependencies returns the closure of [Store.PresentDependencies]
// starting at pkg, sorted by name. pkg itself is only included if it is
// reachable through a cycle. Packages without releases end the walk.
func (s *Store) PresentTransitiveDependencies(pkg string) ([]string, error) {
	direct, err := s.PresentDependencies(pkg)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	queue := direct
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := seen[next]; ok {
			continue
		}
		seen[next] = struct{}{}

		deps, err := s.PresentDependencies(next)
		if errors.Is(err, errors.ErrCodeNoVersions) {
			continue
		}
		if err != nil {
			return nil, err
		}
		queue = append(queue, deps...)
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// Stats summarizes the size of the loaded history.
type Stats struct {
	Packages     int
	Versions     int
	Declarations int
}

// Stats counts packages, releases and dependency declarations.
func (s *Store) Stats() Stats {
	st := Stats{Packages: len(s.dates)}
	for _, versions := range s.dates {
		st.Versions += len(versions)
	}
	for _, versions := range s.edges {
		for _, deps := range versions {
			st.Declarations += len(deps)
		}
	}
	return st
}
