package heuristics

import (
	"time"
	"unicode/utf8"

	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/history"
)

// Analyzer runs heuristics against one store.
type Analyzer struct {
	store *history.Store
	cfg   Config
}

// New creates an Analyzer for s using cfg.
func New(s *history.Store, cfg Config) *Analyzer {
	return &Analyzer{store: s, cfg: cfg}
}

// Config returns the thresholds in use.
func (a *Analyzer) Config() Config { return a.cfg }

// Cutoff returns the start of the recency window. Every whole 365 days of
// RecencyDays counts as one calendar year, so the default window ends
// exactly one year before the store's end of time, leap days included.
func (a *Analyzer) Cutoff() time.Time {
	years, days := a.cfg.RecencyDays/365, a.cfg.RecencyDays%365
	return a.store.EndOfTime().AddDate(-years, 0, -days)
}

// =============================================================================
// Release cadence
// =============================================================================

// UpdateFrequency returns releases per day for pkg: the number of releases
// after the first, divided by the whole days between the first and the
// latest release. It is 0 if all releases fall on the same day, and a
// NOT_APPLICABLE error if pkg has fewer than two releases.
func (a *Analyzer) UpdateFrequency(pkg string) (float64, error) {
	versions, err := a.store.Versions(pkg)
	if err != nil {
		return 0, err
	}
	if len(versions) < 2 {
		return 0, errors.New(errors.ErrCodeNotApplicable, "package %q has %d release(s)", pkg, len(versions))
	}
	first, _ := a.store.DateOfVersion(pkg, versions[0])
	last, _ := a.store.DateOfVersion(pkg, versions[len(versions)-1])
	days := int(last.Sub(first).Hours() / 24)
	if days == 0 {
		return 0, nil
	}
	return float64(len(versions)-1) / float64(days), nil
}

// AverageUpdateFrequency is the mean [Analyzer.UpdateFrequency] over every
// package it applies to. It returns NOT_APPLICABLE if it applies to none.
func (a *Analyzer) AverageUpdateFrequency() (float64, error) {
	var sum float64
	n := 0
	for _, p := range a.store.Packages() {
		f, err := a.UpdateFrequency(p)
		if errors.IsNotApplicable(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, errors.New(errors.ErrCodeNotApplicable, "no package has two or more releases")
	}
	return sum / float64(n), nil
}

// RecentlyActive reports whether pkg released at least the configured number
// of times inside the recency window.
func (a *Analyzer) RecentlyActive(pkg string) (bool, error) {
	return a.RecentlyActiveSince(pkg, a.Cutoff(), a.cfg.ActiveThreshold)
}

// RecentlyActiveSince reports whether at least threshold releases of pkg
// happened strictly after cutoff.
func (a *Analyzer) RecentlyActiveSince(pkg string, cutoff time.Time, threshold int) (bool, error) {
	versions, err := a.store.Versions(pkg)
	if err != nil {
		return false, err
	}
	n := 0
	for _, v := range versions {
		if at, _ := a.store.DateOfVersion(pkg, v); at.After(cutoff) {
			n++
		}
	}
	return n >= threshold, nil
}

// =============================================================================
// Interesting packages
// =============================================================================

// Finding describes an interesting package: the upstream and downstream
// packages maintained by someone else.
type Finding struct {
	Package             string   `json:"package"`
	Dependencies        []string `json:"dependencies"`
	ReverseDependencies []string `json:"reverse_dependencies"`
}

// Interesting returns a Finding if pkg meets every condition below, and nil
// otherwise:
//
//   - more than MinUpstream present dependencies have a different author;
//   - more than MinBusyUpstream of those are recently active;
//   - more than MinDownstream reverse dependencies have a different author;
//   - the latest release of pkg falls inside the recency window.
func (a *Analyzer) Interesting(pkg string) (*Finding, error) {
	latest, err := a.store.LatestVersion(pkg)
	if err != nil {
		return nil, err
	}
	author := a.store.Author(pkg)

	present, err := a.store.PresentDependencies(pkg)
	if err != nil {
		return nil, err
	}
	upstream := a.otherAuthors(author, present)
	if len(upstream) <= a.cfg.MinUpstream {
		return nil, nil
	}

	busy := 0
	for _, d := range upstream {
		active, err := a.RecentlyActive(d)
		if err != nil {
			return nil, err
		}
		if active {
			busy++
		}
	}
	if busy <= a.cfg.MinBusyUpstream {
		return nil, nil
	}

	rdeps, err := a.store.ReverseDependencies(pkg)
	if err != nil {
		return nil, err
	}
	downstream := a.otherAuthors(author, rdeps)
	if len(downstream) <= a.cfg.MinDownstream {
		return nil, nil
	}

	if at, _ := a.store.DateOfVersion(pkg, latest); !at.After(a.Cutoff()) {
		return nil, nil
	}
	return &Finding{Package: pkg, Dependencies: upstream, ReverseDependencies: downstream}, nil
}

// InterestingPackages runs [Analyzer.Interesting] over every package, in
// name order. Packages without releases are skipped.
func (a *Analyzer) InterestingPackages() ([]*Finding, error) {
	var out []*Finding
	for _, p := range a.store.Packages() {
		f, err := a.Interesting(p)
		if errors.Is(err, errors.ErrCodeNoVersions) {
			a.store.Logger().Debug("skipping package without releases", "package", p)
			continue
		}
		if err != nil {
			return nil, err
		}
		if f != nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func (a *Analyzer) otherAuthors(author string, pkgs []string) []string {
	out := []string{}
	for _, p := range pkgs {
		if a.store.Author(p) != author {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// Downstreamer
// =============================================================================

// Downstreamer reports whether pkg keeps chasing an unaffiliated upstream:
// some present dependency saw more than ChurnThreshold constraint changes
// from pkg, and the two authors share no common substring of AuthorOverlap
// characters or more. The offending dependency is returned with true.
//
// Changes are counted as constraint spans, so dropping a dependency and
// declaring it again counts as a change even when the constraint is the same.
func (a *Analyzer) Downstreamer(pkg string) (string, bool, error) {
	present, err := a.store.PresentDependencies(pkg)
	if err != nil {
		return "", false, err
	}
	author := a.store.Author(pkg)
	for _, d := range present {
		spans, err := a.store.DepVersionSpans(pkg, d)
		if err != nil {
			return "", false, err
		}
		if len(spans) <= a.cfg.ChurnThreshold {
			continue
		}
		common := LongestCommonSubstring(author, a.store.Author(d))
		if utf8.RuneCountInString(common) < a.cfg.AuthorOverlap {
			return d, true, nil
		}
	}
	return "", false, nil
}

// LongestCommonSubstring returns the longest string of consecutive
// characters found in both a and b. Among equally long candidates the one
// ending first in a wins.
func LongestCommonSubstring(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	best, end := 0, 0
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best, end = cur[j], i
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return string(ra[end-best : end])
}
