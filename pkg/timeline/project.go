package timeline

import (
	"strings"
	"time"

	"github.com/matzehuels/depalyze/pkg/history"
)

// =============================================================================
// Types
// =============================================================================

// Half selects the part of a category lane a span is drawn in.
type Half string

const (
	HalfFull   Half = ""
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

// Span is one labelled bar on a timeline.
type Span struct {
	Category  string    `json:"category"` // Lane: the package the bar belongs to
	Key       string    `json:"key"`      // "pkg:version" or "dep::constraint"
	Caption   string    `json:"caption"`  // Text drawn on the bar
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Half      Half      `json:"half,omitempty"`
	Author    string    `json:"author,omitempty"`    // Used to color release bars
	Invisible bool      `json:"invisible,omitempty"` // Draw the caption only
}

// Connection links two spans by key: a dependency release (From) to the
// focal release that referenced it (To).
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Timeline is a set of spans and the connections between them.
type Timeline struct {
	Spans       []Span       `json:"spans"`
	Connections []Connection `json:"connections"`
}

// FindByKey returns every span with the given key, in insertion order.
func (t *Timeline) FindByKey(key string) []Span {
	var out []Span
	for _, sp := range t.Spans {
		if sp.Key == key {
			out = append(out, sp)
		}
	}
	return out
}

// Categories returns the distinct span categories in order of first
// appearance.
func (t *Timeline) Categories() []string {
	var cats []string
	seen := make(map[string]struct{})
	for _, sp := range t.Spans {
		if _, ok := seen[sp.Category]; ok {
			continue
		}
		seen[sp.Category] = struct{}{}
		cats = append(cats, sp.Category)
	}
	return cats
}

// TimeRange returns the earliest start and latest end over the spans
// accepted by filter. A nil filter accepts every span. ok is false if no span
// is accepted.
func (t *Timeline) TimeRange(filter func(Span) bool) (start, end time.Time, ok bool) {
	for _, sp := range t.Spans {
		if filter != nil && !filter(sp) {
			continue
		}
		if !ok || sp.Start.Before(start) {
			start = sp.Start
		}
		if !ok || sp.End.After(end) {
			end = sp.End
		}
		ok = true
	}
	return start, end, ok
}

func (t *Timeline) add(sp Span) { t.Spans = append(t.Spans, sp) }

// =============================================================================
// Projection
// =============================================================================

// Project lays out pkg and its dependencies as spans:
//
//   - one span per release of pkg (key "pkg:version"), lasting until the next
//     release or the end of time;
//   - per dependency, one span per dependency release in the top half of the
//     dependency's lane (key "dep:version");
//   - per dependency, one span per constraint run in the bottom half (key
//     "dep::constraint").
//
// Each release of pkg is connected to the dependency release its constraint
// names, after [StripConstraint]. Links that cannot be resolved are logged
// at debug level and left out.
func Project(s *history.Store, pkg string) (*Timeline, error) {
	versions, err := s.Versions(pkg)
	if err != nil {
		return nil, err
	}
	deps, err := s.Dependencies(pkg)
	if err != nil {
		return nil, err
	}

	logger := s.Logger()
	tl := &Timeline{Spans: []Span{}, Connections: []Connection{}}
	addReleases(tl, s, pkg, versions, HalfFull)

	for _, d := range deps {
		spans, err := s.DepVersionSpans(pkg, d)
		if err != nil {
			return nil, err
		}
		for _, sp := range spans {
			tl.add(Span{
				Category:  d,
				Key:       d + "::" + sp.Label,
				Caption:   sp.Label,
				Start:     sp.Start,
				End:       sp.End,
				Half:      HalfBottom,
				Invisible: sp.Label == "",
			})
		}

		if dv, err := s.Versions(d); err != nil {
			logger.Debug("no history for dependency", "package", pkg, "dependency", d, "err", err)
		} else {
			addReleases(tl, s, d, dv, HalfTop)
		}

		for _, v := range versions {
			decls, _ := s.Declarations(pkg, v)
			edges := decls[d]
			if len(edges) == 0 {
				logger.Debug("release did not declare dependency", "package", pkg, "version", v, "dependency", d)
				continue
			}
			target := StripConstraint(edges[0].Constraint)
			from := d + ":" + target
			to := pkg + ":" + v
			if len(tl.FindByKey(from)) == 0 {
				logger.Debug("cannot resolve dependency release", "package", pkg, "version", v,
					"dependency", d, "constraint", edges[0].Constraint)
				continue
			}
			tl.Connections = append(tl.Connections, Connection{From: from, To: to})
		}
	}
	return tl, nil
}

// addReleases adds one span per version of pkg, each lasting until the next
// version or the store's end of time.
func addReleases(tl *Timeline, s *history.Store, pkg string, versions []string, half Half) {
	author := s.Author(pkg)
	for i, v := range versions {
		start, _ := s.DateOfVersion(pkg, v)
		end := s.EndOfTime()
		if i+1 < len(versions) {
			end, _ = s.DateOfVersion(pkg, versions[i+1])
		}
		tl.add(Span{
			Category: pkg,
			Key:      pkg + ":" + v,
			Caption:  v,
			Start:    start,
			End:      end,
			Half:     half,
			Author:   author,
		})
	}
}

// StripConstraint reduces a constraint to the version it is anchored on:
// leading range operators and a "v" prefix are dropped, and only the first
// space-separated term is kept. "^1.2.0", ">= 1.2.0 < 2" and "v1.2.0" all
// become "1.2.0".
func StripConstraint(constraint string) string {
	c := strings.TrimLeft(strings.TrimSpace(constraint), "^~=<>! ")
	c = strings.TrimPrefix(c, "v")
	if i := strings.IndexAny(c, " ,|"); i >= 0 {
		c = c[:i]
	}
	return c
}
