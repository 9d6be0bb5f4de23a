package timeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/history"
)

// Column is the report column an event belongs to.
type Column string

const (
	ColumnDependency Column = "dependency-change"
	ColumnFocal      Column = "focal"
	ColumnDownstream Column = "downstream-change"
)

// Row is one event on a timeline.
type Row struct {
	Time   time.Time `json:"time"`
	Column Column    `json:"column"`
	Label  string    `json:"label"`
}

// Options controls [Rows].
type Options struct {
	// AbortIfBoring makes Rows fail with an UNINTERESTING error when the
	// package has no dependencies or no reverse dependencies.
	AbortIfBoring bool
}

// Rows interleaves the releases of pkg with the releases of its dependencies
// and dependents, and with the moments each side changed the constraint it
// declared. Rows are sorted by time; events at the same instant keep the
// order focal, dependencies, dependents.
func Rows(s *history.Store, pkg string, opts Options) ([]Row, error) {
	versions, err := s.Versions(pkg)
	if err != nil {
		return nil, err
	}
	deps, err := s.Dependencies(pkg)
	if err != nil {
		return nil, err
	}
	rdeps, err := s.ReverseDependencies(pkg)
	if err != nil {
		return nil, err
	}
	if opts.AbortIfBoring && (len(deps) == 0 || len(rdeps) == 0) {
		return nil, errors.New(errors.ErrCodeUninteresting,
			"package %q has %d dependencies and %d dependents", pkg, len(deps), len(rdeps))
	}

	logger := s.Logger()
	var rows []Row
	for _, v := range versions {
		at, _ := s.DateOfVersion(pkg, v)
		rows = append(rows, Row{Time: at, Column: ColumnFocal, Label: pkg + " v" + v})
	}

	for _, d := range deps {
		if dv, err := s.Versions(d); err != nil {
			logger.Debug("no history for dependency", "package", pkg, "dependency", d, "err", err)
		} else {
			for _, v := range dv {
				at, _ := s.DateOfVersion(d, v)
				rows = append(rows, Row{Time: at, Column: ColumnDependency, Label: d + " v" + v})
			}
		}
		spans, err := s.DepVersionSpans(pkg, d)
		if err != nil {
			logger.Warn("no constraint history", "package", pkg, "dependency", d, "err", err)
			continue
		}
		for _, sp := range spans {
			rows = append(rows, Row{
				Time:   sp.Start,
				Column: ColumnDependency,
				Label:  fmt.Sprintf("ref: %s -> %s v%s", pkg, d, sp.Label),
			})
		}
	}

	for _, r := range rdeps {
		if rv, err := s.Versions(r); err != nil {
			logger.Debug("no history for dependent", "package", pkg, "dependent", r, "err", err)
		} else {
			for _, v := range rv {
				at, _ := s.DateOfVersion(r, v)
				rows = append(rows, Row{Time: at, Column: ColumnDownstream, Label: r + " v" + v})
			}
		}
		spans, ok, err := s.ReverseDependencyTimespans(pkg, r)
		if err != nil || !ok {
			logger.Warn("no reverse constraint history", "package", pkg, "dependent", r, "err", err)
			continue
		}
		for _, sp := range spans {
			rows = append(rows, Row{
				Time:   sp.Start,
				Column: ColumnDownstream,
				Label:  fmt.Sprintf("ref: %s -> %s v%s", r, pkg, sp.Label),
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b Row) int { return a.Time.Compare(b.Time) })
	return rows, nil
}

const (
	reportFormat = "%25s   %20s   %20s   %20s"
	dateLayout   = "2006-01-02"
)

// Report renders rows as a four-column text table headed by pkg. Each line
// carries the date of its event, left blank when it repeats the date of the
// line above.
func Report(rows []Row, pkg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, reportFormat+"\n", "Time", "Dependency changes", pkg, "Downstream dependencies")

	last := ""
	for _, r := range rows {
		date := r.Time.Format(dateLayout)
		if date == last {
			date = ""
		} else {
			last = date
		}
		var left, mid, right string
		switch r.Column {
		case ColumnDependency:
			left = r.Label
		case ColumnFocal:
			mid = r.Label
		case ColumnDownstream:
			right = r.Label
		}
		fmt.Fprintf(&b, reportFormat+"\n", date, left, mid, right)
	}
	return b.String()
}
