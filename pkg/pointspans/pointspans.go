// Package pointspans turns point-in-time state changes into labeled spans.
//
// A [Recorder] tracks one logical slot, for example "which constraint did
// package P declare for dependency D". Every release of P records the value
// the slot took at that moment. [Recorder.Spans] replays those changes in
// chronological order and returns the maximal intervals during which the slot
// held a constant label:
//
//	r := pointspans.New()
//	r.AddChange("^1.0", mar)
//	r.AddChange("^1.0", may) // same label: merged into the previous span
//	r.AddChange("^2.0", jul)
//	r.Clear(sep)            // dependency dropped: no span from here on
//	spans, _ := r.Spans(nov)
//	// [{^1.0 mar jul} {^2.0 jul sep}]
//
// Spans are half-open: a span ends exactly where the next differing change
// begins. Zero-length spans are never emitted.
package pointspans

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/depalyze/pkg/errors"
)

// Span is a maximal half-open interval [Start, End) during which the slot
// held Label.
type Span struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the span.
func (s Span) Duration() time.Duration { return s.End.Sub(s.Start) }

// change is one recorded event. seq preserves insertion order so that events
// sharing a timestamp replay deterministically.
type change struct {
	label string
	set   bool
	at    time.Time
	seq   int
}

func (c change) sameLabel(o change) bool {
	return c.set == o.set && (!c.set || c.label == o.label)
}

// Recorder accumulates state changes for a single slot.
//
// The zero value is ready to use. A Recorder is not safe for concurrent use.
type Recorder struct {
	changes []change
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// AddChange records that starting at at, the slot's value became label.
// It returns an INVALID_TIMESTAMP error if at is the zero time.
func (r *Recorder) AddChange(label string, at time.Time) error {
	return r.add(change{label: label, set: true, at: at})
}

// Clear records that starting at at, the slot holds no value. Unset runs take
// part in merging but never produce a span.
func (r *Recorder) Clear(at time.Time) error {
	return r.add(change{at: at})
}

func (r *Recorder) add(c change) error {
	if c.at.IsZero() {
		return errors.New(errors.ErrCodeInvalidTimestamp, "change %q recorded with zero timestamp", c.label)
	}
	c.seq = len(r.changes)
	r.changes = append(r.changes, c)
	return nil
}

// Len returns the number of recorded changes.
func (r *Recorder) Len() int { return len(r.changes) }

// Spans sorts the recorded changes by timestamp, merges consecutive runs with
// identical labels, and returns one span per labeled run. Each run ends at the
// next differing change, or at end for the final run. When several changes
// share a timestamp, the one recorded last wins.
//
// end is the dataset cutoff supplied by the caller; it returns an
// INVALID_TIMESTAMP error if end is the zero time. No span extends past end,
// and runs starting at or after end produce nothing.
func (r *Recorder) Spans(end time.Time) ([]Span, error) {
	if end.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidTimestamp, "spans requested with zero end time")
	}

	sorted := slices.Clone(r.changes)
	slices.SortFunc(sorted, func(a, b change) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	// The slot holds one value at any instant: of the changes sharing a
	// timestamp only the last recorded one counts.
	runs := make([]change, 0, len(sorted))
	for i, c := range sorted {
		if i+1 < len(sorted) && sorted[i+1].at.Equal(c.at) {
			continue
		}
		if len(runs) > 0 && runs[len(runs)-1].sameLabel(c) {
			continue
		}
		runs = append(runs, c)
	}

	var spans []Span
	for i, run := range runs {
		stop := end
		if i+1 < len(runs) && runs[i+1].at.Before(end) {
			stop = runs[i+1].at
		}
		if !run.set || !stop.After(run.at) {
			continue
		}
		spans = append(spans, Span{Label: run.label, Start: run.at, End: stop})
	}
	return spans, nil
}
