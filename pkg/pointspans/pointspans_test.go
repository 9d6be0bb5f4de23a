package pointspans

import (
	"math/rand"
	"testing"
	"time"

	"github.com/matzehuels/depalyze/pkg/errors"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type event struct {
	label string
	unset bool
	at    string
}

func record(t *testing.T, events []event) *Recorder {
	t.Helper()
	r := New()
	for _, e := range events {
		var err error
		if e.unset {
			err = r.Clear(day(e.at))
		} else {
			err = r.AddChange(e.label, day(e.at))
		}
		if err != nil {
			t.Fatalf("record %+v: %v", e, err)
		}
	}
	return r
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name   string
		events []event
		end    string
		want   []Span
	}{
		{
			name: "merges identical neighbours",
			events: []event{
				{label: "a", at: "2001-03-01"},
				{label: "a", at: "2001-05-01"},
				{label: "b", at: "2001-07-01"},
				{label: "a", at: "2001-09-01"},
			},
			end: "2001-11-01",
			want: []Span{
				{"a", day("2001-03-01"), day("2001-07-01")},
				{"b", day("2001-07-01"), day("2001-09-01")},
				{"a", day("2001-09-01"), day("2001-11-01")},
			},
		},
		{
			name: "unordered input",
			events: []event{
				{label: "a", at: "2001-09-01"},
				{label: "b", at: "2001-07-01"},
				{label: "a", at: "2001-03-01"},
				{label: "a", at: "2001-05-01"},
			},
			end: "2001-11-01",
			want: []Span{
				{"a", day("2001-03-01"), day("2001-07-01")},
				{"b", day("2001-07-01"), day("2001-09-01")},
				{"a", day("2001-09-01"), day("2001-11-01")},
			},
		},
		{
			name: "unset gaps emit nothing",
			events: []event{
				{unset: true, at: "2001-01-01"},
				{label: "a", at: "2001-02-01"},
				{unset: true, at: "2001-03-01"},
				{unset: true, at: "2001-04-01"},
				{label: "a", at: "2001-05-01"},
			},
			end: "2001-06-01",
			want: []Span{
				{"a", day("2001-02-01"), day("2001-03-01")},
				{"a", day("2001-05-01"), day("2001-06-01")},
			},
		},
		{
			name: "trailing unset run",
			events: []event{
				{label: "a", at: "2001-02-01"},
				{unset: true, at: "2001-03-01"},
			},
			end:  "2001-06-01",
			want: []Span{{"a", day("2001-02-01"), day("2001-03-01")}},
		},
		{
			name: "empty label is a value",
			events: []event{
				{label: "", at: "2001-02-01"},
				{unset: true, at: "2001-03-01"},
			},
			end:  "2001-06-01",
			want: []Span{{"", day("2001-02-01"), day("2001-03-01")}},
		},
		{
			name: "same timestamp keeps insertion order",
			events: []event{
				{label: "a", at: "2001-02-01"},
				{label: "b", at: "2001-02-01"},
			},
			end:  "2001-03-01",
			want: []Span{{"b", day("2001-02-01"), day("2001-03-01")}},
		},
		{
			name: "same timestamp between identical labels",
			events: []event{
				{label: "a", at: "2001-03-01"},
				{label: "b", at: "2001-05-01"},
				{label: "a", at: "2001-05-01"},
			},
			end:  "2001-11-01",
			want: []Span{{"a", day("2001-03-01"), day("2001-11-01")}},
		},
		{
			name: "unset overridden at same timestamp",
			events: []event{
				{label: "a", at: "2001-03-01"},
				{unset: true, at: "2001-05-01"},
				{label: "a", at: "2001-05-01"},
			},
			end:  "2001-11-01",
			want: []Span{{"a", day("2001-03-01"), day("2001-11-01")}},
		},
		{
			name: "last change at shared timestamp wins",
			events: []event{
				{label: "a", at: "2001-03-01"},
				{label: "a", at: "2001-05-01"},
				{unset: true, at: "2001-05-01"},
			},
			end:  "2001-11-01",
			want: []Span{{"a", day("2001-03-01"), day("2001-05-01")}},
		},
		{
			name: "change at end time",
			events: []event{
				{label: "a", at: "2001-02-01"},
				{label: "b", at: "2001-03-01"},
			},
			end:  "2001-03-01",
			want: []Span{{"a", day("2001-02-01"), day("2001-03-01")}},
		},
		{
			name: "change after end time is clamped",
			events: []event{
				{label: "a", at: "2001-02-01"},
				{label: "b", at: "2001-05-01"},
			},
			end:  "2001-03-01",
			want: []Span{{"a", day("2001-02-01"), day("2001-03-01")}},
		},
		{
			name: "no events",
			end:  "2001-03-01",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := record(t, tt.events)
			got, err := r.Spans(day(tt.end))
			if err != nil {
				t.Fatalf("Spans: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Spans() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].Label != tt.want[i].Label ||
					!got[i].Start.Equal(tt.want[i].Start) ||
					!got[i].End.Equal(tt.want[i].End) {
					t.Errorf("span %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSpansDoesNotMutateRecorder(t *testing.T) {
	r := record(t, []event{
		{label: "b", at: "2001-05-01"},
		{label: "a", at: "2001-03-01"},
	})
	if _, err := r.Spans(day("2001-06-01")); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if err := r.AddChange("a", day("2001-05-15")); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Spans(day("2001-06-01"))
	if len(got) != 3 {
		t.Errorf("got %d spans after extra change, want 3: %v", len(got), got)
	}
}

func TestZeroTimestamps(t *testing.T) {
	r := New()
	if err := r.AddChange("a", time.Time{}); !errors.Is(err, errors.ErrCodeInvalidTimestamp) {
		t.Errorf("AddChange(zero) error = %v, want INVALID_TIMESTAMP", err)
	}
	if err := r.Clear(time.Time{}); !errors.Is(err, errors.ErrCodeInvalidTimestamp) {
		t.Errorf("Clear(zero) error = %v, want INVALID_TIMESTAMP", err)
	}
	if r.Len() != 0 {
		t.Errorf("rejected changes were recorded: Len() = %d", r.Len())
	}
	if _, err := r.Spans(time.Time{}); !errors.Is(err, errors.ErrCodeInvalidTimestamp) {
		t.Errorf("Spans(zero) error = %v, want INVALID_TIMESTAMP", err)
	}
}

// TestSpansProperties checks ordering, non-overlap, coverage and label
// merging over random event sequences.
func TestSpansProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := day("2010-01-01")
	labels := []string{"^1.0", "^2.0", "~3.1", ""}

	for iter := 0; iter < 200; iter++ {
		r := New()
		n := 1 + rng.Intn(12)
		first := base.AddDate(1, 0, 0)
		for i := 0; i < n; i++ {
			// A monthly grid makes shared timestamps common.
			at := base.AddDate(0, rng.Intn(12), 0)
			if at.Before(first) {
				first = at
			}
			if rng.Intn(4) == 0 {
				_ = r.Clear(at)
			} else {
				_ = r.AddChange(labels[rng.Intn(len(labels))], at)
			}
		}
		end := base.AddDate(1, 0, 0)

		spans, err := r.Spans(end)
		if err != nil {
			t.Fatal(err)
		}
		for i, s := range spans {
			if !s.End.After(s.Start) {
				t.Fatalf("iter %d: empty span %v", iter, s)
			}
			if s.Start.Before(first) || s.End.After(end) {
				t.Fatalf("iter %d: span %v outside [%v, %v]", iter, s, first, end)
			}
			if i > 0 {
				prev := spans[i-1]
				if s.Start.Before(prev.End) {
					t.Fatalf("iter %d: overlap %v / %v", iter, prev, s)
				}
				if s.Start.Equal(prev.End) && s.Label == prev.Label {
					t.Fatalf("iter %d: adjacent spans with same label %v / %v", iter, prev, s)
				}
			}
		}
	}
}
