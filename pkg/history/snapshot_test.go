package history_test

import (
	"slices"
	"testing"

	"github.com/matzehuels/depalyze/pkg/history"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := ecosystem().Store(t)

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.ReverseDependencies["lib"]; !slices.Equal(got, []string{"app", "tool"}) {
		t.Errorf("snapshot reverse deps of lib = %v", got)
	}
	if got := snap.Dependencies["app"]; !slices.Equal(got, []string{"left-pad", "lib", "util"}) {
		t.Errorf("snapshot deps of app = %v", got)
	}

	restored, err := history.FromSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	assertSameHistory(t, s, restored)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := ecosystem().Store(t)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	delete(snap.ReleaseDates, "app")
	snap.Authors["app"] = "mallory"

	if !s.Has("app") || s.Author("app") != "alice" {
		t.Error("mutating the snapshot changed the store")
	}
}

// assertSameHistory compares two stores through their public queries.
func assertSameHistory(t *testing.T, want, got *history.Store) {
	t.Helper()

	if !slices.Equal(want.Packages(), got.Packages()) {
		t.Fatalf("Packages() = %v, want %v", got.Packages(), want.Packages())
	}
	if !want.EndOfTime().Equal(got.EndOfTime()) {
		t.Errorf("EndOfTime() = %v, want %v", got.EndOfTime(), want.EndOfTime())
	}
	for _, p := range want.Packages() {
		wv, _ := want.Versions(p)
		gv, _ := got.Versions(p)
		if !slices.Equal(wv, gv) {
			t.Errorf("Versions(%s) = %v, want %v", p, gv, wv)
		}
		if want.Author(p) != got.Author(p) {
			t.Errorf("Author(%s) = %q, want %q", p, got.Author(p), want.Author(p))
		}
		wd, _ := want.Dependencies(p)
		gd, _ := got.Dependencies(p)
		if !slices.Equal(wd, gd) {
			t.Errorf("Dependencies(%s) = %v, want %v", p, gd, wd)
		}
		for _, d := range wd {
			ws, err := want.DepVersionSpans(p, d)
			if err != nil {
				t.Fatal(err)
			}
			gs, err := got.DepVersionSpans(p, d)
			if err != nil {
				t.Fatal(err)
			}
			if !spansEqual(ws, gs) {
				t.Errorf("DepVersionSpans(%s, %s) = %v, want %v", p, d, gs, ws)
			}
		}
	}
}
