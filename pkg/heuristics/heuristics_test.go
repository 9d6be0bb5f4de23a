package heuristics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/heuristics"
	"github.com/matzehuels/depalyze/pkg/history"
	"github.com/matzehuels/depalyze/pkg/history/historytest"
)

// hubEcosystem builds a package "hub" that is interesting with the default
// thresholds, with every condition exceeded by exactly one. The recency
// window is [2009-01-01, 2010-01-01].
func hubEcosystem() *historytest.Builder {
	b := historytest.New("2010-01-01").
		Author("hub", "alice").
		Release("hub", "1.0", "2005-01-01", map[string]string{"u1": "^1.0"}).
		Release("hub", "2.0", "2009-06-01", map[string]string{
			"u1": "^1.1", "u2": "^2.0", "u3": "^3.0", "mine": "*", "external": "*",
		}).
		Author("mine", "alice").
		Release("mine", "1.0", "2009-05-01", nil).
		Release("mine", "1.1", "2009-05-02", nil)

	for i, author := range []string{"bob", "carol", "dave"} {
		name := fmt.Sprintf("u%d", i+1)
		b.Author(name, author).Release(name, "0.9", "2006-01-01", nil)
	}
	b.Release("u1", "1.0", "2009-02-01", nil).Release("u1", "1.1", "2009-03-01", nil)
	b.Release("u2", "1.0", "2009-02-01", nil).Release("u2", "2.0", "2009-03-01", nil)

	for i, author := range []string{"erin", "frank", "gina", "alice"} {
		name := fmt.Sprintf("d%d", i+1)
		b.Author(name, author).Release(name, "1.0", "2008-01-01", map[string]string{"hub": "^1.0"})
	}
	return b
}

func analyzer(t *testing.T, b *historytest.Builder) *heuristics.Analyzer {
	t.Helper()
	return heuristics.New(b.Store(t), heuristics.DefaultConfig())
}

func TestInteresting(t *testing.T) {
	f, err := analyzer(t, hubEcosystem()).Interesting("hub")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "hub", f.Package)
	assert.Equal(t, []string{"u1", "u2", "u3"}, f.Dependencies)
	assert.Equal(t, []string{"d1", "d2", "d3"}, f.ReverseDependencies)
}

func TestInterestingBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		modify func(b *historytest.Builder)
	}{
		{"two diverse upstream", func(b *historytest.Builder) {
			delete(b.Edges["hub"]["2.0"], "u3")
		}},
		{"one busy upstream", func(b *historytest.Builder) {
			b.Dates["u2"]["1.0"] = historytest.Date("2008-06-01")
		}},
		{"two diverse downstream", func(b *historytest.Builder) {
			delete(b.Dates, "d3")
			delete(b.Edges, "d3")
		}},
		{"latest release at window start", func(b *historytest.Builder) {
			b.Dates["hub"]["2.0"] = historytest.Date("2009-01-01")
		}},
		{"latest release before window", func(b *historytest.Builder) {
			b.Dates["hub"]["2.0"] = historytest.Date("2008-12-31")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := hubEcosystem()
			tt.modify(b)
			f, err := analyzer(t, b).Interesting("hub")
			require.NoError(t, err)
			assert.Nil(t, f)
		})
	}
}

func TestInterestingConfigurable(t *testing.T) {
	b := hubEcosystem()
	delete(b.Edges["hub"]["2.0"], "u3")

	cfg := heuristics.DefaultConfig()
	cfg.MinUpstream = 1
	f, err := heuristics.New(b.Store(t), cfg).Interesting("hub")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []string{"u1", "u2"}, f.Dependencies)
}

func TestInterestingPackages(t *testing.T) {
	b := hubEcosystem()
	b.Dates["ghost"] = map[string]time.Time{}
	b.Edges["ghost"] = map[string]map[string][]history.Edge{}

	findings, err := analyzer(t, b).InterestingPackages()
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "hub", findings[0].Package)
}

func TestUpdateFrequency(t *testing.T) {
	b := historytest.New("2002-01-01").
		Release("steady", "1", "2001-01-01", nil).
		Release("steady", "2", "2001-01-11", nil).
		Release("steady", "3", "2001-01-21", nil).
		Release("burst", "1", "2001-03-01", nil).
		Release("burst", "2", "2001-03-01", nil).
		Release("once", "1", "2001-01-01", nil).
		Release("partial", "1", "2001-01-01", nil).
		Release("partial", "2", "2001-01-01", nil)
	b.Dates["partial"]["2"] = time.Date(2001, 1, 2, 12, 0, 0, 0, time.UTC)
	a := analyzer(t, b)

	tests := []struct {
		pkg  string
		want float64
	}{
		{"steady", 0.1},
		{"burst", 0},
		{"partial", 1}, // 1.5 days count as one
	}
	for _, tt := range tests {
		got, err := a.UpdateFrequency(tt.pkg)
		require.NoError(t, err, tt.pkg)
		assert.InDelta(t, tt.want, got, 1e-9, tt.pkg)
	}

	_, err := a.UpdateFrequency("once")
	assert.True(t, errors.IsNotApplicable(err), "err = %v", err)

	_, err = a.UpdateFrequency("missing")
	assert.True(t, errors.IsNotFound(err), "err = %v", err)
}

func TestAverageUpdateFrequency(t *testing.T) {
	b := historytest.New("2002-01-01").
		Release("p", "1", "2001-01-01", nil).
		Release("p", "2", "2001-01-11", nil).
		Release("q", "1", "2001-01-01", nil).
		Release("r", "1", "2001-02-01", nil).
		Release("r", "2", "2001-02-05", nil)

	avg, err := analyzer(t, b).AverageUpdateFrequency()
	require.NoError(t, err)
	assert.InDelta(t, (0.1+0.25)/2, avg, 1e-9)

	lonely := historytest.New("2002-01-01").Release("q", "1", "2001-01-01", nil)
	_, err = analyzer(t, lonely).AverageUpdateFrequency()
	assert.True(t, errors.IsNotApplicable(err), "err = %v", err)
}

func TestRecentlyActive(t *testing.T) {
	a := analyzer(t, hubEcosystem())
	assert.Equal(t, historytest.Date("2009-01-01"), a.Cutoff())

	tests := []struct {
		pkg  string
		want bool
	}{
		{"u1", true},
		{"u2", true},
		{"u3", false},
		{"hub", false}, // one release in the window
	}
	for _, tt := range tests {
		got, err := a.RecentlyActive(tt.pkg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.pkg)
	}

	// Releases exactly at the cutoff do not count.
	got, err := a.RecentlyActiveSince("u1", historytest.Date("2009-02-01"), 2)
	require.NoError(t, err)
	assert.False(t, got)
	got, err = a.RecentlyActiveSince("u1", historytest.Date("2009-01-31"), 2)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCutoffCalendarYears(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{365, "2023-03-01"},
		{730, "2022-03-01"},
		{30, "2024-01-31"},
		{400, "2023-01-25"},
	}
	for _, tt := range tests {
		cfg := heuristics.DefaultConfig()
		cfg.RecencyDays = tt.days
		b := historytest.New("2024-03-01").Release("p", "1", "2020-01-01", nil)
		a := heuristics.New(b.Store(t), cfg)
		assert.Equal(t, historytest.Date(tt.want), a.Cutoff(), "recency_days=%d", tt.days)
	}
}

func TestRecentlyActiveAcrossLeapDay(t *testing.T) {
	// 2023-03-01 is one calendar year before the end, but 366 days.
	b := historytest.New("2024-03-01").
		Release("p", "1", "2023-03-01", nil).
		Release("p", "2", "2023-03-02", nil).
		Release("p", "3", "2023-06-01", nil)
	a := analyzer(t, b)

	got, err := a.RecentlyActive("p")
	require.NoError(t, err)
	assert.True(t, got, "releases after the one-year cutoff should count")

	got, err = a.RecentlyActiveSince("p", historytest.Date("2023-03-02"), 2)
	require.NoError(t, err)
	assert.False(t, got)
}

// churnEcosystem makes "chaser" change its constraint on "up" in every one
// of its n releases.
func churnEcosystem(n int, chaserAuthor, upAuthor string) *historytest.Builder {
	b := historytest.New("2010-01-01").
		Author("chaser", chaserAuthor).
		Author("up", upAuthor).
		Release("up", "1.0", "2000-01-01", nil)
	start := historytest.Date("2001-01-01")
	for i := range n {
		date := start.AddDate(0, i, 0).Format("2006-01-02")
		b.Release("chaser", fmt.Sprint(i), date, map[string]string{"up": fmt.Sprintf("^%d.0", i)})
	}
	return b
}

func TestDownstreamer(t *testing.T) {
	tests := []struct {
		name     string
		releases int
		chaser   string
		up       string
		want     bool
	}{
		{"churn above threshold", 9, "acme", "someone-else", true},
		{"churn at threshold", 8, "acme", "someone-else", false},
		{"affiliated authors", 12, "bigcompany-frontend", "bigcompany-backend", false},
		{"overlap just short", 12, "xbigcompy", "ybigcompz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep, ok, err := analyzer(t, churnEcosystem(tt.releases, tt.chaser, tt.up)).Downstreamer("chaser")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, "up", dep)
			}
		})
	}
}

func TestDownstreamerCountsGaps(t *testing.T) {
	// Nine separate runs of the same constraint, split by releases that drop
	// the dependency.
	b := historytest.New("2010-01-01").
		Author("chaser", "acme").
		Author("up", "someone-else").
		Release("up", "1.0", "2000-01-01", nil)
	start := historytest.Date("2001-01-01")
	for i := range 17 {
		var deps map[string]string
		if i%2 == 0 {
			deps = map[string]string{"up": "^1.0"}
		}
		b.Release("chaser", fmt.Sprint(i), start.AddDate(0, i, 0).Format("2006-01-02"), deps)
	}
	a := analyzer(t, b)

	spans, err := b.Store(t).DepVersionSpans("chaser", "up")
	require.NoError(t, err)
	require.Len(t, spans, 9)

	dep, ok, err := a.Downstreamer("chaser")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "up", dep)
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"bigcompany-frontend", "bigcompany-backend", "bigcompany-"},
		{"xabcy", "zabcw", "abc"},
		{"abc", "xyz", ""},
		{"", "abc", ""},
		{"héllo", "jéllo", "éllo"},
		{"same", "same", "same"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, heuristics.LongestCommonSubstring(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
