package history

import (
	"maps"
	"time"
)

// Edge is one declaration of a dependency in a release. Kind names the
// manifest section it came from ("dependencies", "Imports", "req", ...);
// Constraint is the version constraint string exactly as declared.
type Edge struct {
	Kind       string `json:"kind"`
	Constraint string `json:"constraint"`
}

// Authors maps package name to author (maintainer or organisation).
type Authors map[string]string

// ReleaseDates maps package name to version to release timestamp.
type ReleaseDates map[string]map[string]time.Time

// DependencyEdges maps package name to version to dependency name to the
// ordered list of declarations. The first declaration is canonical.
type DependencyEdges map[string]map[string]map[string][]Edge

// canonical returns the constraint a release declared for dep, and whether
// the dependency was declared at all.
func canonical(decls map[string][]Edge, dep string) (string, bool) {
	list := decls[dep]
	if len(list) == 0 {
		return "", false
	}
	return list[0].Constraint, true
}

func cloneAuthors(a Authors) Authors {
	if a == nil {
		return Authors{}
	}
	return maps.Clone(a)
}

// cloneDates deep-copies dates, normalizing every timestamp to UTC.
func cloneDates(d ReleaseDates) ReleaseDates {
	out := make(ReleaseDates, len(d))
	for pkg, versions := range d {
		vs := make(map[string]time.Time, len(versions))
		for v, t := range versions {
			vs[v] = t.UTC()
		}
		out[pkg] = vs
	}
	return out
}

func cloneEdges(e DependencyEdges) DependencyEdges {
	out := make(DependencyEdges, len(e))
	for pkg, versions := range e {
		vs := make(map[string]map[string][]Edge, len(versions))
		for v, deps := range versions {
			ds := make(map[string][]Edge, len(deps))
			for dep, list := range deps {
				ds[dep] = append([]Edge(nil), list...)
			}
			vs[v] = ds
		}
		out[pkg] = vs
	}
	return out
}
