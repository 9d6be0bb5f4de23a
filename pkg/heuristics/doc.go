// Package heuristics answers statistical questions about an ecosystem
// history: how often packages release, whether they are still active, and
// which packages sit under interesting maintenance stress.
//
// All queries go through an [Analyzer], which pairs a [history.Store] with
// the thresholds in [Config]. [DefaultConfig] holds the classic values; the
// CLI lets a config file override them.
//
// # Not Applicable
//
// Some questions have no answer for some packages, for example the update
// frequency of a package with a single release. Those queries return a
// NOT_APPLICABLE error, which aggregate queries such as
// [Analyzer.AverageUpdateFrequency] skip instead of propagating.
package heuristics
