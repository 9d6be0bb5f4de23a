// Package timeline projects the history of one package onto time.
//
// # Overview
//
// A timeline places a focal package between its upstream dependencies and
// its downstream dependents. Two projections are offered:
//
//   - [Rows]: a flat, time-sorted list of events in three columns
//     (dependency changes, focal releases, downstream changes), rendered as
//     fixed-width text with [Report].
//   - [Project]: labelled bars ([Span]) and links ([Connection]) suitable for
//     drawing a chart, where each focal release links to the dependency
//     release its constraint names.
//
// Both read from a [history.Store] and build its reverse index if needed.
//
// # Missing History
//
// Dependencies are frequently packages the store knows nothing about
// (external or unscanned). Their release rows are skipped and the skip is
// logged on the store's logger; the rest of the timeline is still produced.
//
// # Boring Packages
//
// With [Options.AbortIfBoring], [Rows] refuses packages that have no
// dependencies or no dependents and returns an UNINTERESTING error, so bulk
// callers can skip them cheaply.
package timeline
