// Package sbudesk holds the records exchanged with the SBU operations backend
// and the aggregation engine that turns them into a monthly performance.
//
// Staff members submit sales and expenses against Strategic Business Units
// (SBUs). Each record carries the day of month it belongs to. The engine:
//   - BuildDailySeries sums the records into a 31-day Series, one slot per
//     calendar day, days without activity included.
//   - Summarize derives totals, per-active-day averages and a bounded
//     performance score from a Series.
//
// The engine is pure: no I/O, inputs are never modified, and a corrupt record
// is excluded and reported rather than aborting the month. It serves the `sbu`
// command-line client.
package sbudesk
