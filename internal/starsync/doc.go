// Package starsync imports GitHub stars into Pinboard incrementally.
//
// A run resolves a cursor from the most recent marker-tagged bookmark, walks
// the starred listing (oldest first on the first run, newest first
// afterwards), cuts each page at the previously imported repository and
// publishes whatever is left. The bookmark store is the only record of
// progress, so an aborted run is recovered by running again.
//
// Runs against the same Pinboard account must not overlap.
package starsync
