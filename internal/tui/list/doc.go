// Package listview provides a virtually scrolled list for Bubble Tea models.
//
// Only the rows inside the viewport (plus a small buffer) are rendered, so
// the list stays responsive as pages accumulate. Items can be replaced in
// place when more pages arrive without losing the selection, and AtEnd
// reports when the selection reaches the last row so callers can request
// the next page.
package listview
