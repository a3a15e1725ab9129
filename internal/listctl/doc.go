// Package listctl drives the catalog list screen.
//
// A Controller accumulates catalog pages as the user scrolls, runs
// query-driven searches against a full catalog snapshot, and decides which
// of the two entry sets is displayed:
//
//	query empty     -> Paginated{accumulated entries, next cursor}
//	query non-empty -> Filtered{search results, query}
//
// Pagination and search are mutually exclusive: LoadMore is a no-op while a
// query is active. All state sits behind one mutex; network calls run outside
// it and their results are dropped when a Refresh or a newer search has
// superseded them.
package listctl
