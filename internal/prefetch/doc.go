// Package prefetch resolves entry details for listed references in the
// background.
//
// References are split into fixed-size batches. Batches run in order; the
// entries within a batch are fetched concurrently up to a limit through a
// catalog.DetailLoader, so repeated or overlapping requests share one
// network call. Each resolved detail is handed to a Sink (the list
// controller's attribute cache). A progress callback fires after every
// batch for UI updates.
package prefetch
