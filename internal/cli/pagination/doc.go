// Package pagination provides offset- and page-based slicing and sorting of
// catalog results for the non-interactive CLI commands.
//
//   - Params: CLI flag values and validation
//   - Meta: metadata reported alongside paginated results
//   - EntrySorter: sorting of catalog entries by id or name
package pagination
