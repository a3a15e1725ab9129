// Package catalog is a read-only client for the PokeAPI creature catalog.
//
// It normalizes the service's responses into stable shapes:
//   - Page: one slice of entry references plus an opaque next-page cursor
//   - EntryDetail: a single entry's attributes (types, stats, sprites)
//   - SpeciesNarrative: localized descriptive text for an entry
//
// Identifiers are parsed from reference URLs and filtered against a
// canonical ceiling (Policy); entries above it are variant forms and never
// appear in default listings or searches. DetailLoader layers request
// deduplication and an in-memory TTL cache over single-entry lookups.
package catalog
