// Package importers implements bulk project import from a spreadsheet plus
// an optional zip archive of images.
//
// # Architecture
//
// The import pipeline follows a simple flow:
//
//	xlsx/csv bytes → ReadSpreadsheet → SheetRow → Normalize → Draft
//	zip bytes → media.ArchiveExtractor → ArchiveIndex (once per batch)
//	Draft + ArchiveIndex → media.Resolver → AssignSlug → ProjectStore.Insert → Report
//
// Every row produces exactly one entry in the Report, either an item (id,
// slug, title) or an error (row, message, title, kind). Rows never affect
// each other: a missing title, an unreachable image or a duplicate slug only
// fails that row, and media that cannot be resolved is dropped from the row
// instead of failing it.
//
// # Cell shapes
//
// Spreadsheet cells and API payloads disagree on types. All of that is
// handled in coerce.go:
//
//   - scalars are trimmed text, blank becomes nil (stored as NULL)
//   - list fields accept a list, a JSON array as text, or text split on
//     comma, pipe and newline
//   - configurations accept JSON objects/arrays as structured records and
//     degrade anything else to a plain list of strings
//
// # Failure kinds
//
//   - validation: title or city missing (*RowValidationError)
//   - constraint: the store rejected a duplicate slug (*PersistenceConstraintError)
//   - persistence: any other store failure (*PersistenceError)
//   - internal: a recovered panic (*RowPanicError)
//
// Failed rows are not retried; fix the source row and import it again.
// Slugs are derived deterministically, so importing the same sheet twice
// fails every row that has a slug with a constraint error on the second run.
package importers
