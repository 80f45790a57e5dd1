// Package grid holds the immutable cost table consumed by the crucible
// search engine.
//
// What:
//
//   - Grid wraps a rectangular table of non-negative integer traversal costs.
//   - Parse/Read ingest the usual "one digit per cell, one row per line" text form.
//   - Cell addresses a position by (Row, Col); Index/Coordinate give a row-major mapping.
//
// Why:
//
//   - The engine assumes a validated table and never re-checks rectangularity,
//     so every check happens here, once, before an engine is built.
//
// Complexity:
//
//   - New / Parse: O(R×C) time and memory (deep copy).
//   - Cost, InBounds, Index, Coordinate: O(1).
//
// Errors:
//
//   - ErrEmptyGrid:      input has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrNegativeCost:   a cell holds a negative cost.
//   - ErrNonDigit:       a text cell is not a decimal digit.
//
// Every error is returned inside a ValidationError carrying the offending
// position; use errors.Is to match the sentinel.
package grid
