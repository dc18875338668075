// Package plan defines the date-keyed task list domain.
//
// A plan is the ordered list of tasks recorded for one calendar date. Dates
// are canonicalized to DD/MM/YYYY and every plan is persisted to its own flat
// text file whose name is derived from the date.
//
// Key concepts:
//   - Date: canonical DD/MM/YYYY calendar date, zero value means "no date"
//   - FileName / DateFromFileName: the deterministic date <-> filename mapping
//   - Encode / Decode: the one-task-per-line file format
package plan
