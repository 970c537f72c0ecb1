// Package core fills a chain of linked text frames with one column of a
// spreadsheet and formats the result. It has no UI or transport dependencies
// and is shared by the CLI, the file watcher and the HTTP server.
//
// # Fill Flow
//
// [Service.UpdateFromFile] and [Service.UpdateFromReader] run the same steps:
//
//  1. Take a fill slot from the [FillLimiter]; fills never overlap
//  2. Check that a document is open and the target frame exists
//  3. Extract the configured column (CSV or XLSX) via the extract package
//  4. Replace the frame's story with the values joined by newlines
//  5. Apply the [Format] to the whole story
//  6. Report whether the text overflows the last linked frame
//  7. Record a [Run] in the [RunStore]
//
// An overflow is a warning, not a failure: the text stays in place and the
// [Result] carries an FRM002 message.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DOC001, FRM001-FRM003, FNT001: Document errors
//   - CSV001-CSV003: Source parsing errors
//   - FILE001, FILE004, FILE006: File errors
//   - UPL002-UPL005: Fill scheduling errors
//
// # Run History
//
// Every attempt, successful or not, is recorded. [MemoryRunStore] keeps a
// bounded in-process history; the database package provides a Postgres
// backed store.
package core
