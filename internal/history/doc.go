// Package history implements the reading session store: an in-memory,
// newest-first collection of completed readings that is re-serialised to a
// store.DocumentStore after every mutation.
//
// The persisted form is a single JSON array of domain.ReadingSession under
// store.HistoryKey. A document that fails to parse is treated as an empty
// history so that a corrupt file never prevents the application from starting.
package history
