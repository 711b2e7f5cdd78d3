// Package postgres provides the PostgreSQL implementation of the
// store.DocumentStore interface defined in the internal/store package.
// It handles the details of database connections, schema migrations and
// query execution, and maps driver errors onto store errors.
package postgres
