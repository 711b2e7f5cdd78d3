// Package store defines DocumentStore, the key/value persistence contract
// shared by the file and PostgreSQL backends, together with the errors and
// transaction helper they have in common.
//
// The application persists a handful of whole documents (the reading history
// and the user settings) under fixed keys. Every write replaces the complete
// document; there is no partial or incremental persistence.
package store
