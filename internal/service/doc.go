// Package service contains the application use cases of the tarot journal.
// It orchestrates the deck catalog, the shuffle engine, the interpretation
// boundary and the persisted history to fulfil the operations exposed by the
// HTTP API and the CLI.
//
// Key components:
//
//   - ReadingService draws cards and spreads, requests interpretations and
//     manages saved readings and their statistics.
//   - SettingsService reads and patches the persisted user settings.
//   - BackupService exports and restores the whole reading history.
//
// Services receive their dependencies through constructor injection and depend
// on narrow interfaces (Catalog, ReadingHistory, SettingsReader) rather than on
// concrete infrastructure. Expected conditions are reported with sentinel
// errors from this package and from internal/domain; anything else is wrapped
// in a ServiceError naming the failed operation.
package service
