// Package decks provides the read-only catalogs of decks and spreads.
//
// Catalogs are TOML documents. The built-in decks and spreads are embedded in
// the binary; additional decks are read from a library directory laid out as
// <library>/<name>/deck.toml. A deck file either lists its cards explicitly
// under [[cards]] or sets standard = true to receive the 78-card
// Rider–Waite–Smith catalog (maj_00..maj_21, then <suit>_01..<suit>_14).
//
// Decks and spreads are immutable once loaded; every accessor returns values
// the caller may not use to modify the registry.
package decks
