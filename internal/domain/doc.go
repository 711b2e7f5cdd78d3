// Package domain contains the core entities of a tarot reading: cards and
// decks, spreads and their slots, drawn cards, completed reading sessions and
// user settings. It represents the heart of the system, independent of any
// specific storage backend, AI provider or delivery mechanism.
package domain
