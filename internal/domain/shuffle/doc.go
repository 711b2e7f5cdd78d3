// Package shuffle implements card drawing for tarot readings.
//
// A draw is a Fisher–Yates permutation of a copy of the deck followed by one
// orientation coin flip per selected card. When a seed is supplied every
// random value is taken from a single ChaCha8 stream keyed by the SHA-256 of
// the seed, so the same seed and the same deck order always produce the same
// cards in the same orientations. Without a seed the system generator is used.
//
// The engine never deduplicates across calls: callers drawing one card at a
// time pass only the cards still available, see Available.
package shuffle
