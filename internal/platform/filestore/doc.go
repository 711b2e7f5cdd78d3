// Package filestore implements store.DocumentStore on the local filesystem.
//
// Every document is a single <key>.json file in one directory. Writes go to
// a temporary file in the same directory which is synced and then renamed
// over the target, so readers never observe a partially written document.
package filestore
