// Package task runs background work off the request path. Its only job today
// is interpreting a saved reading after the user asked for it: an event
// handler turns interpretation requests into tasks, a bounded queue buffers
// them, and a worker pool executes them until shutdown.
package task
