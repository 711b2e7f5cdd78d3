// Package events carries history notifications between components.
//
// The history store emits an Event after every successful mutation, and the
// reading service emits an interpretation request when a reading is saved
// without text. Handlers (the task package, for instance) subscribe through an
// EventEmitter without the emitting side knowing who listens.
package events
