// Package gemini provides an implementation of the interpretation.Interpreter
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates the role-tagged
// prompt built by the interpretation package into a Gemini request (system
// messages become the system instruction, user messages the contents), calls
// the API through google.golang.org/genai with retry and backoff on transient
// failures, and maps the response back to plain text.
package gemini
