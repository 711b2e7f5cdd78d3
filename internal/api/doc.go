// Package api exposes the reading core over HTTP. Handlers decode and
// validate JSON requests, call the services and map their errors to status
// codes with messages that are safe to show; the detailed error only reaches
// the logs, after redaction.
package api
