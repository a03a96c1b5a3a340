// Package api handles incoming HTTP requests for the task resource: routing
// parameters, JSON decoding, and response formatting. It translates between
// the wire format and the task service, and maps service errors to HTTP
// status codes without leaking internal details to clients.
package api
