// Package httputil provides JSON request and response helpers for the HTTP
// API.
//
// # Overview
//
//   - [DecodeJSON]: bounded request body decoding
//   - [WriteJSON]: JSON responses with a status code
//   - [WriteError]: error responses derived from pkg/errors codes
//   - [WriteDocument]: raw artifacts, optionally as a download
//
// # Error Responses
//
// Errors are written as
//
//	{"detail": "Diagram 'simple.xml' not found", "code": "NOT_FOUND"}
//
// The status comes from errors.HTTPStatus, so validation failures become 422,
// missing artifacts 404 and everything else 500. Messages of internal errors
// are replaced with a generic text; the caller logs the original.
package httputil
