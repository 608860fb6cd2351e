// Package api handles incoming HTTP requests for the task endpoints: routing,
// request validation and response formatting. Every response is wrapped in
// the shared envelope and errors are mapped to sanitized messages before
// they reach the client.
package api
