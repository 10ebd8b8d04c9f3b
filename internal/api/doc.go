// Package api adapts HTTP requests to the service layer. Handlers decode and
// validate JSON payloads, read the identity resolved by the auth middleware,
// call one service operation and translate its errors into status codes
// without leaking internal details.
package api
