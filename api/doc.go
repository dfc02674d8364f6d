// Package api is the typed client for the remote bakery back-office REST
// API: authentication, password reset, and the role / permission / user /
// product-category resources the console screens manage.
//
// # Architecture boundaries
//
// The client translates HTTP semantics into Go values and sentinel errors.
// It holds no session state — callers pass the bearer token per call — and
// it never decides authorization; the remote API is the authority.
//
// Error surface:
//
//   - [ErrConnection] wraps transport failures (DNS, refused, timeout).
//   - [*Error] carries the status, business code, and message of a non-2xx
//     response; errors.Is(err, [ErrUnauthenticated]) matches 401s.
//   - [Client.Login] reports credential rejections in its result value, not
//     as an error, so form handlers can key the message to a field.
package api
