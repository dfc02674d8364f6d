// Package middleware implements the console's route guards as gin
// middleware, plus the ambient request-id and access-log middleware.
//
// # Guards
//
//   - [PublicOnly] — signed-in operators are sent to the dashboard instead
//     of the login and reset screens.
//   - [RequireAuth] — anonymous requests are sent to the login route; on
//     pass, the current user is stashed in the request context.
//   - [RequirePermission] — permission-gated screens; see [Access] for the
//     single/list/RequireAll contract.
//
// Guards branch on provider state only. They never call the network, so
// route evaluation cannot block on the remote API.
//
// # What this package must NOT do
//
//   - Write or clear the session store (login/logout/refresh flows own that).
//   - Make authorization decisions beyond the cached permission snapshot;
//     the remote API re-checks every sensitive operation.
package middleware
