// Package auth owns the process-wide signed-in state of the console: the
// current user, the loading flag, and the permission predicates that gate
// screens before the remote API re-validates them.
//
// A [Provider] is built once via [New] and injected wherever session state
// is read, so the storage mechanism stays swappable:
//
//	provider, err := auth.New().
//		WithStore(store).
//		WithClient(client).
//		WithLogger(log).
//		Build()
//
// [Provider.Load] hydrates from the session store at boot; until it runs,
// the provider reports loading and permission checks answer false, so
// consumers must not render permission-gated content yet.
//
// # Architecture boundaries
//
//   - Only [Provider.Login], [Provider.RefreshUser], and [Provider.Logout]
//     write or clear the session store. Guards and screens read.
//   - Permission and role checks are exact string membership, a UX guard
//     only. Every sensitive operation is re-authorized by the remote API.
package auth
