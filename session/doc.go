// Package session persists the operator's signed-in state across process
// restarts: the bearer token, its scheme, and a snapshot of the user identity
// with its role and permission names.
//
// A [Store] holds at most one [Session]. Writing replaces the previous record
// whole; there is no merge. Reads never fail: a missing or malformed record
// is reported as absent so the boot path cannot crash on corrupt storage.
//
// # Architecture boundaries
//
//   - [Store] implementations perform storage I/O only. No network calls.
//   - Role and permission snapshots are advisory; the remote API re-checks
//     authorization on every request regardless of what is cached here.
//
// Three backends are provided: [FileStore] (JSON document on disk),
// [RedisStore], and [MemoryStore] for tests and ephemeral runs.
package session
