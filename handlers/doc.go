// Package handlers exposes the console screens as thin JSON endpoints:
// sign-in and sign-out, the current-user surface, password reset, and the
// CRUD screens for roles, permissions, users, and product categories.
//
// Handlers validate input, delegate to the auth flows or the remote API
// client, and translate the error taxonomy into responses. They hold no
// business logic of their own.
package handlers
