// Package lazy loads routable modules on demand.
//
// A module is a named loader with a match expression. Before a navigation
// is dispatched, every pending module whose expression chain-matches the
// destination is loaded once. Modules that do not match stay pending.
// Loading only affects when controllers are registered, never how they
// are dispatched.
package lazy
