// Package util provides utility functions and types shared by the
// navigation lifecycle engine.
//
// # Context Helpers
//
// Context utilities for navigation-scoped data:
//
//	ctx = util.ContextWithNavigationID(ctx, "nav-123")
//	id := util.NavigationIDFromContext(ctx)
//
// # Error Types
//
// Structured error types for consistent error handling:
//
//   - ConfigError: declaration and configuration errors (fatal, never retried)
//   - HandlerError: runtime failures raised by guards, handlers and watchers
//   - OutcomeError: a lifecycle callback produced an unusable result
//   - ValidationError: aggregated configuration file validation failures
//   - Common sentinel errors: ErrNotFound, ErrConfigInvalid, etc.
package util
