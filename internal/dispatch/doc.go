// Package dispatch runs the lifecycle of one navigation.
//
// For every navigation the Dispatcher
//
//  1. hydrates lazily declared modules matching the destination,
//  2. collects guard and handler candidates from every registered
//     controller and sorts them by descending priority (stable),
//  3. runs guards sequentially, stopping at the first non-allow outcome,
//  4. runs handlers sequentially under the same rule, flipping the active
//     flag of controllers entering or leaving their routes,
//  5. runs applicable watchers, even if a guard or handler blocked.
//
// The result is lifecycle.Allow, lifecycle.Deny or a redirect.
//
// Callback errors propagate by default. PolicyLogAndContinue logs failed
// callbacks and carries on instead; configuration errors and context
// cancellation always abort the navigation.
//
// Overlapping navigations are not serialized unless the dispatcher is
// built WithSerialNavigations. There is no internal timeout: a hung
// callback stalls its navigation unless the caller's context expires.
package dispatch
