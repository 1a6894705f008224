// Package route defines the navigation descriptors exchanged between a
// host router and the lifecycle engine.
//
// A [Record] is a node of the host router's static route tree. A
// [Location] is an immutable snapshot of one navigation endpoint, and a
// [Target] is the redirect descriptor a guard or handler may return.
//
// [Lookup] resolves dotted field paths such as "meta.requiresAuth"
// against locations, records, structs and string-keyed maps.
package route
