// Package host connects the dispatcher to a host router.
//
// A host router exposes its static route tree and accepts a pre-navigation
// hook. RegisterRouter indexes the tree, builds a dispatcher over a
// registry and installs the dispatcher as that hook. MemoryRouter is a
// small in-process host used by the simulator and by tests.
package host
