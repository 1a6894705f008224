// Package registry holds routable controller configuration.
//
// A Registry maps controller identities to their RoutableConfig and stores
// the parameter metadata of every declared handler. Controllers receive an
// opaque identity token when registered; the registry keeps a strong
// reference to every registered controller for the lifetime of the
// registry, which allows late state inspection.
//
// Controllers are usually declared with the fluent [Builder]:
//
//	id, err := registry.Declare(reg, ctrl).
//		Routes(match.Literal("products")).
//		Activated("Load", 10, params.Param("id")).
//		GuardEnter("CheckAuth", 0, params.Meta("requiresAuth")).
//		Build()
package registry
