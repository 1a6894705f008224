// Package lifecycle defines the result type of guards and lifecycle
// handlers and binds controller methods by name.
//
// A guard or handler returns an [Outcome]: [Allow], [Deny] or
// [Redirect]. The zero Outcome behaves like Allow. Handlers are exported
// methods whose first parameter is a context.Context and whose results are
// either (Outcome, error) or error:
//
//	func (c *Catalog) CheckAccess(ctx context.Context, id string) (lifecycle.Outcome, error)
//	func (c *Catalog) Load(ctx context.Context, id string, q string) error
//
// [Bind] validates the signature when the handler is declared so that
// misconfigured controllers fail before the first navigation.
package lifecycle
