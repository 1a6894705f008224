// Package routetable precomputes the ancestor chain of every named route
// in a host router's static route tree.
//
// The index is built once per router registration and rebuilt entirely on
// every call to [Index.Build]. For each named route it stores the joined
// name chain (e.g. "shop.products.product") and the ordered list of
// ancestor records, root first.
//
// Routes without a name cannot take part in name based matching: they are
// absent from the index, reported by [Index.Unnamed], and never match via
// [Index.ChainMatches]. Their path and custom predicates remain usable
// directly against the route descriptor with [match.Matches].
package routetable
