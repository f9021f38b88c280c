package product

import "catalog-sync/core/syncer"

// Route is the path segment of the product sync endpoint.
const Route = "products"

// NewRunner creates the product runner.
func NewRunner(deps syncer.Deps) *syncer.Typed[*Draft, *Product] {
	return syncer.New[*Draft, *Product](Adapter{}, Route, deps)
}
