package category

import "catalog-sync/core/syncer"

// Route is the path segment of the category sync endpoint.
const Route = "categories"

// NewRunner creates the category runner.
func NewRunner(deps syncer.Deps) *syncer.Typed[*Draft, *Category] {
	return syncer.New[*Draft, *Category](Adapter{}, Route, deps)
}
