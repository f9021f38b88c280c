package taxcategory

import "catalog-sync/core/syncer"

// Route is the path segment of the tax category sync endpoint.
const Route = "tax-categories"

// NewRunner creates the tax category runner.
func NewRunner(deps syncer.Deps) *syncer.Typed[*Draft, *TaxCategory] {
	return syncer.New[*Draft, *TaxCategory](Adapter{}, Route, deps)
}
