package state

import "catalog-sync/core/syncer"

// Route is the path segment of the state sync endpoint.
const Route = "states"

// NewRunner creates the state runner.
func NewRunner(deps syncer.Deps) *syncer.Typed[*Draft, *State] {
	return syncer.New[*Draft, *State](Adapter{}, Route, deps)
}
