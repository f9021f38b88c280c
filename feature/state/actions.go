package state

import "catalog-sync/core/reconcile"

type changeType struct {
	Type string `json:"type"`
}

type setName struct {
	Name reconcile.LocalizedString `json:"name,omitempty"`
}

type setDescription struct {
	Description reconcile.LocalizedString `json:"description,omitempty"`
}

type changeInitial struct {
	Initial bool `json:"initial"`
}

type addRoles struct {
	Roles []string `json:"roles"`
}

type removeRoles struct {
	Roles []string `json:"roles"`
}

// setTransitions without transitions allows every transition.
type setTransitions struct {
	Transitions []*reconcile.Reference `json:"transitions,omitempty"`
}

func (changeType) ActionName() string     { return "changeType" }
func (setName) ActionName() string        { return "setName" }
func (setDescription) ActionName() string { return "setDescription" }
func (changeInitial) ActionName() string  { return "changeInitial" }
func (addRoles) ActionName() string       { return "addRoles" }
func (removeRoles) ActionName() string    { return "removeRoles" }
func (setTransitions) ActionName() string { return "setTransitions" }
