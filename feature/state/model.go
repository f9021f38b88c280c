package state

import "catalog-sync/core/reconcile"

// Types lists the workflows a state can belong to.
var Types = []string{"OrderState", "LineItemState", "ProductState", "ReviewState", "PaymentState"}

// Draft is the desired state of a workflow state.
type Draft struct {
	Key         string                    `json:"key"`
	Type        string                    `json:"type"`
	Name        reconcile.LocalizedString `json:"name,omitempty"`
	Description reconcile.LocalizedString `json:"description,omitempty"`
	Initial     bool                      `json:"initial"`
	Roles       []string                  `json:"roles,omitempty"`
	Transitions []*reconcile.Reference    `json:"transitions,omitempty"`
}

func (d *Draft) GetKey() string { return d.Key }

func (d *Draft) DisplayName() string {
	if name := d.Name.Default(); name != "" {
		return name
	}
	return d.Type
}

// State is a workflow state as stored on the platform.
type State struct {
	ID          string                    `json:"id"`
	Version     int64                     `json:"version"`
	Key         string                    `json:"key"`
	Type        string                    `json:"type"`
	Name        reconcile.LocalizedString `json:"name,omitempty"`
	Description reconcile.LocalizedString `json:"description,omitempty"`
	Initial     bool                      `json:"initial"`
	Roles       []string                  `json:"roles,omitempty"`
	Transitions []*reconcile.Reference    `json:"transitions,omitempty"`
}

func (s *State) GetID() string     { return s.ID }
func (s *State) GetKey() string    { return s.Key }
func (s *State) GetVersion() int64 { return s.Version }
