package state

import (
	"fmt"
	"slices"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"
)

// Adapter supplies the state specific parts of a sync.
type Adapter struct{}

func (Adapter) Kind() reconcile.Kind { return reconcile.KindState }

func (Adapter) Validate(d *Draft) error {
	if utils.IsBlank(d.Type) {
		return fmt.Errorf("StateDraft with key: '%s' doesn't have a type.", d.Key)
	}
	if !slices.Contains(Types, d.Type) {
		return fmt.Errorf("StateDraft with key: '%s' has an unknown type '%s'.", d.Key, d.Type)
	}
	for _, t := range d.Transitions {
		if t == nil {
			return fmt.Errorf("StateDraft with key: '%s' has an empty transition reference.", d.Key)
		}
	}
	return nil
}

func (Adapter) References(d *Draft) []reconcile.Ref {
	refs := make([]reconcile.Ref, 0, len(d.Transitions))
	for _, t := range d.Transitions {
		refs = append(refs, reconcile.Ref{Field: "transitions", Kind: reconcile.KindState, Reference: t})
	}
	return refs
}

func (Adapter) ResolveReferences(d *Draft, resolve reconcile.ResolveFunc) (*Draft, error) {
	out := *d
	if d.Transitions == nil {
		return &out, nil
	}

	out.Transitions = make([]*reconcile.Reference, len(d.Transitions))
	for i, t := range d.Transitions {
		resolved, err := resolve("transitions", reconcile.KindState, t)
		if err != nil {
			return nil, err
		}
		out.Transitions[i] = resolved
	}
	return &out, nil
}

func (Adapter) Diff(old *State, d *Draft) ([]reconcile.Action, []string) {
	var actions []reconcile.Action

	actions = append(actions, reconcile.UpdateIf(old.Type, d.Type, func() reconcile.Action {
		return changeType{Type: d.Type}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.Name, d.Name, func() reconcile.Action {
		return setName{Name: d.Name}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.Description, d.Description, func() reconcile.Action {
		return setDescription{Description: d.Description}
	})...)
	actions = append(actions, reconcile.UpdateIf(old.Initial, d.Initial, func() reconcile.Action {
		return changeInitial{Initial: d.Initial}
	})...)

	oldRoles := utils.SortedUnique(old.Roles)
	newRoles := utils.SortedUnique(d.Roles)
	if removed := subtract(oldRoles, newRoles); len(removed) > 0 {
		actions = append(actions, removeRoles{Roles: removed})
	}
	if added := subtract(newRoles, oldRoles); len(added) > 0 {
		actions = append(actions, addRoles{Roles: added})
	}

	actions = append(actions, transitionActions(old.Transitions, d.Transitions)...)
	return actions, nil
}

// transitionActions replaces the transitions when their target sets differ. An empty draft
// set unsets the transitions.
func transitionActions(current, desired []*reconcile.Reference) []reconcile.Action {
	targets := targetIDs(desired)
	if slices.Equal(targetIDs(current), targets) {
		return nil
	}
	if len(targets) == 0 {
		return []reconcile.Action{setTransitions{}}
	}

	refs := make([]*reconcile.Reference, 0, len(targets))
	for _, id := range targets {
		refs = append(refs, reconcile.ByID(reconcile.KindState, id))
	}
	return []reconcile.Action{setTransitions{Transitions: refs}}
}

func targetIDs(refs []*reconcile.Reference) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, reconcile.RefID(r))
	}
	return utils.SortedUnique(ids)
}

// subtract returns the items of a missing from b. Both must be sorted.
func subtract(a, b []string) []string {
	var out []string
	for _, s := range a {
		if _, found := slices.BinarySearch(b, s); !found {
			out = append(out, s)
		}
	}
	return out
}
