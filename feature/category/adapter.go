package category

import (
	"fmt"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"
)

const (
	unsetParentWarning    = "Cannot unset 'parent' field of category with id '%s'."
	unsetOrderHintWarning = "Cannot unset 'orderHint' field of category with id '%s'."
)

// Adapter supplies the category specific parts of a sync.
type Adapter struct{}

func (Adapter) Kind() reconcile.Kind { return reconcile.KindCategory }

func (Adapter) Validate(d *Draft) error {
	if len(d.Name) == 0 {
		return fmt.Errorf("CategoryDraft with key: '%s' doesn't have a name.", d.Key)
	}
	if len(d.Slug) == 0 {
		return fmt.Errorf("CategoryDraft with key: '%s' doesn't have a slug.", d.Key)
	}
	if d.Custom != nil && d.Custom.Type == nil {
		return fmt.Errorf("CategoryDraft with key: '%s' has custom fields without a type.", d.Key)
	}
	return nil
}

func (Adapter) References(d *Draft) []reconcile.Ref {
	refs := []reconcile.Ref{{Field: "parent", Kind: reconcile.KindCategory, Reference: d.Parent}}
	if d.Custom != nil {
		refs = append(refs, reconcile.Ref{Field: "custom.type", Kind: reconcile.KindType, Reference: d.Custom.Type})
	}
	return refs
}

func (Adapter) ResolveReferences(d *Draft, resolve reconcile.ResolveFunc) (*Draft, error) {
	out := *d
	var err error
	if out.Parent, err = resolve("parent", reconcile.KindCategory, d.Parent); err != nil {
		return nil, err
	}
	if d.Custom != nil {
		custom := *d.Custom
		if custom.Type, err = resolve("custom.type", reconcile.KindType, d.Custom.Type); err != nil {
			return nil, err
		}
		out.Custom = &custom
	}
	return &out, nil
}

func (Adapter) Diff(old *Category, d *Draft) ([]reconcile.Action, []string) {
	var actions []reconcile.Action
	var warnings []string

	actions = append(actions, reconcile.UpdateIfChanged(old.Name, d.Name, func() reconcile.Action {
		return changeName{Name: d.Name}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.Slug, d.Slug, func() reconcile.Action {
		return changeSlug{Slug: d.Slug}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.Description, d.Description, func() reconcile.Action {
		return setDescription{Description: d.Description}
	})...)

	if d.Parent == nil && old.Parent != nil {
		warnings = append(warnings, fmt.Sprintf(unsetParentWarning, old.ID))
	} else {
		actions = append(actions, reconcile.UpdateIf(reconcile.RefID(old.Parent), reconcile.RefID(d.Parent), func() reconcile.Action {
			return changeParent{Parent: reconcile.ByID(reconcile.KindCategory, d.Parent.ID)}
		})...)
	}

	if d.OrderHint == "" && old.OrderHint != "" {
		warnings = append(warnings, fmt.Sprintf(unsetOrderHintWarning, old.ID))
	} else {
		actions = append(actions, reconcile.UpdateIf(old.OrderHint, d.OrderHint, func() reconcile.Action {
			return changeOrderHint{OrderHint: d.OrderHint}
		})...)
	}

	actions = append(actions, reconcile.UpdateIfChanged(old.MetaTitle, d.MetaTitle, func() reconcile.Action {
		return setMetaTitle{MetaTitle: d.MetaTitle}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.MetaDescription, d.MetaDescription, func() reconcile.Action {
		return setMetaDescription{MetaDescription: d.MetaDescription}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.MetaKeywords, d.MetaKeywords, func() reconcile.Action {
		return setMetaKeywords{MetaKeywords: d.MetaKeywords}
	})...)
	actions = append(actions, reconcile.UpdateIf(old.ExternalID, d.ExternalID, func() reconcile.Action {
		return setExternalID{ExternalID: d.ExternalID}
	})...)
	actions = append(actions, customActions(old.Custom, d.Custom)...)

	return actions, warnings
}

// customActions replaces the custom type when it changes and otherwise sets the changed
// fields in name order.
func customActions(current, desired *CustomFields) []reconcile.Action {
	switch {
	case current == nil && desired == nil:
		return nil
	case desired == nil:
		return []reconcile.Action{setCustomType{}}
	case current == nil || reconcile.RefID(current.Type) != reconcile.RefID(desired.Type):
		return []reconcile.Action{setCustomType{
			Type:   reconcile.ByID(reconcile.KindType, reconcile.RefID(desired.Type)),
			Fields: desired.Fields,
		}}
	}

	names := make([]string, 0, len(current.Fields)+len(desired.Fields))
	for name := range current.Fields {
		names = append(names, name)
	}
	for name := range desired.Fields {
		names = append(names, name)
	}
	names = utils.SortedUnique(names)

	var actions []reconcile.Action
	for _, name := range names {
		if !reconcile.JSONEqual(current.Fields[name], desired.Fields[name]) {
			actions = append(actions, setCustomField{Name: name, Value: desired.Fields[name]})
		}
	}
	return actions
}
