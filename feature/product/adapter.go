package product

import (
	"fmt"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"
)

const changedProductTypeWarning = "Cannot change 'productType' of product with id '%s'."

// Adapter supplies the product specific parts of a sync.
type Adapter struct{}

func (Adapter) Kind() reconcile.Kind { return reconcile.KindProduct }

func (Adapter) Validate(d *Draft) error {
	if d.ProductType == nil {
		return fmt.Errorf("ProductDraft with key: '%s' doesn't have a product type.", d.Key)
	}
	if len(d.Name) == 0 {
		return fmt.Errorf("ProductDraft with key: '%s' doesn't have a name.", d.Key)
	}
	if len(d.Slug) == 0 {
		return fmt.Errorf("ProductDraft with key: '%s' doesn't have a slug.", d.Key)
	}
	for _, c := range d.Categories {
		if c == nil {
			return fmt.Errorf("ProductDraft with key: '%s' has an empty category reference.", d.Key)
		}
	}
	for _, a := range d.Attributes {
		if utils.IsBlank(a.Name) {
			return fmt.Errorf("ProductDraft with key: '%s' has an attribute without a name.", d.Key)
		}
	}
	return nil
}

func (Adapter) References(d *Draft) []reconcile.Ref {
	refs := []reconcile.Ref{
		{Field: "productType", Kind: reconcile.KindProductType, Reference: d.ProductType},
		{Field: "taxCategory", Kind: reconcile.KindTaxCategory, Reference: d.TaxCategory},
		{Field: "state", Kind: reconcile.KindState, Reference: d.State},
	}
	for _, c := range d.Categories {
		refs = append(refs, reconcile.Ref{Field: "categories", Kind: reconcile.KindCategory, Reference: c})
	}
	for _, a := range d.Attributes {
		for _, ref := range attributeRefs(a.Value) {
			refs = append(refs, reconcile.Ref{Field: "attributes." + a.Name, Kind: reconcile.KindProduct, Reference: ref})
		}
	}
	return refs
}

func (Adapter) ResolveReferences(d *Draft, resolve reconcile.ResolveFunc) (*Draft, error) {
	out := *d
	var err error
	if out.ProductType, err = resolve("productType", reconcile.KindProductType, d.ProductType); err != nil {
		return nil, err
	}
	if out.TaxCategory, err = resolve("taxCategory", reconcile.KindTaxCategory, d.TaxCategory); err != nil {
		return nil, err
	}
	if out.State, err = resolve("state", reconcile.KindState, d.State); err != nil {
		return nil, err
	}

	if d.Categories != nil {
		out.Categories = make([]*reconcile.Reference, len(d.Categories))
		for i, c := range d.Categories {
			if out.Categories[i], err = resolve("categories", reconcile.KindCategory, c); err != nil {
				return nil, err
			}
		}
	}

	if d.Attributes != nil {
		out.Attributes = make([]Attribute, len(d.Attributes))
		for i, a := range d.Attributes {
			value, err := resolveAttribute("attributes."+a.Name, a.Value, resolve)
			if err != nil {
				return nil, err
			}
			out.Attributes[i] = Attribute{Name: a.Name, Value: value}
		}
	}
	return &out, nil
}

func (Adapter) Diff(old *Product, d *Draft) ([]reconcile.Action, []string) {
	var actions []reconcile.Action
	var warnings []string

	if reconcile.RefID(old.ProductType) != reconcile.RefID(d.ProductType) {
		warnings = append(warnings, fmt.Sprintf(changedProductTypeWarning, old.ID))
	}

	actions = append(actions, reconcile.UpdateIfChanged(old.Name, d.Name, func() reconcile.Action {
		return changeName{Name: d.Name}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.Slug, d.Slug, func() reconcile.Action {
		return changeSlug{Slug: d.Slug}
	})...)
	actions = append(actions, reconcile.UpdateIfChanged(old.Description, d.Description, func() reconcile.Action {
		return setDescription{Description: d.Description}
	})...)
	actions = append(actions, reconcile.UpdateIf(reconcile.RefID(old.TaxCategory), reconcile.RefID(d.TaxCategory), func() reconcile.Action {
		if d.TaxCategory == nil {
			return setTaxCategory{}
		}
		return setTaxCategory{TaxCategory: reconcile.ByID(reconcile.KindTaxCategory, d.TaxCategory.ID)}
	})...)

	// A product cannot leave its workflow, only move to another state.
	if d.State != nil {
		actions = append(actions, reconcile.UpdateIf(reconcile.RefID(old.State), d.State.ID, func() reconcile.Action {
			return transitionState{State: reconcile.ByID(reconcile.KindState, d.State.ID)}
		})...)
	}

	actions = append(actions, reconcile.DiffCollection(old.Categories, d.Categories,
		reconcile.RefID, reconcile.RefID,
		func(c *reconcile.Reference) []reconcile.Action {
			if reconcile.RefID(c) == "" {
				return nil
			}
			return []reconcile.Action{removeFromCategory{Category: reconcile.ByID(reconcile.KindCategory, c.ID)}}
		},
		nil,
		func(c *reconcile.Reference) []reconcile.Action {
			if reconcile.RefID(c) == "" {
				return nil
			}
			return []reconcile.Action{addToCategory{Category: reconcile.ByID(reconcile.KindCategory, c.ID)}}
		},
	)...)

	actions = append(actions, attributeActions(old.Attributes, d.Attributes)...)
	return actions, warnings
}

// attributeActions sets every attribute whose value differs, in name order. Attributes
// missing from the draft are removed.
func attributeActions(current, desired []Attribute) []reconcile.Action {
	oldValues := attributesByName(current)
	newValues := attributesByName(desired)

	names := make([]string, 0, len(oldValues)+len(newValues))
	for name := range oldValues {
		names = append(names, name)
	}
	for name := range newValues {
		names = append(names, name)
	}

	var actions []reconcile.Action
	for _, name := range utils.SortedUnique(names) {
		if !reconcile.JSONEqual(oldValues[name], newValues[name]) {
			actions = append(actions, setAttributeInAllVariants{Name: name, Value: newValues[name]})
		}
	}
	return actions
}
