package taxcategory

import (
	"fmt"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"
)

// Adapter supplies the tax category specific parts of a sync. Tax categories hold no
// references.
type Adapter struct{}

func (Adapter) Kind() reconcile.Kind { return reconcile.KindTaxCategory }

func (Adapter) Validate(d *Draft) error {
	if utils.IsBlank(d.Name) {
		return fmt.Errorf("TaxCategoryDraft with key: '%s' doesn't have a name.", d.Key)
	}

	seen := make(map[string]struct{}, len(d.Rates))
	for _, r := range d.Rates {
		if utils.IsBlank(r.Country) {
			return fmt.Errorf("TaxCategoryDraft with key: '%s' has a rate without a country.", d.Key)
		}
		if r.Amount < 0 || r.Amount > 1 {
			return fmt.Errorf("TaxCategoryDraft with key: '%s' has a rate for '%s' with an amount outside [0..1].", d.Key, rateKey(r))
		}
		k := rateKey(r)
		if _, dup := seen[k]; dup {
			return fmt.Errorf("TaxCategoryDraft with key: '%s' has more than one rate for '%s'.", d.Key, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (Adapter) References(*Draft) []reconcile.Ref { return nil }

func (Adapter) ResolveReferences(d *Draft, _ reconcile.ResolveFunc) (*Draft, error) {
	out := *d
	return &out, nil
}

func (Adapter) Diff(old *TaxCategory, d *Draft) ([]reconcile.Action, []string) {
	var actions []reconcile.Action

	actions = append(actions, reconcile.UpdateIf(old.Name, d.Name, func() reconcile.Action {
		return changeName{Name: d.Name}
	})...)
	actions = append(actions, reconcile.UpdateIf(old.Description, d.Description, func() reconcile.Action {
		return setDescription{Description: d.Description}
	})...)

	actions = append(actions, reconcile.DiffCollection(old.Rates, d.Rates, rateKey, rateKey,
		func(o TaxRate) []reconcile.Action {
			return []reconcile.Action{removeTaxRate{TaxRateID: o.ID}}
		},
		func(o, n TaxRate) []reconcile.Action {
			if sameRate(o, n) {
				return nil
			}
			n.ID = ""
			return []reconcile.Action{replaceTaxRate{TaxRateID: o.ID, TaxRate: n}}
		},
		func(n TaxRate) []reconcile.Action {
			n.ID = ""
			return []reconcile.Action{addTaxRate{TaxRate: n}}
		},
	)...)

	return actions, nil
}
