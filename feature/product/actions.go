package product

import (
	"encoding/json"

	"catalog-sync/core/reconcile"
)

type changeName struct {
	Name reconcile.LocalizedString `json:"name"`
}

type changeSlug struct {
	Slug reconcile.LocalizedString `json:"slug"`
}

type setDescription struct {
	Description reconcile.LocalizedString `json:"description,omitempty"`
}

// setTaxCategory without a tax category removes it.
type setTaxCategory struct {
	TaxCategory *reconcile.Reference `json:"taxCategory,omitempty"`
}

type transitionState struct {
	State *reconcile.Reference `json:"state"`
	Force bool                 `json:"force,omitempty"`
}

type addToCategory struct {
	Category *reconcile.Reference `json:"category"`
}

type removeFromCategory struct {
	Category *reconcile.Reference `json:"category"`
}

// setAttributeInAllVariants without a value removes the attribute.
type setAttributeInAllVariants struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

func (changeName) ActionName() string                { return "changeName" }
func (changeSlug) ActionName() string                { return "changeSlug" }
func (setDescription) ActionName() string            { return "setDescription" }
func (setTaxCategory) ActionName() string            { return "setTaxCategory" }
func (transitionState) ActionName() string           { return "transitionState" }
func (addToCategory) ActionName() string             { return "addToCategory" }
func (removeFromCategory) ActionName() string        { return "removeFromCategory" }
func (setAttributeInAllVariants) ActionName() string { return "setAttributeInAllVariants" }
