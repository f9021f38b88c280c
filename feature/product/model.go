package product

import (
	"encoding/json"

	"catalog-sync/core/reconcile"
)

// Attribute is a named attribute value shared by all variants.
type Attribute struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Draft is the desired state of a product.
type Draft struct {
	Key         string                    `json:"key"`
	ProductType *reconcile.Reference      `json:"productType"`
	Name        reconcile.LocalizedString `json:"name"`
	Slug        reconcile.LocalizedString `json:"slug"`
	Description reconcile.LocalizedString `json:"description,omitempty"`
	Categories  []*reconcile.Reference    `json:"categories,omitempty"`
	TaxCategory *reconcile.Reference      `json:"taxCategory,omitempty"`
	State       *reconcile.Reference      `json:"state,omitempty"`
	Attributes  []Attribute               `json:"attributes,omitempty"`
}

func (d *Draft) GetKey() string      { return d.Key }
func (d *Draft) DisplayName() string { return d.Name.Default() }

// Product is the current projection of a product as stored on the platform.
type Product struct {
	ID          string                    `json:"id"`
	Version     int64                     `json:"version"`
	Key         string                    `json:"key"`
	ProductType *reconcile.Reference      `json:"productType"`
	Name        reconcile.LocalizedString `json:"name"`
	Slug        reconcile.LocalizedString `json:"slug"`
	Description reconcile.LocalizedString `json:"description,omitempty"`
	Categories  []*reconcile.Reference    `json:"categories,omitempty"`
	TaxCategory *reconcile.Reference      `json:"taxCategory,omitempty"`
	State       *reconcile.Reference      `json:"state,omitempty"`
	Attributes  []Attribute               `json:"attributes,omitempty"`
}

func (p *Product) GetID() string     { return p.ID }
func (p *Product) GetKey() string    { return p.Key }
func (p *Product) GetVersion() int64 { return p.Version }
