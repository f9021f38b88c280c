package category

import (
	"encoding/json"

	"catalog-sync/core/reconcile"
)

// CustomFields assigns a custom type and its field values.
type CustomFields struct {
	Type   *reconcile.Reference       `json:"type"`
	Fields map[string]json.RawMessage `json:"fields,omitempty"`
}

// Draft is the desired state of a category.
type Draft struct {
	Key             string                    `json:"key"`
	Name            reconcile.LocalizedString `json:"name"`
	Slug            reconcile.LocalizedString `json:"slug"`
	Description     reconcile.LocalizedString `json:"description,omitempty"`
	Parent          *reconcile.Reference      `json:"parent,omitempty"`
	OrderHint       string                    `json:"orderHint,omitempty"`
	ExternalID      string                    `json:"externalId,omitempty"`
	MetaTitle       reconcile.LocalizedString `json:"metaTitle,omitempty"`
	MetaDescription reconcile.LocalizedString `json:"metaDescription,omitempty"`
	MetaKeywords    reconcile.LocalizedString `json:"metaKeywords,omitempty"`
	Custom          *CustomFields             `json:"custom,omitempty"`
}

func (d *Draft) GetKey() string      { return d.Key }
func (d *Draft) DisplayName() string { return d.Name.Default() }

// Category is a category as stored on the platform.
type Category struct {
	ID              string                    `json:"id"`
	Version         int64                     `json:"version"`
	Key             string                    `json:"key"`
	Name            reconcile.LocalizedString `json:"name"`
	Slug            reconcile.LocalizedString `json:"slug"`
	Description     reconcile.LocalizedString `json:"description,omitempty"`
	Parent          *reconcile.Reference      `json:"parent,omitempty"`
	OrderHint       string                    `json:"orderHint,omitempty"`
	ExternalID      string                    `json:"externalId,omitempty"`
	MetaTitle       reconcile.LocalizedString `json:"metaTitle,omitempty"`
	MetaDescription reconcile.LocalizedString `json:"metaDescription,omitempty"`
	MetaKeywords    reconcile.LocalizedString `json:"metaKeywords,omitempty"`
	Custom          *CustomFields             `json:"custom,omitempty"`
}

func (c *Category) GetID() string     { return c.ID }
func (c *Category) GetKey() string    { return c.Key }
func (c *Category) GetVersion() int64 { return c.Version }
