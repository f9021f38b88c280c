package category

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

type changeParent struct {
	Parent *reconcile.Reference `json:"parent"`
}

type changeOrderHint struct {
	OrderHint string `json:"orderHint"`
}

type setMetaTitle struct {
	MetaTitle reconcile.LocalizedString `json:"metaTitle,omitempty"`
}

type setMetaDescription struct {
	MetaDescription reconcile.LocalizedString `json:"metaDescription,omitempty"`
}

type setMetaKeywords struct {
	MetaKeywords reconcile.LocalizedString `json:"metaKeywords,omitempty"`
}

type setExternalID struct {
	ExternalID string `json:"externalId,omitempty"`
}

// setCustomType without a type removes the custom fields.
type setCustomType struct {
	Type   *reconcile.Reference       `json:"type,omitempty"`
	Fields map[string]json.RawMessage `json:"fields,omitempty"`
}

// setCustomField without a value removes the field.
type setCustomField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

func (changeName) ActionName() string         { return "changeName" }
func (changeSlug) ActionName() string         { return "changeSlug" }
func (setDescription) ActionName() string     { return "setDescription" }
func (changeParent) ActionName() string       { return "changeParent" }
func (changeOrderHint) ActionName() string    { return "changeOrderHint" }
func (setMetaTitle) ActionName() string       { return "setMetaTitle" }
func (setMetaDescription) ActionName() string { return "setMetaDescription" }
func (setMetaKeywords) ActionName() string    { return "setMetaKeywords" }
func (setExternalID) ActionName() string      { return "setExternalId" }
func (setCustomType) ActionName() string      { return "setCustomType" }
func (setCustomField) ActionName() string     { return "setCustomField" }
