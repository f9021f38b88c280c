package product

import (
	"encoding/json"
	"testing"

	"catalog-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ls(en string) reconcile.LocalizedString {
	return reconcile.LocalizedString{"en": en}
}

func cat(id string) *reconcile.Reference {
	return reconcile.ByID(reconcile.KindCategory, id)
}

func existing() *Product {
	return &Product{
		ID:          "prod-1",
		Version:     4,
		Key:         "tee",
		ProductType: reconcile.ByID(reconcile.KindProductType, "pt-1"),
		Name:        ls("Tee"),
		Slug:        ls("tee"),
		Categories:  []*reconcile.Reference{cat("c1"), cat("c2")},
		TaxCategory: reconcile.ByID(reconcile.KindTaxCategory, "tax-1"),
		State:       reconcile.ByID(reconcile.KindState, "st-1"),
		Attributes: []Attribute{
			{Name: "size", Value: json.RawMessage(`"M"`)},
			{Name: "color", Value: json.RawMessage(`"red"`)},
		},
	}
}

func draftOf(p *Product) *Draft {
	return &Draft{
		Key:         p.Key,
		ProductType: p.ProductType,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Categories:  append([]*reconcile.Reference(nil), p.Categories...),
		TaxCategory: p.TaxCategory,
		State:       p.State,
		Attributes:  append([]Attribute(nil), p.Attributes...),
	}
}

func encoded(t *testing.T, actions []reconcile.Action) []string {
	t.Helper()
	var out []string
	for _, a := range actions {
		raw, err := reconcile.EncodeAction(a)
		require.NoError(t, err)
		out = append(out, string(raw))
	}
	return out
}

func TestAdapter_Diff(t *testing.T) {
	tests := []struct {
		name         string
		draft        func(d *Draft)
		wantActions  []string
		wantWarnings []string
	}{
		{
			name:  "no changes",
			draft: func(*Draft) {},
		},
		{
			name: "every field in order",
			draft: func(d *Draft) {
				d.Name = ls("Shirt")
				d.Slug = ls("shirt")
				d.Description = ls("Cotton")
				d.TaxCategory = reconcile.ByID(reconcile.KindTaxCategory, "tax-2")
				d.State = reconcile.ByID(reconcile.KindState, "st-2")
				d.Categories = []*reconcile.Reference{cat("c3"), cat("c2")}
				d.Attributes = []Attribute{{Name: "size", Value: json.RawMessage(`"L"`)}}
			},
			wantActions: []string{
				`{"action":"changeName","name":{"en":"Shirt"}}`,
				`{"action":"changeSlug","slug":{"en":"shirt"}}`,
				`{"action":"setDescription","description":{"en":"Cotton"}}`,
				`{"action":"setTaxCategory","taxCategory":{"typeId":"tax-category","id":"tax-2"}}`,
				`{"action":"transitionState","state":{"typeId":"state","id":"st-2"}}`,
				`{"action":"removeFromCategory","category":{"typeId":"category","id":"c1"}}`,
				`{"action":"addToCategory","category":{"typeId":"category","id":"c3"}}`,
				`{"action":"setAttributeInAllVariants","name":"color"}`,
				`{"action":"setAttributeInAllVariants","name":"size","value":"L"}`,
			},
		},
		{
			name: "product type change is only a warning",
			draft: func(d *Draft) {
				d.ProductType = reconcile.ByID(reconcile.KindProductType, "pt-2")
			},
			wantWarnings: []string{"Cannot change 'productType' of product with id 'prod-1'."},
		},
		{
			name:        "removed tax category",
			draft:       func(d *Draft) { d.TaxCategory = nil },
			wantActions: []string{`{"action":"setTaxCategory"}`},
		},
		{
			name:  "absent state is kept",
			draft: func(d *Draft) { d.State = nil },
		},
		{
			name: "empty category entries are ignored",
			draft: func(d *Draft) {
				d.Categories = []*reconcile.Reference{nil, cat("c1"), cat("c2")}
			},
		},
		{
			name: "reordered categories and attributes",
			draft: func(d *Draft) {
				d.Categories = []*reconcile.Reference{cat("c2"), cat("c1")}
				d.Attributes = []Attribute{d.Attributes[1], d.Attributes[0]}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := existing()
			draft := draftOf(old)
			tt.draft(draft)

			actions, warnings := Adapter{}.Diff(old, draft)
			got := encoded(t, actions)
			require.Len(t, got, len(tt.wantActions))
			for i := range got {
				assert.JSONEq(t, tt.wantActions[i], got[i])
			}
			assert.Equal(t, tt.wantWarnings, warnings)
		})
	}
}

func TestAdapter_Validate(t *testing.T) {
	pt := reconcile.ByKey(reconcile.KindProductType, "pt")
	tests := []struct {
		name    string
		draft   *Draft
		wantErr string
	}{
		{"valid", &Draft{Key: "k", ProductType: pt, Name: ls("N"), Slug: ls("n")}, ""},
		{"no product type", &Draft{Key: "k", Name: ls("N"), Slug: ls("n")}, "ProductDraft with key: 'k' doesn't have a product type."},
		{"no name", &Draft{Key: "k", ProductType: pt, Slug: ls("n")}, "ProductDraft with key: 'k' doesn't have a name."},
		{"no slug", &Draft{Key: "k", ProductType: pt, Name: ls("N")}, "ProductDraft with key: 'k' doesn't have a slug."},
		{
			"empty category reference",
			&Draft{Key: "k", ProductType: pt, Name: ls("N"), Slug: ls("n"), Categories: []*reconcile.Reference{nil}},
			"ProductDraft with key: 'k' has an empty category reference.",
		},
		{
			"unnamed attribute",
			&Draft{Key: "k", ProductType: pt, Name: ls("N"), Slug: ls("n"), Attributes: []Attribute{{Name: " "}}},
			"ProductDraft with key: 'k' has an attribute without a name.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Adapter{}.Validate(tt.draft)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestAdapter_References(t *testing.T) {
	d := &Draft{
		Key:         "k",
		ProductType: reconcile.ByKey(reconcile.KindProductType, "pt"),
		Categories:  []*reconcile.Reference{reconcile.ByKey(reconcile.KindCategory, "c1")},
		Attributes: []Attribute{
			{Name: "related", Value: json.RawMessage(`[{"typeId":"product","key":"p2"}]`)},
			{Name: "color", Value: json.RawMessage(`"red"`)},
		},
	}

	refs := Adapter{}.References(d)

	fields := make([]string, len(refs))
	for i, r := range refs {
		fields[i] = r.Field
	}
	assert.Equal(t, []string{"productType", "taxCategory", "state", "categories", "attributes.related"}, fields)
	assert.Equal(t, reconcile.KindProduct, refs[4].Kind)
	assert.Equal(t, "p2", refs[4].Reference.Key)
}

func TestAdapter_ResolveReferences(t *testing.T) {
	d := &Draft{
		Key:         "k",
		ProductType: reconcile.ByKey(reconcile.KindProductType, "pt"),
		Categories:  []*reconcile.Reference{reconcile.ByKey(reconcile.KindCategory, "c1")},
		State:       reconcile.ByID(reconcile.KindState, "st-id"),
		Attributes:  []Attribute{{Name: "related", Value: json.RawMessage(`{"typeId":"product","key":"p2"}`)}},
	}

	resolved, err := Adapter{}.ResolveReferences(d, func(_ string, kind reconcile.Kind, ref *reconcile.Reference) (*reconcile.Reference, error) {
		if ref == nil || ref.Key == "" {
			return ref, nil
		}
		return reconcile.ByID(kind, ref.Key+"-id"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "pt-id", resolved.ProductType.ID)
	assert.Equal(t, "c1-id", resolved.Categories[0].ID)
	assert.Equal(t, "st-id", resolved.State.ID)
	assert.Nil(t, resolved.TaxCategory)
	assert.JSONEq(t, `{"typeId":"product","id":"p2-id"}`, string(resolved.Attributes[0].Value))

	assert.Equal(t, "c1", d.Categories[0].Key, "input draft is not modified")
	assert.JSONEq(t, `{"typeId":"product","key":"p2"}`, string(d.Attributes[0].Value), "input draft is not modified")
}

func TestAdapter_Diff_Deterministic(t *testing.T) {
	attrs := func(kv ...string) []Attribute {
		var out []Attribute
		for i := 0; i < len(kv); i += 2 {
			out = append(out, Attribute{Name: kv[i], Value: json.RawMessage(kv[i+1])})
		}
		return out
	}

	tests := []struct {
		name    string
		current []Attribute
		desired []Attribute
	}{
		{
			name:    "many changed attributes",
			current: attrs("a", `1`, "b", `2`, "c", `3`, "d", `4`, "e", `5`),
			desired: attrs("e", `50`, "d", `40`, "c", `30`, "b", `20`, "a", `10`),
		},
		{
			name:    "added and removed attributes",
			current: attrs("gone1", `true`, "gone2", `false`, "kept", `"x"`, "gone3", `null`),
			desired: attrs("new3", `[1]`, "kept", `"y"`, "new1", `{"k":1}`, "new2", `"z"`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func() ([]string, []string) {
				old := existing()
				old.Categories = []*reconcile.Reference{cat("c1"), cat("c2"), cat("c3")}
				old.Attributes = append([]Attribute(nil), tt.current...)
				draft := draftOf(old)
				draft.Categories = []*reconcile.Reference{cat("c4"), cat("c2"), cat("c5")}
				draft.Attributes = append([]Attribute(nil), tt.desired...)

				actions, _ := Adapter{}.Diff(old, draft)
				return reconcile.ActionNames(actions), encoded(t, actions)
			}

			wantNames, wantActions := run()
			require.NotEmpty(t, wantActions)
			for i := 0; i < 50; i++ {
				names, actions := run()
				require.Equal(t, wantNames, names)
				require.Equal(t, wantActions, actions)
			}
		})
	}
}
