package product

import (
	"encoding/json"
	"errors"
	"testing"

	"catalog-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeRefs(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"absent", ``, nil},
		{"plain string", `"red"`, nil},
		{"other object", `{"currencyCode":"EUR","centAmount":100}`, nil},
		{"category reference", `{"typeId":"category","key":"c"}`, nil},
		{"single product", `{"typeId":"product","key":"p1"}`, []string{"p1"}},
		{"set of products", ` [{"typeId":"product","key":"p1"}, "x", {"typeId":"product","id":"id-2"}]`, []string{"p1", "id-2"}},
		{"invalid json", `{"typeId":`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, ref := range attributeRefs(json.RawMessage(tt.value)) {
				if ref.Key != "" {
					got = append(got, ref.Key)
				} else {
					got = append(got, ref.ID)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAttribute(t *testing.T) {
	resolve := func(field string, kind reconcile.Kind, ref *reconcile.Reference) (*reconcile.Reference, error) {
		assert.Equal(t, "attributes.related", field)
		assert.Equal(t, reconcile.KindProduct, kind)
		if ref.Key == "broken" {
			return nil, errors.New("unresolvable")
		}
		return &reconcile.Reference{TypeID: ref.TypeID, ID: "id-" + ref.Key}, nil
	}

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"no references", `"red"`, `"red"`, false},
		{"single", `{"typeId":"product","key":"p1"}`, `{"typeId":"product","id":"id-p1"}`, false},
		{"array", `[{"typeId":"product","key":"p1"},7]`, `[{"typeId":"product","id":"id-p1"},7]`, false},
		{"error", `[{"typeId":"product","key":"broken"}]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveAttribute("attributes.related", json.RawMessage(tt.value), resolve)
			if tt.wantErr {
				assert.EqualError(t, err, "unresolvable")
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestAttributesByName_FirstWins(t *testing.T) {
	got := attributesByName([]Attribute{
		{Name: "color", Value: json.RawMessage(`"red"`)},
		{Name: "color", Value: json.RawMessage(`"blue"`)},
	})
	assert.Equal(t, json.RawMessage(`"red"`), got["color"])
}
