package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyAction struct{}

func (emptyAction) ActionName() string { return "publish" }

func TestEncodeAction(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{"with fields", changeName{Name: "Shoes"}, `{"action":"changeName","name":"Shoes"}`},
		{"without fields", emptyAction{}, `{"action":"publish"}`},
		{"with reference", changeParent{Parent: ByID(KindCategory, "p")}, `{"action":"changeParent","parent":{"typeId":"category","id":"p"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := EncodeAction(tt.action)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "TaxCategory", KindTaxCategory.Entity())
	assert.Equal(t, "tax category", KindTaxCategory.Name())
	assert.Equal(t, "tax categories", KindTaxCategory.Plural())
	assert.Equal(t, "categories", KindCategory.Plural())
}

func TestReference(t *testing.T) {
	tests := []struct {
		name     string
		ref      *Reference
		byKey    bool
		byID     bool
		blankKey bool
	}{
		{"nil", nil, false, false, false},
		{"key", ByKey(KindCategory, "k"), true, false, false},
		{"id", ByID(KindCategory, "i"), false, true, false},
		{"key and id", &Reference{Key: "k", ID: "i"}, true, false, false},
		{"neither", &Reference{TypeID: "category"}, true, false, true},
		{"whitespace key", &Reference{Key: " "}, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.byKey, tt.ref.IsByKey())
			assert.Equal(t, tt.byID, tt.ref.IsByID())
			assert.Equal(t, tt.blankKey, tt.ref.HasBlankKey())
		})
	}
}

func TestStatistics_ReportMessage(t *testing.T) {
	s := NewStatistics("run", KindCategory, false)
	s.incrementProcessed(4)
	s.incrementCreated()
	s.incrementUpdated()
	s.incrementUnchanged()
	s.incrementFailed()

	assert.Equal(t, "Summary: 4 categories were processed in total (1 created, 1 updated and 1 failed to sync).", s.ReportMessage())

	d := NewStatistics("run", KindProduct, true)
	d.incrementProcessed(3)
	d.incrementUnresolved()
	d.incrementUnresolved()
	d.decrementUnresolved()
	d.incrementSkipped()
	d.incrementCreated()

	assert.Equal(t, "Summary: 3 products were processed in total (1 created, 0 updated and 0 failed to sync). "+
		"1 products with missing references were deferred. 1 products were skipped.", d.ReportMessage())

	report := d.Report()
	assert.Equal(t, "run", report.RunID)
	assert.Equal(t, int64(1), report.Unresolved)
	assert.Equal(t, d.ReportMessage(), report.Message)
}
