package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConflict marks an update rejected because the resource version is stale.
	ErrConflict = errors.New("concurrent modification")
	// ErrNotFound marks a resource that does not exist.
	ErrNotFound = errors.New("resource not found")
)

// Kind identifies a resource type on the remote platform.
type Kind string

const (
	KindCategory    Kind = "category"
	KindProduct     Kind = "product"
	KindProductType Kind = "product-type"
	KindTaxCategory Kind = "tax-category"
	KindState       Kind = "state"
	KindType        Kind = "type"
)

type kindNames struct {
	entity string // Go style type name, used in draft messages
	name   string // lower case singular
	plural string
}

var kinds = map[Kind]kindNames{
	KindCategory:    {"Category", "category", "categories"},
	KindProduct:     {"Product", "product", "products"},
	KindProductType: {"ProductType", "product type", "product types"},
	KindTaxCategory: {"TaxCategory", "tax category", "tax categories"},
	KindState:       {"State", "state", "states"},
	KindType:        {"Type", "type", "types"},
}

func (k Kind) names() kindNames {
	if n, ok := kinds[k]; ok {
		return n
	}
	s := string(k)
	return kindNames{entity: s, name: s, plural: s + "s"}
}

// Entity returns the type name of the kind, e.g. "TaxCategory".
func (k Kind) Entity() string { return k.names().entity }

// Name returns the lower case singular name, e.g. "tax category".
func (k Kind) Name() string { return k.names().name }

// Plural returns the lower case plural name, e.g. "tax categories".
func (k Kind) Plural() string { return k.names().plural }

// Draft is the desired state of one resource. Implementations are pointer types;
// a nil draft stands for malformed input.
type Draft interface {
	comparable
	GetKey() string
	// DisplayName names the draft in messages when it has no key.
	DisplayName() string
}

// Resource is the current state of one resource as read from the platform.
type Resource interface {
	comparable
	GetID() string
	GetKey() string
	GetVersion() int64
}

// Action is a single named update command.
type Action interface {
	ActionName() string
}

// EncodeAction serializes a as a JSON object carrying its name in the "action" field.
func EncodeAction(a Action) (json.RawMessage, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s action: %w", a.ActionName(), err)
	}

	fields := map[string]json.RawMessage{}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "null" && trimmed != "{}" {
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("action %s must encode as an object: %w", a.ActionName(), err)
		}
	}

	name, _ := json.Marshal(a.ActionName())
	fields["action"] = name
	return json.Marshal(fields)
}

// ActionNames lists the names of actions in order.
func ActionNames(actions []Action) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.ActionName()
	}
	return names
}

// LocalizedString maps locales to text.
type LocalizedString map[string]string

// Default returns the English text, or the text of the first locale in sort order.
func (l LocalizedString) Default() string {
	if s, ok := l["en"]; ok {
		return s
	}
	locales := make([]string, 0, len(l))
	for locale := range l {
		locales = append(locales, locale)
	}
	if len(locales) == 0 {
		return ""
	}
	sort.Strings(locales)
	return l[locales[0]]
}
