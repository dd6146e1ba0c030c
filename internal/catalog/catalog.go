// Package catalog implements the entity list screens: customers, bookings and
// the hotel, partner, POI and restaurant banks. Each screen is a List driven
// by a Definition; the lists hold the last loaded collection in memory and
// derive filtered views from it on every request.
package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
)

// Form is a flat set of submitted form values.
type Form map[string]string

// FormFromValues keeps the first value of each key.
func FormFromValues(values url.Values) Form {
	f := make(Form, len(values))
	for k, v := range values {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}

func (f Form) Get(key string) string {
	return f[key]
}

// Float parses a numeric field; an empty field is zero.
func (f Form) Float(key string) (float64, bool) {
	raw := strings.TrimSpace(f[key])
	if raw == "" {
		return 0, true
	}
	d, err := valueobjects.ParseDecimal(raw)
	if err != nil {
		return 0, false
	}
	v, _ := d.Float64()
	return v, true
}

// Clone returns an independent copy.
func (f Form) Clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FieldKind selects the input widget of a form field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindURL      FieldKind = "url"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
)

// Field describes one input of the edit modal.
type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string
}

// Facet is an exact-match dropdown filter.
type Facet[T any] struct {
	Key   string
	Label string
	Value func(T) string
}

// SortField orders a list. Text fields compare with the locale collator in
// ascending order; numeric fields sort descending.
type SortField[T any] struct {
	Key    string
	Label  string
	Text   func(T) string
	Number func(T) float64
}

// Column is one cell of a table row.
type Column[T any] struct {
	Label string
	Value func(T) string
}

// Filter is the state of the search bar and dropdowns.
type Filter struct {
	Query  string
	Facets map[string]string
	Sort   string
}

// FilterFromValues reads q, sort and the facet keys from a query string.
func FilterFromValues(values url.Values, facetKeys []string) Filter {
	f := Filter{
		Query:  values.Get("q"),
		Sort:   values.Get("sort"),
		Facets: make(map[string]string),
	}
	for _, key := range facetKeys {
		if v := values.Get(key); v != "" {
			f.Facets[key] = v
		}
	}
	return f
}

// Confirmer answers a blocking confirmation prompt.
type Confirmer func(message string) bool

// Controller is the type-erased view of a List used by the HTTP handlers.
type Controller interface {
	Resource() string
	Title() string
	Singular() string
	Loaded() bool
	Load(ctx context.Context) error
	View(filter Filter) View
	FacetKeys() []string
	OpenModal(id string) error
	CloseModal()
	Modal() ModalView
	Submit(ctx context.Context, form Form) error
	DeleteWarning(id string) (string, error)
	Delete(ctx context.Context, id string, confirm Confirmer) (bool, error)
}

// Row is one rendered table line.
type Row struct {
	ID    string
	Cells []string
}

// FacetView is a dropdown with its derived options.
type FacetView struct {
	Key      string
	Label    string
	Options  []string
	Selected string
}

type SortOption struct {
	Key      string
	Label    string
	Selected bool
}

// View is everything a list page renders.
type View struct {
	Resource string
	Title    string
	Columns  []string
	Rows     []Row
	Facets   []FacetView
	Sorts    []SortOption
	Filter   Filter
	Total    int
}

// Empty reports whether the "no results" placeholder replaces the table.
func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// ModalView is the edit dialog state.
type ModalView struct {
	Open   bool
	Create bool
	Title  string
	Fields []Field
	Values Form
}
