package catalog

import (
	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
)

// Definition configures a List for one entity type.
type Definition[T any] struct {
	Resource string
	Title    string
	Singular string

	ID         func(T) string
	SearchText func(T) []string
	Columns    []Column[T]
	Facets     []Facet[T]
	Sorts      []SortField[T]
	Fields     []Field

	// ToForm prefills the edit modal. Payload builds the request body from a
	// submitted form and may reject malformed values.
	ToForm  func(T) Form
	Payload func(Form) (interface{}, error)

	// DeleteWarning states what a deletion takes down with it.
	DeleteWarning func(T) string
}

func (d *Definition[T]) facetKeys() []string {
	keys := make([]string, 0, len(d.Facets))
	for _, f := range d.Facets {
		keys = append(keys, f.Key)
	}
	return keys
}

// validate applies the required-field checks. No request is issued on failure.
func (d *Definition[T]) validate(form Form) error {
	for _, field := range d.Fields {
		if !field.Required {
			continue
		}
		if isBlank(form.Get(field.Key)) {
			return apperrors.ValidationFailed(
				"Le champ « "+field.Label+" » est obligatoire",
				field.Key,
			)
		}
	}
	return nil
}
