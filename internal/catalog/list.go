package catalog

import (
	"context"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/modal"
	"golang.org/x/text/language"
)

// List is the generic list controller.
type List[T any] struct {
	def    *Definition[T]
	client adminapi.Caller
	lang   language.Tag

	items   []T
	indexes map[string][]string
	loaded  bool
	modal   modal.Modal[Form]
}

func NewList[T any](def *Definition[T], client adminapi.Caller, lang language.Tag) *List[T] {
	return &List[T]{
		def:     def,
		client:  client,
		lang:    lang,
		indexes: map[string][]string{},
	}
}

func (l *List[T]) Resource() string { return l.def.Resource }
func (l *List[T]) Title() string    { return l.def.Title }
func (l *List[T]) Singular() string { return l.def.Singular }
func (l *List[T]) Loaded() bool     { return l.loaded }

func (l *List[T]) FacetKeys() []string {
	return l.def.facetKeys()
}

// Items returns a copy of the loaded collection.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Load replaces the collection with the backend's and rebuilds the dropdown
// indexes. On failure the previous collection is kept.
func (l *List[T]) Load(ctx context.Context) error {
	items, err := adminapi.List[T](ctx, l.client, l.def.Resource)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}

	indexes := make(map[string][]string, len(l.def.Facets))
	for _, facet := range l.def.Facets {
		indexes[facet.Key] = distinct(items, facet.Value, l.lang)
	}

	l.items = items
	l.indexes = indexes
	l.loaded = true
	return nil
}

// Index returns the distinct values of a facet in the loaded collection.
func (l *List[T]) Index(key string) []string {
	return l.indexes[key]
}

// ApplyFilters returns the items matching filter, sorted by filter.Sort.
func (l *List[T]) ApplyFilters(filter Filter) []T {
	out := filterItems(l.def, l.items, filter)
	sortItems(l.def, out, filter.Sort, l.lang)
	return out
}

func (l *List[T]) View(filter Filter) View {
	filtered := l.ApplyFilters(filter)

	v := View{
		Resource: l.def.Resource,
		Title:    l.def.Title,
		Columns:  make([]string, 0, len(l.def.Columns)),
		Rows:     make([]Row, 0, len(filtered)),
		Filter:   filter,
		Total:    len(l.items),
	}
	for _, col := range l.def.Columns {
		v.Columns = append(v.Columns, col.Label)
	}
	for _, item := range filtered {
		row := Row{ID: l.def.ID(item), Cells: make([]string, 0, len(l.def.Columns))}
		for _, col := range l.def.Columns {
			row.Cells = append(row.Cells, col.Value(item))
		}
		v.Rows = append(v.Rows, row)
	}
	for _, facet := range l.def.Facets {
		v.Facets = append(v.Facets, FacetView{
			Key:      facet.Key,
			Label:    facet.Label,
			Options:  l.indexes[facet.Key],
			Selected: filter.Facets[facet.Key],
		})
	}
	for _, s := range l.def.Sorts {
		v.Sorts = append(v.Sorts, SortOption{Key: s.Key, Label: s.Label, Selected: s.Key == filter.Sort})
	}
	return v
}

func (l *List[T]) find(id string) (T, int, bool) {
	for i, item := range l.items {
		if l.def.ID(item) == id {
			return item, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// OpenModal opens the dialog blank for an empty id, prefilled otherwise.
func (l *List[T]) OpenModal(id string) error {
	if id == "" {
		l.modal.OpenCreate()
		l.modal.SetDraft(Form{})
		return nil
	}
	item, _, ok := l.find(id)
	if !ok {
		return apperrors.NotFound(l.def.Singular, id)
	}
	form := l.def.ToForm(item)
	form["id"] = id
	l.modal.OpenEdit(form)
	return nil
}

func (l *List[T]) CloseModal() {
	l.modal.Close()
}

func (l *List[T]) Modal() ModalView {
	mv := ModalView{
		Open:   l.modal.IsOpen(),
		Create: l.modal.Mode() == modal.ModeCreate,
		Fields: l.def.Fields,
		Values: Form{},
	}
	if !mv.Open {
		return mv
	}
	if draft := l.modal.Draft(); draft != nil {
		mv.Values = draft.Clone()
	}
	if mv.Create {
		mv.Title = "Ajouter : " + l.def.Singular
	} else {
		mv.Title = "Modifier : " + l.def.Singular
	}
	return mv
}

// Submit validates the form, creates the record when the hidden id is empty
// and updates it otherwise, then closes the dialog and reloads.
func (l *List[T]) Submit(ctx context.Context, form Form) error {
	form = form.Clone()
	l.modal.SetDraft(form)

	if err := l.def.validate(form); err != nil {
		return err
	}
	payload, err := l.def.Payload(form)
	if err != nil {
		return err
	}
	if _, err := adminapi.Save(ctx, l.client, l.def.Resource, form.Get("id"), payload); err != nil {
		return err
	}

	l.modal.Close()
	return l.reloadAfterMutation(ctx)
}

func (l *List[T]) DeleteWarning(id string) (string, error) {
	item, _, ok := l.find(id)
	if !ok {
		return "", apperrors.NotFound(l.def.Singular, id)
	}
	if l.def.DeleteWarning != nil {
		return l.def.DeleteWarning(item), nil
	}
	return "Supprimer définitivement cet élément ?", nil
}

// Delete asks confirm with the cascade warning and deletes on approval. It
// reports whether the deletion was performed.
func (l *List[T]) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	warning, err := l.DeleteWarning(id)
	if err != nil {
		return false, err
	}
	if !confirm(warning) {
		return false, nil
	}
	if err := adminapi.Delete(ctx, l.client, l.def.Resource, id); err != nil {
		return false, err
	}
	return true, l.reloadAfterMutation(ctx)
}

func (l *List[T]) reloadAfterMutation(ctx context.Context) error {
	if err := l.Load(ctx); err != nil {
		return apperrors.PartialFailure("Modification enregistrée, mais la liste n'a pas pu être rechargée", err)
	}
	return nil
}
