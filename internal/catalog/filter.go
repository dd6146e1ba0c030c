package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// matches reports whether item passes the free-text test and every active facet.
func matches[T any](def *Definition[T], item T, filter Filter) bool {
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		found := false
		for _, text := range def.SearchText(item) {
			if strings.Contains(strings.ToLower(text), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, facet := range def.Facets {
		want, active := filter.Facets[facet.Key]
		if !active || want == "" {
			continue
		}
		if facet.Value(item) != want {
			return false
		}
	}
	return true
}

// filterItems returns the matching items in input order. The input is not modified.
func filterItems[T any](def *Definition[T], items []T, filter Filter) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(def, item, filter) {
			out = append(out, item)
		}
	}
	return out
}

// sortItems orders items in place by the named sort field. Ties keep their
// order; an unknown key leaves the input order.
func sortItems[T any](def *Definition[T], items []T, key string, lang language.Tag) {
	var field *SortField[T]
	for i := range def.Sorts {
		if def.Sorts[i].Key == key {
			field = &def.Sorts[i]
			break
		}
	}
	if field == nil {
		return
	}

	if field.Text != nil {
		c := collate.New(lang)
		slices.SortStableFunc(items, func(a, b T) int {
			return c.CompareString(field.Text(a), field.Text(b))
		})
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(field.Number(b), field.Number(a))
	})
}

// distinct returns the unique non-empty values of fn over items, collated.
func distinct[T any](items []T, fn func(T) string, lang language.Tag) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		v := fn(item)
		if isBlank(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collate.New(lang).SortStrings(out)
	return out
}
