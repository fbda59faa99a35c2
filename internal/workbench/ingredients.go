package workbench

import (
	"slices"
	"strings"
)

// AddIngredient trims raw and appends it to list unless it is empty or
// already present (exact match). It reports whether the list changed.
func AddIngredient(list []string, raw string) ([]string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" || slices.Contains(list, value) {
		return list, false
	}
	return append(slices.Clip(list), value), true
}

// RemoveIngredient drops the exact match of value from list.
func RemoveIngredient(list []string, value string) ([]string, bool) {
	i := slices.Index(list, value)
	if i < 0 {
		return list, false
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), true
}
