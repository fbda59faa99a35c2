package workbench

import (
	"strings"

	"github.com/bradykim7/recipebot/internal/models"
)

// FilterRecipes returns the recipes whose title or any ingredient contains
// term, case-insensitively. An empty term keeps every recipe. Order is kept.
func FilterRecipes(recipes []models.Recipe, term string) []models.Recipe {
	needle := strings.ToLower(term)
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Recipe, needle string) bool {
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), needle) {
			return true
		}
	}
	return false
}
