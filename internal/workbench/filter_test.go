package workbench

import (
	"testing"

	"github.com/bradykim7/recipebot/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterRecipes(t *testing.T) {
	recipes := []models.Recipe{
		{ID: "1", Title: "Tomato Soup", Ingredients: []string{"water"}},
		{ID: "2", Title: "Gourmet rice Bowl", Ingredients: []string{"rice", "Cherry TOMATOES"}},
		{ID: "3", Title: "chicken Fusion Delight", Ingredients: []string{"chicken", "salt"}},
	}

	ids := func(rs []models.Recipe) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		term string
		want []string
	}{
		{"tomato", []string{"1", "2"}},
		{"FUSION", []string{"3"}},
		{"salt", []string{"3"}},
		{"xyz", nil},
		{"", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(FilterRecipes(recipes, tt.term))); diff != "" {
				t.Errorf("FilterRecipes(%q) mismatch (-want +got):\n%s", tt.term, diff)
			}
		})
	}
}

func TestFilterRecipesDoesNotMutateInput(t *testing.T) {
	recipes := []models.Recipe{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}

	out := FilterRecipes(recipes, "")
	out[0].Title = "changed"

	assert.Equal(t, "A", recipes[0].Title)
}

func TestAddIngredientPure(t *testing.T) {
	list := []string{"a"}

	out, ok := AddIngredient(list, " b ")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, out)
	assert.Equal(t, []string{"a"}, list, "input slice is untouched")

	out, ok = AddIngredient(out, "b")
	assert.False(t, ok)
	assert.Len(t, out, 2)
}

func TestRemoveIngredientPure(t *testing.T) {
	list := []string{"a", "b", "c"}

	out, ok := RemoveIngredient(list, "b")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, out)
	assert.Equal(t, []string{"a", "b", "c"}, list)

	_, ok = RemoveIngredient(list, "B")
	assert.False(t, ok)
}
