package workbench

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/bradykim7/recipebot/internal/models"
)

// template describes one fixed recipe shape.
type template struct {
	defaultCuisine string
	cookingTime    int
	servings       int
	difficulty     models.Difficulty
	title          func(ingredients []string, rng *rand.Rand) string
	ingredients    func(ingredients []string) []string
	instructions   func(ingredients []string) []string
}

var fusionDelight = template{
	defaultCuisine: "Fusion",
	cookingTime:    25,
	servings:       4,
	difficulty:     models.DifficultyEasy,
	title: func(ingredients []string, _ *rand.Rand) string {
		return ingredients[0] + " Fusion Delight"
	},
	ingredients: func(ingredients []string) []string {
		out := append([]string(nil), ingredients...)
		return append(out, "olive oil", "salt", "pepper", "garlic")
	},
	instructions: func(ingredients []string) []string {
		return []string{
			"Heat olive oil in a large pan over medium heat",
			fmt.Sprintf("Add %s and cook for 5-7 minutes", ingredients[0]),
			"Season with salt, pepper, and minced garlic",
			"Add remaining ingredients and cook for 10-12 minutes",
			"Serve hot and enjoy!",
		}
	},
}

var gourmetBowl = template{
	defaultCuisine: "Contemporary",
	cookingTime:    30,
	servings:       2,
	difficulty:     models.DifficultyMedium,
	title: func(ingredients []string, rng *rand.Rand) string {
		return "Gourmet " + ingredients[rng.Intn(len(ingredients))] + " Bowl"
	},
	ingredients: func(ingredients []string) []string {
		out := append([]string(nil), ingredients[:min(3, len(ingredients))]...)
		return append(out, "herbs", "spices", "broth")
	},
	instructions: func([]string) []string {
		return []string{
			"Prepare all ingredients by washing and chopping",
			"In a large pot, combine broth with main ingredients",
			"Simmer for 15-20 minutes until tender",
			"Add herbs and spices to taste",
			"Serve in bowls with fresh garnish",
		}
	},
}

var templates = []template{fusionDelight, gourmetBowl}

// Generator fabricates recipes from the fixed templates. It is not safe for
// concurrent use; the Workbench serialises calls.
type Generator struct {
	rng    *rand.Rand
	now    func() time.Time
	lastID int64
}

// NewGenerator creates a generator. rng picks Template B's featured
// ingredient; now seeds recipe ids. Nil arguments get time-based defaults.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate returns one recipe per template, or nil when ingredients is empty.
func (g *Generator) Generate(ingredients []string, cuisine models.Cuisine, dietary models.Dietary) []models.Recipe {
	if len(ingredients) == 0 {
		return nil
	}

	recipes := make([]models.Recipe, 0, len(templates))
	for _, t := range templates {
		recipes = append(recipes, models.Recipe{
			ID:           g.nextID(),
			Title:        t.title(ingredients, g.rng),
			Ingredients:  t.ingredients(ingredients),
			Instructions: t.instructions(ingredients),
			CookingTime:  t.cookingTime,
			Servings:     t.servings,
			Difficulty:   t.difficulty,
			Cuisine:      resolveCuisine(cuisine, t.defaultCuisine),
			Dietary:      resolveDietary(dietary),
		})
	}
	return recipes
}

// nextID returns the current millisecond timestamp, bumped past the last
// issued id so ids stay unique and increasing within the generator.
func (g *Generator) nextID() string {
	id := g.now().UnixMilli()
	if id <= g.lastID {
		id = g.lastID + 1
	}
	g.lastID = id
	return strconv.FormatInt(id, 10)
}

func resolveCuisine(c models.Cuisine, fallback string) string {
	if c == "" || c.IsAny() {
		return fallback
	}
	return string(c)
}

func resolveDietary(d models.Dietary) []string {
	if d == "" || d.IsAny() {
		return []string{}
	}
	return []string{string(d)}
}
