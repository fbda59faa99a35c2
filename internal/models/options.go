package models

import "strings"

// Any is the sentinel selection meaning "no preference"
const Any = "any"

// Cuisine은 요리 스타일 선택값입니다
type Cuisine string

// Dietary는 식단 선호 선택값입니다
type Dietary string

const (
	CuisineAny Cuisine = Any
	DietaryAny Dietary = Any
)

// Cuisines lists the selectable cuisines in display order
var Cuisines = []Cuisine{
	CuisineAny, "Italian", "Mexican", "Asian", "Indian", "Mediterranean", "American", "French",
}

// DietaryOptions lists the selectable dietary preferences in display order
var DietaryOptions = []Dietary{
	DietaryAny, "Vegetarian", "Vegan", "Gluten-Free", "Keto", "Low-Carb", "Dairy-Free",
}

// ParseCuisine matches user input case-insensitively against Cuisines
func ParseCuisine(s string) (Cuisine, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Cuisines {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// ParseDietary matches user input case-insensitively against DietaryOptions
func ParseDietary(s string) (Dietary, bool) {
	s = strings.TrimSpace(s)
	for _, d := range DietaryOptions {
		if strings.EqualFold(string(d), s) {
			return d, true
		}
	}
	return "", false
}

// IsAny reports whether the selection is the "any" sentinel
func (c Cuisine) IsAny() bool { return c == CuisineAny }

// IsAny reports whether the selection is the "any" sentinel
func (d Dietary) IsAny() bool { return d == DietaryAny }

// Label returns the display label with the first character upper-cased
func (c Cuisine) Label() string { return label(string(c)) }

// Label returns the display label with the first character upper-cased
func (d Dietary) Label() string { return label(string(d)) }

func label(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
