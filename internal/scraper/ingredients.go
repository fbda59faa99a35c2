package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupSelectors match ingredient lines rendered as HTML by common recipe
// plugins, tried after structured data.
var markupSelectors = []string{
	`[itemprop="recipeIngredient"]`,
	`[itemprop="ingredients"]`,
	`.wprm-recipe-ingredient`,
	`.tasty-recipes-ingredients li`,
	`li.ingredient`,
	`.ingredients li`,
}

// ParseIngredients extracts ingredient lines from a recipe page. JSON-LD
// recipeIngredient entries win; otherwise the first markup selector that
// matches anything is used. Lines are whitespace-collapsed and de-duplicated.
func ParseIngredients(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var found []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		found = append(found, ldIngredients([]byte(s.Text()))...)
	})

	if len(found) == 0 {
		for _, sel := range markupSelectors {
			doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
				found = append(found, s.Text())
			})
			if len(found) > 0 {
				break
			}
		}
	}

	return normalize(found), nil
}

// ldIngredients walks a JSON-LD payload (object, array or @graph) looking
// for Recipe nodes.
func ldIngredients(data []byte) []string {
	var node any
	if err := json.Unmarshal(data, &node); err != nil {
		return nil
	}
	var out []string
	walkLD(node, &out)
	return out
}

func walkLD(node any, out *[]string) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkLD(item, out)
		}
	case map[string]any:
		if items, ok := v["recipeIngredient"].([]any); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					*out = append(*out, s)
				}
			}
		}
		if graph, ok := v["@graph"]; ok {
			walkLD(graph, out)
		}
	}
}

func normalize(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}
