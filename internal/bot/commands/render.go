package commands

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bradykim7/recipebot/internal/models"
	"github.com/bradykim7/recipebot/internal/workbench"
	"github.com/bwmarrin/discordgo"
)

const (
	colorOrange = 0xEA580C
	colorGreen  = 0x16A34A
	colorRed    = 0xDC2626
	colorGray   = 0x6B7280

	cardIngredientLimit  = 4
	cardInstructionLimit = 3
	maxEmbedFields       = 25

	// Discord embed limits, counted in characters
	maxTitleLen       = 256
	maxDescriptionLen = 4096
	maxFieldValueLen  = 1024

	// a single ingredient or step is clipped before lists are packed, so one
	// long entry cannot crowd out the rest
	maxItemLen = 200
	// list fields stay short so 25 of them fit the 6000 character embed total
	maxListNameLen = 100
	maxEchoLen     = 100
)

// truncate clips s to at most n characters, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// listFormat describes how packList joins items and reports the hidden ones.
type listFormat struct {
	sep     string
	moreSep string
	more    func(hidden int) string
}

// packList joins at most limit items, dropping trailing items until the text,
// including the "+N more" note, fits in maxLen characters.
func packList(items []string, limit, maxLen int, f listFormat) string {
	for shown := min(limit, len(items)); shown >= 0; shown-- {
		out := strings.Join(items[:shown], f.sep)
		if hidden := len(items) - shown; hidden > 0 {
			if out != "" {
				out += f.moreSep
			}
			out += f.more(hidden)
		}
		if utf8.RuneCountInString(out) <= maxLen {
			return out
		}
	}
	return truncate(f.more(len(items)), maxLen)
}

func clipItems(items []string, format func(i int, item string) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = format(i, truncate(item, maxItemLen))
	}
	return out
}

func footer(username string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Requested by %s", username)}
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

// ingredientsEmbed renders the ingredient tags and, when the panel is open,
// the current cuisine and dietary selections.
func ingredientsEmbed(st workbench.State, username string) *discordgo.MessageEmbed {
	desc := "No ingredients yet. Add one with `recipe add <ingredient>`."
	if len(st.Ingredients) > 0 {
		tags := clipItems(st.Ingredients, func(_ int, ing string) string { return "`" + ing + "`" })
		desc = packList(tags, len(tags), maxDescriptionLen, listFormat{
			sep:     " ",
			moreSep: " ",
			more:    func(n int) string { return fmt.Sprintf("+%d more", n) },
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Selected Ingredients (%d)", len(st.Ingredients)),
		Description: desc,
		Color:       colorOrange,
		Footer:      footer(username),
		Timestamp:   timestamp(),
	}
	if st.ShowFilters {
		embed.Fields = filterFields(st)
	}
	return embed
}

func filtersEmbed(st workbench.State, username string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     "Filters",
		Color:     colorGray,
		Fields:    filterFields(st),
		Footer:    footer(username),
		Timestamp: timestamp(),
	}
}

func filterFields(st workbench.State) []*discordgo.MessageEmbedField {
	cuisines := make([]string, len(models.Cuisines))
	for i, c := range models.Cuisines {
		cuisines[i] = markSelected(c.Label(), c == st.Cuisine)
	}
	diets := make([]string, len(models.DietaryOptions))
	for i, d := range models.DietaryOptions {
		diets[i] = markSelected(d.Label(), d == st.Dietary)
	}
	return []*discordgo.MessageEmbedField{
		{Name: "Cuisine Type", Value: strings.Join(cuisines, " · ")},
		{Name: "Dietary Preferences", Value: strings.Join(diets, " · ")},
	}
}

func markSelected(label string, selected bool) string {
	if selected {
		return "**" + label + "**"
	}
	return label
}

// recipeCard renders one recipe. Compact cards truncate the ingredient and
// instruction lists the way the gallery does.
func recipeCard(r models.Recipe, username string, full bool) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Time", Value: fmt.Sprintf("%d mins", r.CookingTime), Inline: true},
		{Name: "Servings", Value: fmt.Sprintf("%d servings", r.Servings), Inline: true},
		{Name: "Difficulty", Value: string(r.Difficulty), Inline: true},
		{Name: "Cuisine", Value: r.Cuisine, Inline: true},
	}
	if len(r.Dietary) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Dietary",
			Value:  strings.Join(r.Dietary, ", "),
			Inline: true,
		})
	}

	ingLimit, stepLimit := cardIngredientLimit, cardInstructionLimit
	if full {
		ingLimit, stepLimit = len(r.Ingredients), len(r.Instructions)
	}
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "Ingredients", Value: ingredientSummary(r.Ingredients, ingLimit)},
		&discordgo.MessageEmbedField{Name: "Instructions", Value: instructionSummary(r.Instructions, stepLimit)},
	)

	color := colorOrange
	if r.IsFavorite {
		color = colorRed
	}
	return &discordgo.MessageEmbed{
		Title:       recipeTitle(r),
		Description: fmt.Sprintf("ID: `%s`", r.ID),
		Color:       color,
		Fields:      fields,
		Footer:      footer(username),
		Timestamp:   timestamp(),
	}
}

func recipeTitle(r models.Recipe) string {
	if r.IsFavorite {
		return truncate("❤️ "+r.Title, maxTitleLen)
	}
	return truncate(r.Title, maxTitleLen)
}

func ingredientSummary(ingredients []string, limit int) string {
	if len(ingredients) == 0 {
		return "-"
	}
	items := clipItems(ingredients, func(_ int, ing string) string { return ing })
	return packList(items, limit, maxFieldValueLen, listFormat{
		sep:     ", ",
		moreSep: " ",
		more:    func(n int) string { return fmt.Sprintf("+%d more", n) },
	})
}

func instructionSummary(steps []string, limit int) string {
	if len(steps) == 0 {
		return "-"
	}
	items := clipItems(steps, func(i int, step string) string { return fmt.Sprintf("%d. %s", i+1, step) })
	return packList(items, limit, maxFieldValueLen, listFormat{
		sep:     "\n",
		moreSep: "\n",
		more:    func(n int) string { return fmt.Sprintf("+%d more steps", n) },
	})
}

func recipeLine(r models.Recipe) string {
	return fmt.Sprintf("`%s` · %d mins · %d servings · %s · %s",
		r.ID, r.CookingTime, r.Servings, r.Difficulty, r.Cuisine)
}

// recipeListEmbed renders the filtered gallery as one embed, one field per recipe.
func recipeListEmbed(recipes []models.Recipe, searchTerm, username string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Your Generated Recipes (%d)", len(recipes)),
		Color:     colorOrange,
		Footer:    footer(username),
		Timestamp: timestamp(),
	}
	if searchTerm != "" {
		embed.Description = fmt.Sprintf("Search: **%s**", truncate(searchTerm, maxEchoLen))
	}

	fields := make([]*discordgo.MessageEmbedField, len(recipes))
	for i, r := range recipes {
		fields[i] = &discordgo.MessageEmbedField{
			Name:  truncate(recipeTitle(r), maxListNameLen),
			Value: recipeLine(r),
		}
	}
	embed.Fields = capFields(fields, "+%d more recipes, narrow it down with `recipe search`")
	return embed
}

// capFields keeps the embed within the field limit, replacing the overflow
// with a single "+N more" field built from moreFormat.
func capFields(fields []*discordgo.MessageEmbedField, moreFormat string) []*discordgo.MessageEmbedField {
	if len(fields) <= maxEmbedFields {
		return fields
	}
	kept := fields[:maxEmbedFields-1]
	return append(kept, &discordgo.MessageEmbedField{
		Name:  "…",
		Value: fmt.Sprintf(moreFormat, len(fields)-len(kept)),
	})
}

func emptyStateEmbed(username string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Ready to Cook Something Amazing?",
		Description: "Add your available ingredients with `recipe add` and let our chef create personalized recipes just for you!",
		Color:       colorGray,
		Footer:      footer(username),
		Timestamp:   timestamp(),
	}
}

func cookbookEmbed(entries []models.CookbookEntry, username string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s's Cookbook (%d)", username, len(entries)),
		Color:     colorGreen,
		Footer:    footer(username),
		Timestamp: timestamp(),
	}
	if len(entries) == 0 {
		embed.Description = "Your cookbook is empty. Save a recipe with `recipe save <id>`."
		return embed
	}
	fields := make([]*discordgo.MessageEmbedField, len(entries))
	for i, e := range entries {
		fields[i] = &discordgo.MessageEmbedField{
			Name:  truncate(e.Recipe.Title, maxListNameLen),
			Value: fmt.Sprintf("%s · saved %s", recipeLine(e.Recipe), e.SavedAt.Format("2006-01-02")),
		}
	}
	embed.Fields = capFields(fields, "+%d more saved recipes")
	return embed
}

func helpEmbed(prefix string, cookbook bool) *discordgo.MessageEmbed {
	p := prefix + "recipe "
	lines := []string{
		"`" + p + "add <ingredient>`: add an ingredient",
		"`" + p + "remove <ingredient>`: remove an ingredient",
		"`" + p + "ingredients`: show your ingredients",
		"`" + p + "import <url>`: import ingredients from a recipe page",
		"`" + p + "cuisine <name>` / `" + p + "diet <name>`: set preferences",
		"`" + p + "filters`: show or hide the filter panel",
		"`" + p + "generate`: create recipes from your ingredients",
		"`" + p + "list`: show your recipes",
		"`" + p + "search [term]`: filter recipes by title or ingredient",
		"`" + p + "show <id>`: show a full recipe",
		"`" + p + "fav <id>`: toggle a favorite",
		"`" + p + "reset`: start over",
	}
	if cookbook {
		lines = append(lines,
			"`"+p+"save <id>`: save a recipe to your cookbook",
			"`"+p+"cookbook`: list your cookbook",
			"`"+p+"forget <id>`: remove a recipe from your cookbook",
		)
	}
	return &discordgo.MessageEmbed{
		Title:       "Recipe Generator",
		Description: strings.Join(lines, "\n"),
		Color:       colorOrange,
	}
}
