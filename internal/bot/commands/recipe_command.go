package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/bradykim7/recipebot/internal/models"
	"github.com/bradykim7/recipebot/internal/session"
	"github.com/bradykim7/recipebot/internal/storage"
	"github.com/bradykim7/recipebot/internal/workbench"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	storageTimeout       = 5 * time.Second
	defaultImportTimeout = 30 * time.Second
)

// IngredientImporter pulls ingredient lines from a recipe page
type IngredientImporter interface {
	Import(ctx context.Context, url string) ([]string, error)
}

// Cookbook stores copies of recipes a user chose to keep
type Cookbook interface {
	Save(ctx context.Context, userID, username string, recipe models.Recipe) error
	List(ctx context.Context, userID string) ([]models.CookbookEntry, error)
	Delete(ctx context.Context, userID, recipeID string) error
}

type subcommand func(ctx context.Context, s Messenger, m *discordgo.MessageCreate, arg string)

// RecipeCommand handles the recipe workbench commands
type RecipeCommand struct {
	log      *zap.Logger
	prefix   string
	sessions *session.Manager
	importer IngredientImporter
	cookbook Cookbook
	subs     map[string]subcommand

	importTimeout time.Duration
}

// NewRecipeCommand creates the recipe command handler. importer and cookbook
// may be nil, which disables the matching subcommands.
func NewRecipeCommand(log *zap.Logger, prefix string, sessions *session.Manager, importer IngredientImporter, cookbook Cookbook) *RecipeCommand {
	c := &RecipeCommand{
		log:      log.Named("recipe-command"),
		prefix:   prefix,
		sessions: sessions,
		importer: importer,
		cookbook: cookbook,

		importTimeout: defaultImportTimeout,
	}
	c.subs = map[string]subcommand{
		"help":        c.help,
		"add":         c.add,
		"remove":      c.remove,
		"ingredients": c.ingredients,
		"import":      c.importURL,
		"cuisine":     c.cuisine,
		"diet":        c.dietary,
		"dietary":     c.dietary,
		"filters":     c.filters,
		"generate":    c.generate,
		"list":        c.list,
		"search":      c.search,
		"show":        c.show,
		"fav":         c.favorite,
		"favorite":    c.favorite,
		"save":        c.save,
		"cookbook":    c.listCookbook,
		"forget":      c.forget,
		"reset":       c.reset,
	}
	return c
}

// WithImportTimeout bounds each import, retries included
func (c *RecipeCommand) WithImportTimeout(d time.Duration) *RecipeCommand {
	if d > 0 {
		c.importTimeout = d
	}
	return c
}

// Help returns the usage line
func (c *RecipeCommand) Help() string {
	return "recipe: generate recipes from your ingredients (try `recipe help`)"
}

// Execute dispatches to the subcommand named by the first argument
func (c *RecipeCommand) Execute(ctx context.Context, s Messenger, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		c.help(ctx, s, m, "")
		return
	}

	sub, ok := c.subs[strings.ToLower(args[0])]
	if !ok {
		s.Send(m.ChannelID, fmt.Sprintf("Unknown recipe command `%s`. Try `%srecipe help`.", truncate(args[0], maxEchoLen), c.prefix))
		return
	}

	// the argument keeps its inner spacing; ingredient names may contain spaces
	arg := strings.TrimSpace(skipFields(strings.TrimPrefix(m.Content, c.prefix), 2))
	sub(ctx, s, m, arg)
}

func sessionKey(m *discordgo.MessageCreate) session.Key {
	return session.Key{ChannelID: m.ChannelID, UserID: m.Author.ID}
}

func (c *RecipeCommand) help(_ context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	s.SendEmbed(m.ChannelID, helpEmbed(c.prefix, c.cookbook != nil))
}

func (c *RecipeCommand) add(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	wb.AddIngredient(arg)
	s.SendEmbed(m.ChannelID, ingredientsEmbed(wb.Snapshot(), m.Author.Username))
}

func (c *RecipeCommand) remove(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	wb.RemoveIngredient(arg)
	s.SendEmbed(m.ChannelID, ingredientsEmbed(wb.Snapshot(), m.Author.Username))
}

func (c *RecipeCommand) ingredients(_ context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	wb := c.sessions.Get(sessionKey(m))
	s.SendEmbed(m.ChannelID, ingredientsEmbed(wb.Snapshot(), m.Author.Username))
}

func (c *RecipeCommand) importURL(ctx context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	if c.importer == nil {
		s.Send(m.ChannelID, "Importing is not available.")
		return
	}
	if arg == "" {
		s.Send(m.ChannelID, "Please give a recipe page URL to import.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.importTimeout)
	defer cancel()

	lines, err := c.importer.Import(ctx, arg)
	if err != nil {
		c.log.Warn("Failed to import ingredients", zap.Error(err), zap.String("url", arg))
		s.Send(m.ChannelID, "Could not import ingredients from that page.")
		return
	}

	wb := c.sessions.Get(sessionKey(m))
	added := 0
	for _, line := range lines {
		if wb.AddIngredient(line) {
			added++
		}
	}

	c.log.Info("Ingredients imported",
		zap.String("user_id", m.Author.ID),
		zap.Int("found", len(lines)),
		zap.Int("added", added))
	s.SendEmbed(m.ChannelID, ingredientsEmbed(wb.Snapshot(), m.Author.Username))
}

func (c *RecipeCommand) cuisine(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	selected, err := wb.SelectCuisine(arg)
	if err != nil {
		labels := make([]string, len(models.Cuisines))
		for i, opt := range models.Cuisines {
			labels[i] = opt.Label()
		}
		s.Send(m.ChannelID, "Choose a cuisine: "+strings.Join(labels, ", "))
		return
	}
	s.Send(m.ChannelID, fmt.Sprintf("Cuisine set to **%s**.", selected.Label()))
}

func (c *RecipeCommand) dietary(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	selected, err := wb.SelectDietary(arg)
	if err != nil {
		labels := make([]string, len(models.DietaryOptions))
		for i, d := range models.DietaryOptions {
			labels[i] = d.Label()
		}
		s.Send(m.ChannelID, "Choose a dietary preference: "+strings.Join(labels, ", "))
		return
	}
	s.Send(m.ChannelID, fmt.Sprintf("Dietary preference set to **%s**.", selected.Label()))
}

func (c *RecipeCommand) filters(_ context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	wb := c.sessions.Get(sessionKey(m))
	if !wb.ToggleFilters() {
		s.Send(m.ChannelID, "Filters hidden.")
		return
	}
	s.SendEmbed(m.ChannelID, filtersEmbed(wb.Snapshot(), m.Author.Username))
}

func (c *RecipeCommand) generate(ctx context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	wb := c.sessions.Get(sessionKey(m))

	st := wb.Snapshot()
	if len(st.Ingredients) == 0 {
		s.Send(m.ChannelID, fmt.Sprintf("Add at least one ingredient first: `%srecipe add <ingredient>`", c.prefix))
		return
	}
	if st.Generating {
		s.Send(m.ChannelID, "Already generating recipes, hang tight.")
		return
	}

	msgID, err := s.Send(m.ChannelID, "Generating Recipes...")
	if err != nil {
		c.log.Warn("Failed to send progress message", zap.Error(err))
	}

	recipes, err := wb.Generate(ctx)
	switch {
	case errors.Is(err, workbench.ErrGenerating):
		s.Send(m.ChannelID, "Already generating recipes, hang tight.")
		return
	case err != nil:
		// session torn down or bot shutting down; the result is discarded
		c.log.Debug("Generation discarded", zap.Error(err), zap.String("user_id", m.Author.ID))
		return
	case len(recipes) == 0:
		return
	}

	c.log.Info("Recipes generated",
		zap.String("user_id", m.Author.ID),
		zap.String("username", m.Author.Username),
		zap.Int("count", len(recipes)))

	if msgID != "" {
		s.Edit(m.ChannelID, msgID, fmt.Sprintf("Generated %d recipes for %s", len(recipes), m.Author.Username))
	}
	for _, r := range recipes {
		c.sendCard(s, m, r, false)
	}
}

func (c *RecipeCommand) list(_ context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	wb := c.sessions.Get(sessionKey(m))
	c.sendList(s, m, wb.Snapshot())
}

func (c *RecipeCommand) search(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	wb.SetSearchTerm(arg)
	c.sendList(s, m, wb.Snapshot())
}

func (c *RecipeCommand) sendList(s Messenger, m *discordgo.MessageCreate, st workbench.State) {
	if len(st.Recipes) == 0 {
		s.SendEmbed(m.ChannelID, emptyStateEmbed(m.Author.Username))
		return
	}
	filtered := st.Filtered()
	if len(filtered) == 0 {
		s.Send(m.ChannelID, fmt.Sprintf("No recipes match **%s**.", truncate(st.SearchTerm, maxEchoLen)))
		return
	}
	s.SendEmbed(m.ChannelID, recipeListEmbed(filtered, st.SearchTerm, m.Author.Username))
}

func (c *RecipeCommand) show(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	r, ok := wb.Recipe(arg)
	if !ok {
		s.Send(m.ChannelID, fmt.Sprintf("No recipe with id `%s`.", truncate(arg, maxEchoLen)))
		return
	}
	c.sendCard(s, m, r, true)
}

// sendCard posts a recipe card and tells the user when Discord refused it
func (c *RecipeCommand) sendCard(s Messenger, m *discordgo.MessageCreate, r models.Recipe, full bool) {
	err := s.SendEmbed(m.ChannelID, recipeCard(r, m.Author.Username, full))
	if err == nil {
		return
	}
	c.log.Error("Failed to send recipe card", zap.Error(err), zap.String("recipe_id", r.ID))
	s.Send(m.ChannelID, fmt.Sprintf("Could not display **%s** (ID `%s`).", truncate(r.Title, maxEchoLen), r.ID))
}

func (c *RecipeCommand) favorite(_ context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	wb := c.sessions.Get(sessionKey(m))
	r, found := wb.ToggleFavorite(arg)
	if !found {
		c.log.Debug("Favorite toggle for unknown recipe", zap.String("recipe_id", arg))
		return
	}

	if r.IsFavorite {
		s.Send(m.ChannelID, fmt.Sprintf("❤️ Added **%s** to favorites.", truncate(r.Title, maxEchoLen)))
	} else {
		s.Send(m.ChannelID, fmt.Sprintf("Removed **%s** from favorites.", truncate(r.Title, maxEchoLen)))
	}
}

func (c *RecipeCommand) save(ctx context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	if c.cookbook == nil {
		s.Send(m.ChannelID, "The cookbook is not configured.")
		return
	}

	wb, ok := c.sessions.Lookup(sessionKey(m))
	var r models.Recipe
	if ok {
		r, ok = wb.Recipe(arg)
	}
	if !ok {
		s.Send(m.ChannelID, fmt.Sprintf("No recipe with id `%s`.", truncate(arg, maxEchoLen)))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := c.cookbook.Save(ctx, m.Author.ID, m.Author.Username, r); err != nil {
		c.log.Error("Failed to save recipe", zap.Error(err), zap.String("recipe_id", r.ID))
		s.Send(m.ChannelID, "An error occurred while saving the recipe.")
		return
	}
	s.Send(m.ChannelID, fmt.Sprintf("Saved **%s** to your cookbook.", truncate(r.Title, maxEchoLen)))
}

func (c *RecipeCommand) listCookbook(ctx context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	if c.cookbook == nil {
		s.Send(m.ChannelID, "The cookbook is not configured.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	entries, err := c.cookbook.List(ctx, m.Author.ID)
	if err != nil {
		c.log.Error("Failed to list cookbook", zap.Error(err), zap.String("user_id", m.Author.ID))
		s.Send(m.ChannelID, "An error occurred while loading your cookbook.")
		return
	}
	s.SendEmbed(m.ChannelID, cookbookEmbed(entries, m.Author.Username))
}

func (c *RecipeCommand) forget(ctx context.Context, s Messenger, m *discordgo.MessageCreate, arg string) {
	if c.cookbook == nil {
		s.Send(m.ChannelID, "The cookbook is not configured.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	err := c.cookbook.Delete(ctx, m.Author.ID, arg)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.Send(m.ChannelID, fmt.Sprintf("No recipe with id `%s` in your cookbook.", truncate(arg, maxEchoLen)))
	case err != nil:
		c.log.Error("Failed to delete cookbook entry", zap.Error(err), zap.String("recipe_id", arg))
		s.Send(m.ChannelID, "An error occurred while updating your cookbook.")
	default:
		s.Send(m.ChannelID, "Removed from your cookbook.")
	}
}

func (c *RecipeCommand) reset(_ context.Context, s Messenger, m *discordgo.MessageCreate, _ string) {
	c.sessions.Reset(sessionKey(m))
	s.Send(m.ChannelID, "Your recipe session has been cleared.")
}

// skipFields drops the first n whitespace-separated fields of s and returns
// the remainder untouched.
func skipFields(s string, n int) string {
	for i := 0; i < n; i++ {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		j := strings.IndexFunc(s, unicode.IsSpace)
		if j < 0 {
			return ""
		}
		s = s[j:]
	}
	return s
}
