package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bradykim7/recipebot/internal/models"
	"github.com/bradykim7/recipebot/internal/session"
	"github.com/bradykim7/recipebot/internal/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	channelID string
	content   string
	embed     *discordgo.MessageEmbed
}

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	edits   map[string]string
	nextID  int
	sendErr  error
	editErr  error
	embedErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{edits: make(map[string]string)}
}

func (f *fakeMessenger) Send(channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return fmt.Sprintf("m%d", f.nextID), nil
}

func (f *fakeMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.embedErr != nil {
		return f.embedErr
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, embed: embed})
	return nil
}

func (f *fakeMessenger) Edit(_, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits[messageID] = content
	return nil
}

func (f *fakeMessenger) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) embeds() []*discordgo.MessageEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*discordgo.MessageEmbed
	for _, m := range f.sent {
		if m.embed != nil {
			out = append(out, m.embed)
		}
	}
	return out
}

func (f *fakeMessenger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeImporter struct {
	lines []string
	err   error
	urls  []string
}

func (f *fakeImporter) Import(_ context.Context, url string) ([]string, error) {
	f.urls = append(f.urls, url)
	return f.lines, f.err
}

type fakeCookbook struct {
	entries map[string][]models.CookbookEntry
	err     error
}

func newFakeCookbook() *fakeCookbook {
	return &fakeCookbook{entries: make(map[string][]models.CookbookEntry)}
}

func (f *fakeCookbook) Save(_ context.Context, userID, username string, recipe models.Recipe) error {
	if f.err != nil {
		return f.err
	}
	f.entries[userID] = append(f.entries[userID], *models.NewCookbookEntry(userID, username, recipe))
	return nil
}

func (f *fakeCookbook) List(_ context.Context, userID string) ([]models.CookbookEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[userID], nil
}

func (f *fakeCookbook) Delete(_ context.Context, userID, recipeID string) error {
	if f.err != nil {
		return f.err
	}
	for i, e := range f.entries[userID] {
		if e.Recipe.ID == recipeID {
			f.entries[userID] = append(f.entries[userID][:i], f.entries[userID][i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type harness struct {
	cmd      *RecipeCommand
	sessions *session.Manager
	msgr     *fakeMessenger
	importer *fakeImporter
	cookbook *fakeCookbook
}

func newHarness(t *testing.T, delay time.Duration) *harness {
	t.Helper()
	sessions := session.NewManager(session.Options{
		Delay:       delay,
		IdleTimeout: time.Hour,
		NewRand:     func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	})
	t.Cleanup(sessions.Close)

	h := &harness{
		sessions: sessions,
		msgr:     newFakeMessenger(),
		importer: &fakeImporter{},
		cookbook: newFakeCookbook(),
	}
	h.cmd = NewRecipeCommand(zap.NewNop(), "!", sessions, h.importer, h.cookbook)
	return h
}

func message(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "c1",
		Content:   content,
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}}
}

// run feeds content through Execute the same way the registry does
func (h *harness) run(content string) {
	m := message(content)
	parts := strings.Fields(strings.TrimPrefix(content, "!"))
	h.cmd.Execute(context.Background(), h.msgr, m, parts[1:])
}

func (h *harness) key() session.Key {
	return session.Key{ChannelID: "c1", UserID: "u1"}
}

func TestRecipeAddKeepsInnerSpacing(t *testing.T) {
	h := newHarness(t, 0)

	h.run("!recipe add  chicken   breast ")
	h.run("!recipe add chicken   breast")
	h.run("!recipe add")

	wb := h.sessions.Get(h.key())
	assert.Equal(t, []string{"chicken   breast"}, wb.Snapshot().Ingredients)

	embed := h.msgr.last().embed
	require.NotNil(t, embed)
	assert.Equal(t, "Selected Ingredients (1)", embed.Title)
}

func TestRecipeRemove(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe add rice")
	h.run("!recipe add egg")
	h.run("!recipe remove rice")

	assert.Equal(t, []string{"egg"}, h.sessions.Get(h.key()).Snapshot().Ingredients)
}

func TestRecipeGenerateSendsCards(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe add chicken")
	h.run("!recipe generate")

	embeds := h.msgr.embeds()
	require.Len(t, embeds, 3)
	assert.Equal(t, "chicken Fusion Delight", embeds[1].Title)
	assert.Equal(t, "Gourmet chicken Bowl", embeds[2].Title)
	assert.Equal(t, "Generated 2 recipes for alice", h.msgr.edits["m1"])

	assert.Len(t, h.sessions.Get(h.key()).Snapshot().Recipes, 2)
}

func TestRecipeGenerateWithoutIngredients(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe generate")

	assert.Contains(t, h.msgr.last().content, "Add at least one ingredient")
	assert.Empty(t, h.msgr.embeds())
}

func TestRecipeGenerateWhileInFlight(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.run("!recipe add beef")

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.run("!recipe generate")
	}()

	wb := h.sessions.Get(h.key())
	require.Eventually(t, func() bool { return wb.Snapshot().Generating }, time.Second, time.Millisecond)

	h.run("!recipe generate")
	assert.Equal(t, "Already generating recipes, hang tight.", h.msgr.last().content)

	// tearing the session down discards the pending result silently
	before := h.msgr.count()
	h.run("!recipe reset")
	<-done

	assert.Equal(t, before+1, h.msgr.count())
	assert.Equal(t, "Your recipe session has been cleared.", h.msgr.last().content)
	assert.Empty(t, h.sessions.Get(h.key()).Snapshot().Recipes)
}

func TestRecipeCuisineAndDiet(t *testing.T) {
	h := newHarness(t, 0)

	h.run("!recipe cuisine italian")
	assert.Equal(t, "Cuisine set to **Italian**.", h.msgr.last().content)

	h.run("!recipe diet gluten-free")
	assert.Equal(t, "Dietary preference set to **Gluten-Free**.", h.msgr.last().content)

	h.run("!recipe cuisine martian")
	assert.True(t, strings.HasPrefix(h.msgr.last().content, "Choose a cuisine: Any, Italian"))

	st := h.sessions.Get(h.key()).Snapshot()
	assert.Equal(t, models.Cuisine("Italian"), st.Cuisine)
	assert.Equal(t, models.Dietary("Gluten-Free"), st.Dietary)
}

func TestRecipeFiltersToggle(t *testing.T) {
	h := newHarness(t, 0)

	h.run("!recipe filters")
	embed := h.msgr.last().embed
	require.NotNil(t, embed)
	assert.Equal(t, "Filters", embed.Title)

	h.run("!recipe filters")
	assert.Equal(t, "Filters hidden.", h.msgr.last().content)
}

func TestRecipeListAndSearch(t *testing.T) {
	h := newHarness(t, 0)

	h.run("!recipe list")
	require.NotNil(t, h.msgr.last().embed)
	assert.Equal(t, "Ready to Cook Something Amazing?", h.msgr.last().embed.Title)

	h.run("!recipe add tomato")
	h.run("!recipe generate")
	h.run("!recipe remove tomato")
	h.run("!recipe add lamb")
	h.run("!recipe generate")

	h.run("!recipe list")
	assert.Equal(t, "Your Generated Recipes (4)", h.msgr.last().embed.Title)

	h.run("!recipe search TOMATO")
	assert.Equal(t, "Your Generated Recipes (2)", h.msgr.last().embed.Title)

	h.run("!recipe search nothing-here")
	assert.Equal(t, "No recipes match **nothing-here**.", h.msgr.last().content)

	h.run("!recipe search")
	assert.Equal(t, "Your Generated Recipes (4)", h.msgr.last().embed.Title)
}

func TestRecipeFavoriteAndShow(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe add tofu")
	h.run("!recipe generate")

	id := h.sessions.Get(h.key()).Snapshot().Recipes[0].ID

	h.run("!recipe fav " + id)
	assert.Equal(t, "❤️ Added **tofu Fusion Delight** to favorites.", h.msgr.last().content)

	h.run("!recipe show " + id)
	embed := h.msgr.last().embed
	require.NotNil(t, embed)
	assert.Equal(t, "❤️ tofu Fusion Delight", embed.Title)

	h.run("!recipe fav " + id)
	assert.Equal(t, "Removed **tofu Fusion Delight** from favorites.", h.msgr.last().content)

	// unknown ids are ignored without a reply
	before := h.msgr.count()
	h.run("!recipe fav nope")
	assert.Equal(t, before, h.msgr.count())

	h.run("!recipe show nope")
	assert.Equal(t, "No recipe with id `nope`.", h.msgr.last().content)
}

func TestRecipeImport(t *testing.T) {
	h := newHarness(t, 0)
	h.importer.lines = []string{"2 eggs", "1 cup flour", "2 eggs"}
	h.run("!recipe add 1 cup flour")

	h.run("!recipe import https://example.com/pancakes")

	assert.Equal(t, []string{"https://example.com/pancakes"}, h.importer.urls)
	assert.Equal(t, []string{"1 cup flour", "2 eggs"}, h.sessions.Get(h.key()).Snapshot().Ingredients)

	h.importer.err = errors.New("boom")
	h.run("!recipe import https://example.com/broken")
	assert.Equal(t, "Could not import ingredients from that page.", h.msgr.last().content)

	h.run("!recipe import")
	assert.Equal(t, "Please give a recipe page URL to import.", h.msgr.last().content)
}

func TestRecipeCookbook(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe add salmon")
	h.run("!recipe generate")
	id := h.sessions.Get(h.key()).Snapshot().Recipes[1].ID

	h.run("!recipe save " + id)
	assert.Equal(t, "Saved **Gourmet salmon Bowl** to your cookbook.", h.msgr.last().content)
	require.Len(t, h.cookbook.entries["u1"], 1)

	h.run("!recipe cookbook")
	embed := h.msgr.last().embed
	require.NotNil(t, embed)
	assert.Equal(t, "alice's Cookbook (1)", embed.Title)

	h.run("!recipe forget " + id)
	assert.Equal(t, "Removed from your cookbook.", h.msgr.last().content)

	h.run("!recipe forget " + id)
	assert.Equal(t, fmt.Sprintf("No recipe with id `%s` in your cookbook.", id), h.msgr.last().content)

	h.run("!recipe save missing")
	assert.Equal(t, "No recipe with id `missing`.", h.msgr.last().content)

	h.cookbook.err = errors.New("db down")
	h.run("!recipe cookbook")
	assert.Equal(t, "An error occurred while loading your cookbook.", h.msgr.last().content)
}

func TestRecipeCookbookDisabled(t *testing.T) {
	sessions := session.NewManager(session.Options{})
	defer sessions.Close()
	cmd := NewRecipeCommand(zap.NewNop(), "!", sessions, nil, nil)
	msgr := newFakeMessenger()

	cmd.Execute(context.Background(), msgr, message("!recipe cookbook"), []string{"cookbook"})
	assert.Equal(t, "The cookbook is not configured.", msgr.last().content)

	cmd.Execute(context.Background(), msgr, message("!recipe import http://x"), []string{"import", "http://x"})
	assert.Equal(t, "Importing is not available.", msgr.last().content)
}

func TestRecipeUnknownAndHelp(t *testing.T) {
	h := newHarness(t, 0)

	h.run("!recipe bake")
	assert.Equal(t, "Unknown recipe command `bake`. Try `!recipe help`.", h.msgr.last().content)

	h.cmd.Execute(context.Background(), h.msgr, message("!recipe"), nil)
	embed := h.msgr.last().embed
	require.NotNil(t, embed)
	assert.Equal(t, "Recipe Generator", embed.Title)
	assert.Contains(t, embed.Description, "`!recipe save <id>`")
}

func TestSkipFields(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"recipe add chicken breast", 2, " chicken breast"},
		{"  recipe   add   a  b ", 2, "   a  b "},
		{"recipe add", 2, ""},
		{"recipe", 2, ""},
		{"", 1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, skipFields(tt.in, tt.n), "skipFields(%q, %d)", tt.in, tt.n)
	}
}

func TestRecipeLongIngredientsStayWithinEmbedLimits(t *testing.T) {
	h := newHarness(t, 0)
	lines := []string{strings.Repeat("x", 300)}
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("%d cups of finely chopped ingredient number %d", i+1, i))
	}
	h.importer.lines = lines
	h.run("!recipe import https://example.com/long")
	assertEmbedWithinLimits(t, h.msgr.last().embed)

	h.run("!recipe generate")
	embeds := h.msgr.embeds()
	require.GreaterOrEqual(t, len(embeds), 2)
	for _, e := range embeds[len(embeds)-2:] {
		assertEmbedWithinLimits(t, e)
	}

	id := h.sessions.Get(h.key()).Snapshot().Recipes[0].ID
	h.run("!recipe show " + id)
	assertEmbedWithinLimits(t, h.msgr.last().embed)
}

func TestRecipeShowReportsRejectedCard(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe add kale")
	h.run("!recipe generate")
	r := h.sessions.Get(h.key()).Snapshot().Recipes[0]

	h.msgr.embedErr = errors.New("HTTP 400 Bad Request")
	h.run("!recipe show " + r.ID)

	assert.Equal(t, fmt.Sprintf("Could not display **kale Fusion Delight** (ID `%s`).", r.ID), h.msgr.last().content)
}

func TestRecipeGenerateReportsRejectedCards(t *testing.T) {
	h := newHarness(t, 0)
	h.run("!recipe add kale")
	h.msgr.embedErr = errors.New("HTTP 400 Bad Request")
	h.run("!recipe generate")

	assert.True(t, strings.HasPrefix(h.msgr.last().content, "Could not display **Gourmet kale Bowl**"))
}
