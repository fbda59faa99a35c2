// Package workbench holds the state of one recipe-generation session: the
// ingredient list, cuisine and dietary selections, generated recipes, the
// search term and favourites. All mutations go through Workbench methods;
// subscribers receive a snapshot after every change.
package workbench

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/bradykim7/recipebot/internal/models"
	"go.uber.org/zap"
)

// DefaultDelay is the simulated generation latency.
const DefaultDelay = 2 * time.Second

var (
	// ErrGenerating is returned when a generation is already in flight.
	ErrGenerating = errors.New("workbench: generation already in progress")
	// ErrClosed is returned once the workbench has been torn down.
	ErrClosed = errors.New("workbench: closed")
	// ErrUnknownCuisine is returned for values outside models.Cuisines.
	ErrUnknownCuisine = errors.New("workbench: unknown cuisine")
	// ErrUnknownDietary is returned for values outside models.DietaryOptions.
	ErrUnknownDietary = errors.New("workbench: unknown dietary preference")
)

// State is a point-in-time copy of the workbench.
type State struct {
	Input       string
	Ingredients []string
	Recipes     []models.Recipe
	Cuisine     models.Cuisine
	Dietary     models.Dietary
	Generating  bool
	SearchTerm  string
	ShowFilters bool
}

// Filtered returns the recipes visible under the current search term.
func (s State) Filtered() []models.Recipe {
	return FilterRecipes(s.Recipes, s.SearchTerm)
}

// Options configures a Workbench.
type Options struct {
	Delay     time.Duration
	Generator *Generator
	Logger    *zap.Logger
}

// Workbench is the session-scoped state container.
type Workbench struct {
	mu    sync.Mutex
	state State
	gen   *Generator
	delay time.Duration
	log   *zap.Logger

	subs   map[int]func(State)
	nextID int

	done   chan struct{}
	closed bool
}

// New creates an empty workbench with "any" selections.
func New(opts Options) *Workbench {
	if opts.Generator == nil {
		opts.Generator = NewGenerator(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	return &Workbench{
		state: State{
			Ingredients: []string{},
			Recipes:     []models.Recipe{},
			Cuisine:     models.CuisineAny,
			Dietary:     models.DietaryAny,
		},
		gen:   opts.Generator,
		delay: opts.Delay,
		log:   opts.Logger.Named("workbench"),
		subs:  make(map[int]func(State)),
		done:  make(chan struct{}),
	}
}

// Snapshot returns a deep copy of the current state.
func (w *Workbench) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
func (w *Workbench) Subscribe(fn func(State)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// SetInput updates the pending ingredient text.
func (w *Workbench) SetInput(raw string) {
	w.update(func(s *State) bool {
		if s.Input == raw {
			return false
		}
		s.Input = raw
		return true
	})
}

// SubmitInput commits the pending text as an ingredient.
func (w *Workbench) SubmitInput() bool {
	w.mu.Lock()
	input := w.state.Input
	w.mu.Unlock()
	return w.AddIngredient(input)
}

// AddIngredient appends the trimmed value unless it is empty or a duplicate,
// clearing the pending input on success.
func (w *Workbench) AddIngredient(raw string) bool {
	var added bool
	w.update(func(s *State) bool {
		s.Ingredients, added = AddIngredient(s.Ingredients, raw)
		if added {
			s.Input = ""
		}
		return added
	})
	return added
}

// RemoveIngredient removes the exact match of value, if any.
func (w *Workbench) RemoveIngredient(value string) bool {
	var removed bool
	w.update(func(s *State) bool {
		s.Ingredients, removed = RemoveIngredient(s.Ingredients, value)
		return removed
	})
	return removed
}

// SelectCuisine changes the cuisine applied to future generations.
func (w *Workbench) SelectCuisine(value string) (models.Cuisine, error) {
	c, ok := models.ParseCuisine(value)
	if !ok {
		return "", ErrUnknownCuisine
	}
	w.update(func(s *State) bool {
		changed := s.Cuisine != c
		s.Cuisine = c
		return changed
	})
	return c, nil
}

// SelectDietary changes the dietary preference applied to future generations.
func (w *Workbench) SelectDietary(value string) (models.Dietary, error) {
	d, ok := models.ParseDietary(value)
	if !ok {
		return "", ErrUnknownDietary
	}
	w.update(func(s *State) bool {
		changed := s.Dietary != d
		s.Dietary = d
		return changed
	})
	return d, nil
}

// SetSearchTerm updates the term used by State.Filtered.
func (w *Workbench) SetSearchTerm(term string) {
	w.update(func(s *State) bool {
		changed := s.SearchTerm != term
		s.SearchTerm = term
		return changed
	})
}

// ToggleFilters flips filter panel visibility and returns the new value.
func (w *Workbench) ToggleFilters() bool {
	var shown bool
	w.update(func(s *State) bool {
		s.ShowFilters = !s.ShowFilters
		shown = s.ShowFilters
		return true
	})
	return shown
}

// ToggleFavorite flips the favourite flag on the recipe with the given id and
// returns a copy of the recipe as it is after the flip. found is false, and
// nothing changes, when no recipe matches.
func (w *Workbench) ToggleFavorite(id string) (recipe models.Recipe, found bool) {
	w.update(func(s *State) bool {
		i := models.FindRecipe(s.Recipes, id)
		if i < 0 {
			return false
		}
		s.Recipes[i].IsFavorite = !s.Recipes[i].IsFavorite
		recipe, found = s.Recipes[i].Clone(), true
		return true
	})
	return recipe, found
}

// Recipe returns a copy of the recipe with the given id.
func (w *Workbench) Recipe(id string) (models.Recipe, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := models.FindRecipe(w.state.Recipes, id)
	if i < 0 {
		return models.Recipe{}, false
	}
	return w.state.Recipes[i].Clone(), true
}

// Generate fabricates two recipes from the current ingredients and
// selections after the configured delay and prepends them to the collection.
// It does nothing when the ingredient list is empty. If ctx is cancelled or
// the workbench is closed during the delay the result is discarded.
func (w *Workbench) Generate(ctx context.Context) ([]models.Recipe, error) {
	w.mu.Lock()
	switch {
	case w.closed:
		w.mu.Unlock()
		return nil, ErrClosed
	case len(w.state.Ingredients) == 0:
		w.mu.Unlock()
		return nil, nil
	case w.state.Generating:
		w.mu.Unlock()
		return nil, ErrGenerating
	}
	ingredients := slices.Clone(w.state.Ingredients)
	cuisine, dietary := w.state.Cuisine, w.state.Dietary
	w.state.Generating = true
	subs, snap := w.subscribersLocked(), w.snapshotLocked()
	w.mu.Unlock()
	notify(subs, snap)

	if err := w.wait(ctx); err != nil {
		w.log.Debug("generation discarded", zap.Error(err))
		w.apply(true, func(s *State) bool {
			s.Generating = false
			return true
		})
		return nil, err
	}

	var recipes []models.Recipe
	w.apply(true, func(s *State) bool {
		s.Generating = false
		if w.closed {
			return true
		}
		recipes = w.gen.Generate(ingredients, cuisine, dietary)
		s.Recipes = append(slices.Clone(recipes), s.Recipes...)
		return true
	})
	if recipes == nil {
		return nil, ErrClosed
	}

	w.log.Debug("recipes generated",
		zap.Int("count", len(recipes)),
		zap.Strings("ingredients", ingredients),
		zap.String("cuisine", string(cuisine)),
		zap.String("dietary", string(dietary)))

	out := make([]models.Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out, nil
}

// Close tears the workbench down. A pending generation is discarded and
// subscribers are dropped. Close is idempotent.
func (w *Workbench) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.done)
	clear(w.subs)
}

// Closed reports whether Close has been called.
func (w *Workbench) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Workbench) wait(ctx context.Context) error {
	if w.delay <= 0 {
		select {
		case <-w.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(w.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// update applies fn under the lock and notifies subscribers when fn reports
// a change. Mutations after Close are ignored.
func (w *Workbench) update(fn func(s *State) bool) {
	w.apply(false, fn)
}

// apply is update with an escape hatch for generation bookkeeping, which must
// still clear the in-flight flag after Close.
func (w *Workbench) apply(afterClose bool, fn func(s *State) bool) {
	w.mu.Lock()
	if w.closed && !afterClose {
		w.mu.Unlock()
		return
	}
	if !fn(&w.state) {
		w.mu.Unlock()
		return
	}
	subs, snap := w.subscribersLocked(), w.snapshotLocked()
	w.mu.Unlock()
	notify(subs, snap)
}

func (w *Workbench) subscribersLocked() []func(State) {
	if len(w.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(w.subs))
	for id := range w.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(State), 0, len(ids))
	for _, id := range ids {
		out = append(out, w.subs[id])
	}
	return out
}

func (w *Workbench) snapshotLocked() State {
	s := w.state
	s.Ingredients = slices.Clone(w.state.Ingredients)
	s.Recipes = make([]models.Recipe, len(w.state.Recipes))
	for i, r := range w.state.Recipes {
		s.Recipes[i] = r.Clone()
	}
	return s
}

func notify(subs []func(State), s State) {
	for _, fn := range subs {
		fn(s)
	}
}
