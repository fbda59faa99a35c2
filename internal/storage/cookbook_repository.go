package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradykim7/recipebot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const cookbookCollection = "cookbook"

// ErrNotFound is returned when no cookbook entry matches
var ErrNotFound = errors.New("storage: cookbook entry not found")

// CookbookRepository handles persistence for saved recipes
type CookbookRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewCookbookRepository creates a new cookbook repository
func NewCookbookRepository(db *MongoDB, log *zap.Logger) *CookbookRepository {
	return newCookbookRepository(db.Collection(cookbookCollection), log)
}

func newCookbookRepository(coll *mongo.Collection, log *zap.Logger) *CookbookRepository {
	return &CookbookRepository{
		coll: coll,
		log:  log.Named("cookbook-repository"),
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *CookbookRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recipe.recipe_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "saved_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create cookbook indexes: %w", err)
	}
	return nil
}

// Save upserts a copy of recipe into the user's cookbook
func (r *CookbookRepository) Save(ctx context.Context, userID, username string, recipe models.Recipe) error {
	entry := models.NewCookbookEntry(userID, username, recipe)

	filter := bson.M{
		"user_id":          userID,
		"recipe.recipe_id": recipe.ID,
	}
	update := bson.M{
		"$set": bson.M{
			"username": entry.Username,
			"recipe":   entry.Recipe,
			"saved_at": entry.SavedAt,
		},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	r.log.Info("Recipe saved to cookbook",
		zap.String("user_id", userID),
		zap.String("recipe_id", recipe.ID))
	return nil
}

// List returns the user's cookbook, newest first
func (r *CookbookRepository) List(ctx context.Context, userID string) ([]models.CookbookEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find cookbook entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.CookbookEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode cookbook entries: %w", err)
	}
	return entries, nil
}

// Delete removes a recipe from the user's cookbook
func (r *CookbookRepository) Delete(ctx context.Context, userID, recipeID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{
		"user_id":          userID,
		"recipe.recipe_id": recipeID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cookbook entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
