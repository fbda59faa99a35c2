package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CookbookEntry는 사용자가 요리책에 저장한 레시피 사본입니다
type CookbookEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID   string             `bson:"user_id" json:"user_id"`
	Username string             `bson:"username" json:"username"`
	Recipe   Recipe             `bson:"recipe" json:"recipe"`
	SavedAt  time.Time          `bson:"saved_at" json:"saved_at"`
}

// NewCookbookEntry는 새로운 요리책 항목을 생성합니다
func NewCookbookEntry(userID, username string, recipe Recipe) *CookbookEntry {
	recipe = recipe.Clone()
	recipe.IsFavorite = false
	return &CookbookEntry{
		UserID:   userID,
		Username: username,
		Recipe:   recipe,
		SavedAt:  time.Now(),
	}
}
