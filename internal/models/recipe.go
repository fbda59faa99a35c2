package models

// Difficulty는 레시피 난이도를 나타냅니다
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Recipe는 템플릿에서 생성된 레시피를 나타냅니다
type Recipe struct {
	ID           string     `bson:"recipe_id" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Ingredients  []string   `bson:"ingredients" json:"ingredients"`
	Instructions []string   `bson:"instructions" json:"instructions"`
	CookingTime  int        `bson:"cooking_time" json:"cookingTime"`
	Servings     int        `bson:"servings" json:"servings"`
	Difficulty   Difficulty `bson:"difficulty" json:"difficulty"`
	Cuisine      string     `bson:"cuisine" json:"cuisine"`
	Dietary      []string   `bson:"dietary" json:"dietary"`
	IsFavorite   bool       `bson:"is_favorite" json:"isFavorite"`
}

// Clone은 슬라이스까지 복사한 레시피를 반환합니다
func (r Recipe) Clone() Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.Instructions = append([]string(nil), r.Instructions...)
	r.Dietary = append([]string{}, r.Dietary...)
	return r
}

// FindRecipe returns the index of the recipe with the given id, or -1.
func FindRecipe(recipes []Recipe, id string) int {
	for i := range recipes {
		if recipes[i].ID == id {
			return i
		}
	}
	return -1
}
