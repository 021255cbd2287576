package meal

import (
	"time"

	"mealplanner/internal/recipe"
)

// Meal is a named dish a plan can schedule. It may reference a stored
// recipe; Recipe carries the joined record when one is set.
type Meal struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	RecipeID  *int64         `json:"recipe_id,omitempty"`
	Recipe    *recipe.Recipe `json:"recipe,omitempty"`
	Notes     string         `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
}
