package recipe

import (
	"strings"
	"time"
)

// Recipe is a stored recipe. Ingredients holds one item per line.
type Recipe struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Ingredients     string    `json:"ingredients"`
	Instructions    string    `json:"instructions"`
	PrepTimeMinutes *int64    `json:"prep_time_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IngredientLines splits the ingredients text into its non-empty lines.
func (r Recipe) IngredientLines() []string {
	var lines []string
	for _, line := range strings.Split(r.Ingredients, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
