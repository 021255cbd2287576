package telegram

import (
	"strings"
	"testing"
	"time"

	"mealplanner/internal/meal"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
)

func TestFormatPlanMarkdown(t *testing.T) {
	start := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	dinner := &meal.Meal{ID: 1, Name: "Dinner"}
	plan := []planner.PlanEntry{
		{Label: "Monday (2024-07-08)", Meal: dinner},
		{Label: "Tuesday (2024-07-09)"},
	}

	out := formatPlanMarkdown(start, plan)

	if !strings.Contains(out, "week of 2024-07-08") {
		t.Errorf("Expected week start in header, got: %s", out)
	}
	if !strings.Contains(out, "*Monday (2024-07-08)*: Dinner") {
		t.Errorf("Expected Monday line with meal, got: %s", out)
	}
	if !strings.Contains(out, "*Tuesday (2024-07-09)*: —") {
		t.Errorf("Expected Tuesday line with placeholder, got: %s", out)
	}
	if strings.Contains(out, "No meals stored yet") {
		t.Error("Did not expect empty-state hint when a meal is planned")
	}
}

func TestFormatPlanMarkdownEmpty(t *testing.T) {
	start := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	plan := []planner.PlanEntry{
		{Label: "Monday (2024-07-08)"},
	}

	out := formatPlanMarkdown(start, plan)

	if !strings.Contains(out, "No meals stored yet") {
		t.Errorf("Expected empty-state hint, got: %s", out)
	}
}

func TestFormatMealsMarkdown(t *testing.T) {
	meals := []meal.Meal{
		{Name: "Taco Night", Recipe: &recipe.Recipe{Name: "Tacos"}},
		{Name: "Leftovers"},
	}

	out := formatMealsMarkdown(meals)

	if !strings.Contains(out, "• Taco Night (Tacos)") {
		t.Errorf("Expected meal with recipe name, got: %s", out)
	}
	if !strings.Contains(out, "• Leftovers\n") {
		t.Errorf("Expected meal without recipe, got: %s", out)
	}

	if got := formatMealsMarkdown(nil); !strings.Contains(got, "No meals stored yet") {
		t.Errorf("Expected empty-state message, got: %s", got)
	}
}
