package meal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"mealplanner/internal/database"
	"mealplanner/internal/recipe"
)

func newTestRepos(t *testing.T) (*Repository, *recipe.Repository) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.SQL), recipe.NewRepository(db.SQL)
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	meals, recipes := newTestRepos(t)

	rec := &recipe.Recipe{Name: "Tacos", Ingredients: "tortilla\nbeef", Instructions: "Cook and serve"}
	if err := recipes.Create(ctx, rec); err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	m := &Meal{Name: "Dinner", RecipeID: &rec.ID, Notes: "Tuesday favourite"}

	t.Run("Create", func(t *testing.T) {
		if err := meals.Create(ctx, m); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if m.ID == 0 {
			t.Error("Expected a non-zero id after create")
		}
	})

	t.Run("Create-UnknownRecipe", func(t *testing.T) {
		badID := int64(9999)
		bad := &Meal{Name: "Orphan", RecipeID: &badID}
		if err := meals.Create(ctx, bad); !errors.Is(err, ErrRecipeNotFound) {
			t.Errorf("Expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("Get-JoinsRecipe", func(t *testing.T) {
		got, err := meals.Get(ctx, m.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name != "Dinner" {
			t.Errorf("Expected name 'Dinner', got '%s'", got.Name)
		}
		if got.Recipe == nil {
			t.Fatal("Expected joined recipe, got nil")
		}
		if got.Recipe.Name != "Tacos" {
			t.Errorf("Expected recipe 'Tacos', got '%s'", got.Recipe.Name)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := meals.Create(ctx, &Meal{Name: "Breakfast"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		all, err := meals.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("Expected 2 meals, got %d", len(all))
		}
		// Ordered by name
		if all[0].Name != "Breakfast" || all[1].Name != "Dinner" {
			t.Errorf("Expected name ordering [Breakfast, Dinner], got [%s, %s]", all[0].Name, all[1].Name)
		}
		if all[0].Recipe != nil {
			t.Error("Expected meal without recipe to have nil Recipe")
		}
		if all[1].Recipe == nil {
			t.Error("Expected meal with recipe to have joined Recipe")
		}
	})

	t.Run("Update", func(t *testing.T) {
		m.Name = "Taco Night"
		m.RecipeID = nil
		if err := meals.Update(ctx, m); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := meals.Get(ctx, m.ID)
		if err != nil {
			t.Fatalf("Get after update failed: %v", err)
		}
		if got.Name != "Taco Night" {
			t.Errorf("Expected name 'Taco Night', got '%s'", got.Name)
		}
		if got.RecipeID != nil || got.Recipe != nil {
			t.Error("Expected recipe reference cleared after update")
		}
	})

	t.Run("DeletedRecipeClearsReference", func(t *testing.T) {
		linked := &Meal{Name: "Leftovers", RecipeID: &rec.ID}
		if err := meals.Create(ctx, linked); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := recipes.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Recipe delete failed: %v", err)
		}

		got, err := meals.Get(ctx, linked.ID)
		if err != nil {
			t.Fatalf("Get after recipe delete failed: %v", err)
		}
		if got.RecipeID != nil {
			t.Error("Expected recipe_id cleared after recipe delete")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := meals.Delete(ctx, m.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := meals.Get(ctx, m.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}
