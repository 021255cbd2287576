package meal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mealplanner/internal/recipe"
)

var (
	// ErrNotFound is returned when no meal exists with the given id.
	ErrNotFound = errors.New("meal not found")
	// ErrRecipeNotFound is returned when a meal references a recipe id
	// that does not exist.
	ErrRecipeNotFound = errors.New("referenced recipe not found")
)

// Repository is a database-backed repository for meals. Reads join the
// referenced recipe so callers get it in one round trip.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

const mealColumns = `
	m.id, m.name, m.recipe_id, m.notes, m.created_at,
	r.id, r.name, r.description, r.ingredients, r.instructions, r.prep_time_minutes, r.created_at, r.updated_at`

// Create inserts a new meal and fills in its id and creation timestamp.
func (r *Repository) Create(ctx context.Context, m *Meal) error {
	m.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO meals (name, recipe_id, notes, created_at)
		VALUES (?, ?, ?, ?)`,
		m.Name, nullableInt(m.RecipeID), m.Notes, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted meal id: %w", err)
	}
	m.ID = id
	return nil
}

// Get retrieves a meal by its id, with its recipe joined in.
func (r *Repository) Get(ctx context.Context, id int64) (*Meal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+mealColumns+`
		FROM meals m
		LEFT JOIN recipes r ON r.id = m.recipe_id
		WHERE m.id = ?`, id)

	m, err := scanMeal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return m, nil
}

// List retrieves all meals ordered by name, with recipes joined in.
// The result is materialized into a slice in a single pass so the plan
// generator never touches database cursors.
func (r *Repository) List(ctx context.Context) ([]Meal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+mealColumns+`
		FROM meals m
		LEFT JOIN recipes r ON r.id = m.recipe_id
		ORDER BY m.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}
	return meals, nil
}

// Update rewrites an existing meal's name, recipe reference and notes.
func (r *Repository) Update(ctx context.Context, m *Meal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE meals SET name = ?, recipe_id = ?, notes = ? WHERE id = ?`,
		m.Name, nullableInt(m.RecipeID), m.Notes, m.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to update meal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a meal.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(s scanner) (*Meal, error) {
	var (
		m        Meal
		recipeID sql.NullInt64

		rID           sql.NullInt64
		rName         sql.NullString
		rDescription  sql.NullString
		rIngredients  sql.NullString
		rInstructions sql.NullString
		rPrepTime     sql.NullInt64
		rCreatedAt    sql.NullTime
		rUpdatedAt    sql.NullTime
	)
	if err := s.Scan(
		&m.ID, &m.Name, &recipeID, &m.Notes, &m.CreatedAt,
		&rID, &rName, &rDescription, &rIngredients, &rInstructions, &rPrepTime, &rCreatedAt, &rUpdatedAt,
	); err != nil {
		return nil, err
	}

	if recipeID.Valid {
		m.RecipeID = &recipeID.Int64
	}
	if rID.Valid {
		rec := &recipe.Recipe{
			ID:           rID.Int64,
			Name:         rName.String,
			Description:  rDescription.String,
			Ingredients:  rIngredients.String,
			Instructions: rInstructions.String,
			CreatedAt:    rCreatedAt.Time,
			UpdatedAt:    rUpdatedAt.Time,
		}
		if rPrepTime.Valid {
			rec.PrepTimeMinutes = &rPrepTime.Int64
		}
		m.Recipe = rec
	}
	return &m, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
