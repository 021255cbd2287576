package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no recipe exists with the given id.
	ErrNotFound = errors.New("recipe not found")
	// ErrDuplicateName is returned when a recipe name is already taken.
	ErrDuplicateName = errors.New("recipe name already exists")
)

// Repository is a database-backed repository for recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create inserts a new recipe and fills in its id and timestamps.
func (r *Repository) Create(ctx context.Context, rec *Recipe) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes (name, description, ingredients, instructions, prep_time_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Description, rec.Ingredients, rec.Instructions, nullableInt(rec.PrepTimeMinutes), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted recipe id: %w", err)
	}
	rec.ID = id
	return nil
}

// Get retrieves a recipe by its id.
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, ingredients, instructions, prep_time_minutes, created_at, updated_at
		FROM recipes WHERE id = ?`, id)

	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

// List retrieves all recipes ordered by name.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, ingredients, instructions, prep_time_minutes, created_at, updated_at
		FROM recipes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	return recipes, nil
}

// Update rewrites an existing recipe and bumps its updated_at timestamp.
func (r *Repository) Update(ctx context.Context, rec *Recipe) error {
	rec.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE recipes
		SET name = ?, description = ?, ingredients = ?, instructions = ?, prep_time_minutes = ?, updated_at = ?
		WHERE id = ?`,
		rec.Name, rec.Description, rec.Ingredients, rec.Instructions, nullableInt(rec.PrepTimeMinutes), rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update recipe: %w", err)
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

// Delete removes a recipe. Meals referencing it keep existing with a
// cleared recipe reference (ON DELETE SET NULL).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
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

func scanRecipe(s scanner) (*Recipe, error) {
	var (
		rec      Recipe
		prepTime sql.NullInt64
	)
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Ingredients, &rec.Instructions, &prepTime, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if prepTime.Valid {
		rec.PrepTimeMinutes = &prepTime.Int64
	}
	return &rec, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
