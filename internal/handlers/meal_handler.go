package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mealplanner/internal/meal"
)

// MealHandler handles meal-related HTTP requests.
type MealHandler struct {
	repo   *meal.Repository
	logger *zap.Logger
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(repo *meal.Repository, logger *zap.Logger) *MealHandler {
	return &MealHandler{
		repo:   repo,
		logger: logger,
	}
}

type mealPayload struct {
	Name     string `json:"name"`
	RecipeID *int64 `json:"recipe_id"`
	Notes    string `json:"notes"`
}

func (p *mealPayload) validate() string {
	if strings.TrimSpace(p.Name) == "" {
		return "name is required"
	}
	if p.RecipeID != nil && *p.RecipeID <= 0 {
		return "recipe_id must be a positive id"
	}
	return ""
}

// List handles GET /api/meals
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	meals, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list meals", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if meals == nil {
		meals = []meal.Meal{}
	}
	respondJSON(w, http.StatusOK, meals)
}

// Create handles POST /api/meals
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload mealPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	m := &meal.Meal{
		Name:     strings.TrimSpace(payload.Name),
		RecipeID: payload.RecipeID,
		Notes:    payload.Notes,
	}

	if err := h.repo.Create(r.Context(), m); err != nil {
		if errors.Is(err, meal.ErrRecipeNotFound) {
			respondError(w, http.StatusBadRequest, "Referenced recipe not found")
			return
		}
		h.logger.Error("failed to create meal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

// Get handles GET /api/meals/{mealID}
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "mealID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	m, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, meal.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Meal not found")
			return
		}
		h.logger.Error("failed to get meal", zap.Int64("mealID", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, m)
}

// Update handles PUT /api/meals/{mealID}
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "mealID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	var payload mealPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	m := &meal.Meal{
		ID:       id,
		Name:     strings.TrimSpace(payload.Name),
		RecipeID: payload.RecipeID,
		Notes:    payload.Notes,
	}

	if err := h.repo.Update(r.Context(), m); err != nil {
		switch {
		case errors.Is(err, meal.ErrNotFound):
			respondError(w, http.StatusNotFound, "Meal not found")
		case errors.Is(err, meal.ErrRecipeNotFound):
			respondError(w, http.StatusBadRequest, "Referenced recipe not found")
		default:
			h.logger.Error("failed to update meal", zap.Int64("mealID", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /api/meals/{mealID}
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "mealID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, meal.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Meal not found")
			return
		}
		h.logger.Error("failed to delete meal", zap.Int64("mealID", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
