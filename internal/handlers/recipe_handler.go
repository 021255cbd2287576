package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mealplanner/internal/clipper"
	"mealplanner/internal/recipe"
)

// RecipeHandler handles recipe-related HTTP requests.
type RecipeHandler struct {
	repo    *recipe.Repository
	clipper *clipper.Clipper
	logger  *zap.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(repo *recipe.Repository, clip *clipper.Clipper, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		repo:    repo,
		clipper: clip,
		logger:  logger,
	}
}

type recipePayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Ingredients     string `json:"ingredients"`
	Instructions    string `json:"instructions"`
	PrepTimeMinutes *int64 `json:"prep_time_minutes"`
}

func (p *recipePayload) validate() string {
	if strings.TrimSpace(p.Name) == "" {
		return "name is required"
	}
	if p.PrepTimeMinutes != nil && *p.PrepTimeMinutes < 0 {
		return "prep_time_minutes must not be negative"
	}
	return ""
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list recipes", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	respondJSON(w, http.StatusOK, recipes)
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload recipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	rec := &recipe.Recipe{
		Name:            strings.TrimSpace(payload.Name),
		Description:     payload.Description,
		Ingredients:     payload.Ingredients,
		Instructions:    payload.Instructions,
		PrepTimeMinutes: payload.PrepTimeMinutes,
	}

	if err := h.repo.Create(r.Context(), rec); err != nil {
		if errors.Is(err, recipe.ErrDuplicateName) {
			respondError(w, http.StatusConflict, "Recipe name already exists")
			return
		}
		h.logger.Error("failed to create recipe", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// Get handles GET /api/recipes/{recipeID}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "recipeID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		h.logger.Error("failed to get recipe", zap.Int64("recipeID", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// Update handles PUT /api/recipes/{recipeID}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "recipeID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	var payload recipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	rec := &recipe.Recipe{
		ID:              id,
		Name:            strings.TrimSpace(payload.Name),
		Description:     payload.Description,
		Ingredients:     payload.Ingredients,
		Instructions:    payload.Instructions,
		PrepTimeMinutes: payload.PrepTimeMinutes,
	}

	if err := h.repo.Update(r.Context(), rec); err != nil {
		switch {
		case errors.Is(err, recipe.ErrNotFound):
			respondError(w, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, recipe.ErrDuplicateName):
			respondError(w, http.StatusConflict, "Recipe name already exists")
		default:
			h.logger.Error("failed to update recipe", zap.Int64("recipeID", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/recipes/{recipeID}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "recipeID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		h.logger.Error("failed to delete recipe", zap.Int64("recipeID", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/recipes/import
func (h *RecipeHandler) Import(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !strings.HasPrefix(payload.URL, "http://") && !strings.HasPrefix(payload.URL, "https://") {
		respondError(w, http.StatusBadRequest, "url must be an http(s) address")
		return
	}

	rec, err := h.clipper.ClipURL(r.Context(), payload.URL)
	if err != nil {
		switch {
		case errors.Is(err, recipe.ErrDuplicateName):
			respondError(w, http.StatusConflict, "Recipe name already exists")
		case errors.Is(err, clipper.ErrNoRecipe):
			respondError(w, http.StatusUnprocessableEntity, "No recipe found on page")
		default:
			h.logger.Warn("failed to import recipe", zap.String("url", payload.URL), zap.Error(err))
			respondError(w, http.StatusUnprocessableEntity, "Could not fetch or parse the page")
		}
		return
	}

	h.logger.Info("imported recipe", zap.String("url", payload.URL), zap.String("name", rec.Name))
	respondJSON(w, http.StatusCreated, rec)
}
