package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mealplanner/internal/meal"
	"mealplanner/internal/planner"
)

// PlanHandler handles weekly plan HTTP requests.
type PlanHandler struct {
	meals  *meal.Repository
	plans  *planner.PlanRepository
	gen    *planner.Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewPlanHandler creates a new plan handler. now is injectable for
// tests; nil means time.Now.
func NewPlanHandler(meals *meal.Repository, plans *planner.PlanRepository, gen *planner.Generator, logger *zap.Logger, now func() time.Time) *PlanHandler {
	if now == nil {
		now = time.Now
	}
	return &PlanHandler{
		meals:  meals,
		plans:  plans,
		gen:    gen,
		logger: logger,
		now:    now,
	}
}

// weeklyPlanResponse echoes the resolved start date alongside the plan.
type weeklyPlanResponse struct {
	Start    string              `json:"start"`
	HasMeals bool                `json:"has_meals"`
	Plan     []planner.PlanEntry `json:"plan"`
}

// generate runs the resolve-fetch-generate pipeline shared by the JSON
// and calendar endpoints.
func (h *PlanHandler) generate(r *http.Request) (time.Time, []planner.PlanEntry, error) {
	start := planner.ParseWeekStart(r.URL.Query().Get("start"), h.now())

	meals, err := h.meals.List(r.Context())
	if err != nil {
		return time.Time{}, nil, err
	}

	plan := h.gen.WeeklyPlan(meals, start)

	// Plan history is best-effort; a failed save never blocks the response.
	if planJSON, err := json.Marshal(plan); err != nil {
		h.logger.Warn("failed to marshal plan for history", zap.Error(err))
	} else if err := h.plans.Save(r.Context(), start, planJSON); err != nil {
		h.logger.Warn("failed to save plan to history", zap.Error(err))
	}

	return start, plan, nil
}

// Weekly handles GET /api/plan/weekly
func (h *PlanHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	start, plan, err := h.generate(r)
	if err != nil {
		h.logger.Error("failed to generate weekly plan", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, weeklyPlanResponse{
		Start:    start.Format(planner.ISODate),
		HasMeals: planner.HasMeals(plan),
		Plan:     plan,
	})
}

// Calendar handles GET /api/plan/weekly/calendar
func (h *PlanHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	start, plan, err := h.generate(r)
	if err != nil {
		h.logger.Error("failed to generate weekly plan", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writePlanICS(w, start, plan)
}

// History handles GET /api/plan/history
func (h *PlanHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	stored, err := h.plans.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list plan history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	type historyEntry struct {
		ID        int64               `json:"id"`
		WeekStart string              `json:"week_start"`
		Plan      []planner.PlanEntry `json:"plan"`
		CreatedAt time.Time           `json:"created_at"`
	}

	entries := make([]historyEntry, 0, len(stored))
	for _, p := range stored {
		var plan []planner.PlanEntry
		if err := json.Unmarshal(p.PlanData, &plan); err != nil {
			h.logger.Warn("skipping corrupted stored plan", zap.Int64("planID", p.ID), zap.Error(err))
			continue
		}
		entries = append(entries, historyEntry{
			ID:        p.ID,
			WeekStart: p.WeekStart.Format(planner.ISODate),
			Plan:      plan,
			CreatedAt: p.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, entries)
}
