package planner

import (
	"fmt"
	"math/rand"
	"time"

	"mealplanner/internal/meal"
)

// planDays is the number of entries in a weekly plan.
const planDays = 7

// Picker selects one index uniformly at random from n candidates.
// It exists so tests can substitute a deterministic implementation for
// the process-global random source.
type Picker interface {
	Pick(n int) int
}

type randPicker struct{}

func (randPicker) Pick(n int) int { return rand.Intn(n) }

// NewPicker returns the production Picker backed by math/rand.
func NewPicker() Picker { return randPicker{} }

// PlanEntry is one day of a weekly plan: a display label and the meal
// scheduled for that day. A nil Meal means no meal was available.
type PlanEntry struct {
	Label string     `json:"label"`
	Meal  *meal.Meal `json:"meal,omitempty"`
}

// HasMeal reports whether a meal is scheduled for this entry.
func (e PlanEntry) HasMeal() bool { return e.Meal != nil }

// Generator produces weekly meal plans.
type Generator struct {
	picker Picker
}

// NewGenerator creates a Generator. A nil picker falls back to the
// production random picker.
func NewGenerator(p Picker) *Generator {
	if p == nil {
		p = randPicker{}
	}
	return &Generator{picker: p}
}

// WeeklyPlan builds a 7-entry plan starting at start, one entry per
// consecutive day. Each day's meal is drawn independently (with
// replacement) from the given meals; with no meals every entry is
// scheduled empty. The meals slice is only read.
func (g *Generator) WeeklyPlan(meals []meal.Meal, start time.Time) []PlanEntry {
	pool := make([]*meal.Meal, 0, len(meals))
	for i := range meals {
		pool = append(pool, &meals[i])
	}
	if len(pool) == 0 {
		// Singleton "no meal" pool keeps the draw below total.
		pool = []*meal.Meal{nil}
	}

	plan := make([]PlanEntry, 0, planDays)
	for i := 0; i < planDays; i++ {
		day := start.AddDate(0, 0, i)
		plan = append(plan, PlanEntry{
			Label: fmt.Sprintf("%s (%s)", day.Weekday(), day.Format(ISODate)),
			Meal:  pool[g.picker.Pick(len(pool))],
		})
	}
	return plan
}

// HasMeals reports whether any entry in the plan has a meal scheduled.
func HasMeals(plan []PlanEntry) bool {
	for _, e := range plan {
		if e.HasMeal() {
			return true
		}
	}
	return false
}
