package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mealplanner/internal/recipe"
)

// ErrNoRecipe is returned when a page contains nothing recognizable as
// a recipe.
var ErrNoRecipe = errors.New("no recipe found on page")

// RecipeSaver persists an extracted recipe.
type RecipeSaver interface {
	Create(ctx context.Context, rec *recipe.Recipe) error
}

// Clipper fetches a web page and extracts a recipe from it.
type Clipper struct {
	recipes RecipeSaver
	client  *http.Client
}

// ExtractedRecipe is the intermediate result of page extraction.
type ExtractedRecipe struct {
	Title           string
	Description     string
	Ingredients     []string
	Instructions    []string
	PrepTimeMinutes *int64
}

// NewClipper creates a new Clipper instance.
func NewClipper(recipes RecipeSaver) *Clipper {
	return &Clipper{
		recipes: recipes,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL, extracts the recipe, and saves it.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	extracted, err := Extract(doc)
	if err != nil {
		return nil, err
	}

	rec := &recipe.Recipe{
		Name:            extracted.Title,
		Description:     extracted.Description,
		Ingredients:     strings.Join(extracted.Ingredients, "\n"),
		Instructions:    strings.Join(extracted.Instructions, "\n"),
		PrepTimeMinutes: extracted.PrepTimeMinutes,
	}
	if rec.Description == "" {
		rec.Description = fmt.Sprintf("Imported from %s", url)
	}

	if err := c.recipes.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Clipper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// Extract pulls a recipe out of a parsed page. It prefers schema.org
// Recipe JSON-LD and falls back to microdata itemprops.
func Extract(doc *goquery.Document) (*ExtractedRecipe, error) {
	if rec, ok := extractJSONLD(doc); ok {
		return rec, nil
	}
	if rec, ok := extractMicrodata(doc); ok {
		return rec, nil
	}
	return nil, ErrNoRecipe
}

// jsonldNode covers the parts of a schema.org node the clipper reads.
type jsonldNode struct {
	Type               any             `json:"@type"`
	Graph              []jsonldNode    `json:"@graph"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	RecipeIngredient   []string        `json:"recipeIngredient"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
	PrepTime           string          `json:"prepTime"`
}

func extractJSONLD(doc *goquery.Document) (*ExtractedRecipe, bool) {
	var found *ExtractedRecipe

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		// Top-level may be a node, an array of nodes, or a @graph wrapper.
		var nodes []jsonldNode
		var single jsonldNode
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			nodes = append(nodes, single)
			nodes = append(nodes, single.Graph...)
		} else if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
			return true
		}

		for _, node := range nodes {
			if !isRecipeNode(node.Type) {
				continue
			}
			rec := &ExtractedRecipe{
				Title:           strings.TrimSpace(node.Name),
				Description:     strings.TrimSpace(node.Description),
				Ingredients:     node.RecipeIngredient,
				Instructions:    parseInstructions(node.RecipeInstructions),
				PrepTimeMinutes: parseISODuration(node.PrepTime),
			}
			if rec.Title != "" {
				found = rec
				return false
			}
		}
		return true
	})

	return found, found != nil
}

func isRecipeNode(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// parseInstructions accepts the common shapes of recipeInstructions: a
// plain string, a list of strings, or a list of HowToStep/HowToSection
// objects.
func parseInstructions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return splitLines(asString)
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err != nil {
		return nil
	}

	var steps []string
	for _, item := range asList {
		var step string
		if err := json.Unmarshal(item, &step); err == nil {
			steps = append(steps, strings.TrimSpace(step))
			continue
		}

		var obj struct {
			Text            string          `json:"text"`
			ItemListElement json.RawMessage `json:"itemListElement"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		if obj.Text != "" {
			steps = append(steps, strings.TrimSpace(obj.Text))
		} else if len(obj.ItemListElement) > 0 {
			steps = append(steps, parseInstructions(obj.ItemListElement)...)
		}
	}
	return steps
}

func extractMicrodata(doc *goquery.Document) (*ExtractedRecipe, bool) {
	rec := &ExtractedRecipe{}

	doc.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			rec.Ingredients = append(rec.Ingredients, text)
		}
	})
	if len(rec.Ingredients) == 0 {
		return nil, false
	}

	doc.Find(`[itemprop="recipeInstructions"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			rec.Instructions = append(rec.Instructions, splitLines(text)...)
		}
	})

	if name := strings.TrimSpace(doc.Find(`[itemprop="name"]`).First().Text()); name != "" {
		rec.Title = name
	} else if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		rec.Title = strings.TrimSpace(og)
	} else if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		rec.Title = h1
	} else {
		rec.Title = strings.TrimSpace(doc.Find("title").Text())
	}
	if rec.Title == "" {
		return nil, false
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		rec.Description = strings.TrimSpace(desc)
	}

	if prep, ok := doc.Find(`[itemprop="prepTime"]`).Attr("datetime"); ok {
		rec.PrepTimeMinutes = parseISODuration(prep)
	}

	return rec, true
}

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// parseISODuration converts a schema.org duration like "PT1H30M" to
// whole minutes. Unparseable values yield nil.
func parseISODuration(s string) *int64 {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || (m[1] == "" && m[2] == "") {
		return nil
	}

	var minutes int64
	if m[1] != "" {
		h, _ := strconv.ParseInt(m[1], 10, 64)
		minutes += h * 60
	}
	if m[2] != "" {
		mins, _ := strconv.ParseInt(m[2], 10, 64)
		minutes += mins
	}
	return &minutes
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
