package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"mealplanner/internal/recipe"
)

// --- Mocks ---

type MockRecipeSaver struct {
	Saved       *recipe.Recipe
	ShouldError bool
}

func (m *MockRecipeSaver) Create(ctx context.Context, rec *recipe.Recipe) error {
	if m.ShouldError {
		return fmt.Errorf("mock save error")
	}
	rec.ID = 42
	m.Saved = rec
	return nil
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc
}

// --- Tests ---

func TestExtractJSONLD(t *testing.T) {
	html := `
	<html><head>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Recipe",
		"name": "Lemon Pasta",
		"description": "Bright and quick.",
		"prepTime": "PT1H15M",
		"recipeIngredient": ["200g pasta", "1 lemon"],
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Boil the pasta."},
			{"@type": "HowToStep", "text": "Zest the lemon."}
		]
	}
	</script>
	</head><body><h1>Ignored</h1></body></html>`

	rec, err := Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if rec.Title != "Lemon Pasta" {
		t.Errorf("Expected title 'Lemon Pasta', got '%s'", rec.Title)
	}
	if rec.Description != "Bright and quick." {
		t.Errorf("Expected description 'Bright and quick.', got '%s'", rec.Description)
	}
	if len(rec.Ingredients) != 2 || rec.Ingredients[0] != "200g pasta" {
		t.Errorf("Unexpected ingredients: %v", rec.Ingredients)
	}
	if len(rec.Instructions) != 2 || rec.Instructions[1] != "Zest the lemon." {
		t.Errorf("Unexpected instructions: %v", rec.Instructions)
	}
	if rec.PrepTimeMinutes == nil || *rec.PrepTimeMinutes != 75 {
		t.Errorf("Expected prep time 75 minutes, got %v", rec.PrepTimeMinutes)
	}
}

func TestExtractJSONLDGraph(t *testing.T) {
	html := `
	<html><head>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Food Blog"},
			{"@type": ["Recipe", "Thing"], "name": "Chili", "recipeIngredient": ["beans"], "recipeInstructions": "Simmer."}
		]
	}
	</script>
	</head><body></body></html>`

	rec, err := Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if rec.Title != "Chili" {
		t.Errorf("Expected title 'Chili', got '%s'", rec.Title)
	}
	if len(rec.Instructions) != 1 || rec.Instructions[0] != "Simmer." {
		t.Errorf("Unexpected instructions: %v", rec.Instructions)
	}
}

func TestExtractMicrodataFallback(t *testing.T) {
	html := `
	<html><head><title>Grandma's Soup | Food Blog</title></head>
	<body itemscope itemtype="https://schema.org/Recipe">
		<h1 itemprop="name">Grandma's Soup</h1>
		<ul>
			<li itemprop="recipeIngredient">1 onion</li>
			<li itemprop="recipeIngredient">2 carrots</li>
		</ul>
		<div itemprop="recipeInstructions">Chop everything. Simmer for an hour.</div>
	</body></html>`

	rec, err := Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if rec.Title != "Grandma's Soup" {
		t.Errorf("Expected title 'Grandma's Soup', got '%s'", rec.Title)
	}
	if len(rec.Ingredients) != 2 || rec.Ingredients[1] != "2 carrots" {
		t.Errorf("Unexpected ingredients: %v", rec.Ingredients)
	}
}

func TestExtractNoRecipe(t *testing.T) {
	html := `<html><body><h1>Just a blog post</h1><p>No recipe here.</p></body></html>`

	if _, err := Extract(docFromHTML(t, html)); err != ErrNoRecipe {
		t.Errorf("Expected ErrNoRecipe, got %v", err)
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want *int64
	}{
		{"PT30M", int64Ptr(30)},
		{"PT1H", int64Ptr(60)},
		{"PT1H30M", int64Ptr(90)},
		{"", nil},
		{"30 minutes", nil},
		{"PT", nil},
	}
	for _, tc := range tests {
		got := parseISODuration(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("parseISODuration(%q): expected nil, got %d", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("parseISODuration(%q): expected %d, got %v", tc.in, *tc.want, got)
		}
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestClipURL_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
		<html><head><script type="application/ld+json">
		{"@type": "Recipe", "name": "Mock Pie", "recipeIngredient": ["Apple"], "recipeInstructions": "Bake.", "prepTime": "PT1H"}
		</script></head><body></body></html>`))
	}))
	defer ts.Close()

	saver := &MockRecipeSaver{}
	c := NewClipper(saver)

	rec, err := c.ClipURL(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	if rec.Name != "Mock Pie" {
		t.Errorf("Expected name 'Mock Pie', got '%s'", rec.Name)
	}
	if saver.Saved == nil {
		t.Fatal("Expected recipe to be saved")
	}
	if !strings.Contains(saver.Saved.Ingredients, "Apple") {
		t.Error("Expected saved ingredients to contain 'Apple'")
	}
	if rec.PrepTimeMinutes == nil || *rec.PrepTimeMinutes != 60 {
		t.Errorf("Expected prep time 60, got %v", rec.PrepTimeMinutes)
	}
	if !strings.Contains(rec.Description, "Imported from") {
		t.Errorf("Expected fallback description, got '%s'", rec.Description)
	}
}

func TestClipURL_FetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClipper(&MockRecipeSaver{})
	if _, err := c.ClipURL(context.Background(), ts.URL); err == nil {
		t.Fatal("Expected an error for a 404 page, got nil")
	}
}
