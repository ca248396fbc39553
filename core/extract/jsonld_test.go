package extract

import "testing"

const chiliGraphHTML = `<!doctype html>
<html><head>
<script type="application/ld+json">{invalid json</script>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebSite", "name": "Example Cooking"},
    {
      "@type": "Recipe",
      "name": "Test Chili",
      "recipeIngredient": ["1 lb beef", "1 onion"],
      "recipeInstructions": [
        {"@type": "HowToStep", "text": "Brown beef."},
        {"@type": "HowToStep", "text": "Add onion."}
      ],
      "recipeYield": "4 servings",
      "totalTime": "PT1H",
      "image": {"url": "https://example.com/chili.jpg"},
      "author": {"name": "Alex"}
    }
  ]
}
</script>
</head><body></body></html>`

func TestFromJSONLD_GraphExtraction(t *testing.T) {
	raw, err := FromJSONLD(chiliGraphHTML)
	if err != nil {
		t.Fatalf("FromJSONLD returned error: %v", err)
	}
	if raw == nil {
		t.Fatal("FromJSONLD returned nil, want a recipe")
	}
	if raw.Title != "Test Chili" {
		t.Errorf("Title = %q", raw.Title)
	}
	if len(raw.Ingredients) != 2 || raw.Ingredients[0] != "1 lb beef" || raw.Ingredients[1] != "1 onion" {
		t.Errorf("Ingredients = %v", raw.Ingredients)
	}
	if len(raw.Steps) != 2 || raw.Steps[0] != "Brown beef." {
		t.Errorf("Steps = %v", raw.Steps)
	}
	if raw.Servings != "4 servings" {
		t.Errorf("Servings = %q", raw.Servings)
	}
	if iso, ok := raw.TotalTime.AsISO(); !ok || iso != "PT1H" {
		t.Errorf("TotalTime = %v", raw.TotalTime)
	}
	if raw.ImageURL != "https://example.com/chili.jpg" {
		t.Errorf("ImageURL = %q", raw.ImageURL)
	}
	if raw.Author != "Alex" {
		t.Errorf("Author = %q", raw.Author)
	}
}

func TestFromJSONLD_TypeListAndCaseInsensitive(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": ["Article", "RECIPE"], "name": "Stew", "recipeInstructions": "Simmer."}
	</script>`

	raw, err := FromJSONLD(html)
	if err != nil {
		t.Fatalf("FromJSONLD returned error: %v", err)
	}
	if raw == nil || raw.Title != "Stew" {
		t.Fatalf("raw = %+v", raw)
	}
	if len(raw.Steps) != 1 || raw.Steps[0] != "Simmer." {
		t.Errorf("Steps = %v, want plain-string instructions", raw.Steps)
	}
}

func TestFromJSONLD_TopLevelList(t *testing.T) {
	html := `<script type="application/ld+json">
	[{"@type": "NewsArticle"}, {"@type": "Recipe", "name": "Soup"}]
	</script>`

	raw, err := FromJSONLD(html)
	if err != nil {
		t.Fatalf("FromJSONLD returned error: %v", err)
	}
	if raw == nil || raw.Title != "Soup" {
		t.Errorf("raw = %+v, want Soup", raw)
	}
}

func TestFromJSONLD_NoRecipe(t *testing.T) {
	html := `<script type="application/ld+json">{"@type": "WebSite"}</script>`

	raw, err := FromJSONLD(html)
	if err != nil {
		t.Fatalf("FromJSONLD returned error: %v", err)
	}
	if raw != nil {
		t.Errorf("raw = %+v, want nil", raw)
	}
}

func TestFromJSONLD_NumericTimes(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": "Recipe", "name": "Fast", "prepTime": 15}
	</script>`

	raw, err := FromJSONLD(html)
	if err != nil {
		t.Fatalf("FromJSONLD returned error: %v", err)
	}
	if minutes, ok := raw.PrepTime.AsMinutes(); !ok || minutes != 15 {
		t.Errorf("PrepTime = %v, want 15 minutes", raw.PrepTime)
	}
}

func TestFromJSONLD_ImageAndAuthorVariants(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantImage string
		wantAuth  string
	}{
		{
			"string image, list author",
			`<script type="application/ld+json">{"@type":"Recipe","name":"A","image":"https://img/1.jpg","author":["Pat"]}</script>`,
			"https://img/1.jpg",
			"Pat",
		},
		{
			"image list of objects, author object list",
			`<script type="application/ld+json">{"@type":"Recipe","name":"A","image":[{"url":"https://img/2.jpg"}],"author":[{"name":"Sam"}]}</script>`,
			"https://img/2.jpg",
			"Sam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := FromJSONLD(tt.html)
			if err != nil || raw == nil {
				t.Fatalf("FromJSONLD = %+v, %v", raw, err)
			}
			if raw.ImageURL != tt.wantImage {
				t.Errorf("ImageURL = %q, want %q", raw.ImageURL, tt.wantImage)
			}
			if raw.Author != tt.wantAuth {
				t.Errorf("Author = %q, want %q", raw.Author, tt.wantAuth)
			}
		})
	}
}

func TestFromJSONLD_GenericIngredientsKey(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": "Recipe", "name": "Old Markup", "ingredients": ["flour", "water"]}
	</script>`

	raw, err := FromJSONLD(html)
	if err != nil || raw == nil {
		t.Fatalf("FromJSONLD = %+v, %v", raw, err)
	}
	if len(raw.Ingredients) != 2 {
		t.Errorf("Ingredients = %v", raw.Ingredients)
	}
}
