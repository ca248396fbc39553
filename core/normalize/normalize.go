// ABOUTME: Converts raw extracted fields into the canonical RecipeDraft
// ABOUTME: Whitespace cleanup, duration conversion, and source metadata attachment

package normalize

import (
	"time"

	"recipe-importer-api/core/domain"
	"recipe-importer-api/core/extract"
	"recipe-importer-api/pkg/textutil"
)

// Recipe normalizes a raw extraction into a RecipeDraft: every string field
// is whitespace-normalized (empty becomes absent), list fields keep only
// non-empty entries, times convert to whole minutes, and source metadata is
// always attached.
func Recipe(raw *extract.RawRecipe, strategy, sourceURL, sourceDomain string) domain.RecipeDraft {
	if raw == nil {
		raw = &extract.RawRecipe{}
	}

	ingredients := textutil.CleanLines(raw.Ingredients)
	steps := textutil.CleanLines(raw.Steps)
	if ingredients == nil {
		ingredients = []string{}
	}
	if steps == nil {
		steps = []string{}
	}

	return domain.RecipeDraft{
		Title:            textutil.CollapseWhitespace(raw.Title),
		Ingredients:      ingredients,
		Steps:            steps,
		Servings:         textutil.CollapseWhitespace(raw.Servings),
		PrepTimeMinutes:  timeMinutes(raw.PrepTime),
		CookTimeMinutes:  timeMinutes(raw.CookTime),
		TotalTimeMinutes: timeMinutes(raw.TotalTime),
		ImageURL:         textutil.CollapseWhitespace(raw.ImageURL),
		Author:           textutil.CollapseWhitespace(raw.Author),
		Source: &domain.RecipeSource{
			URL:         sourceURL,
			Domain:      sourceDomain,
			Strategy:    strategy,
			RetrievedAt: time.Now().UTC(),
		},
	}
}

// timeMinutes converts a raw time value to minutes. An integer variant is
// taken as already-minutes; a string variant is parsed as an ISO-8601
// duration. Zero resolves to absent, not zero minutes.
func timeMinutes(value extract.TimeValue) int {
	if minutes, ok := value.AsMinutes(); ok {
		if minutes > 0 {
			return minutes
		}
		return 0
	}
	if iso, ok := value.AsISO(); ok {
		if minutes, ok := DurationToMinutes(iso); ok {
			return minutes
		}
	}
	return 0
}
