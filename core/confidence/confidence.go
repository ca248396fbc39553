// ABOUTME: Confidence scoring for extracted recipe drafts
// ABOUTME: Per-strategy base scores plus completeness bonuses and junk penalties

package confidence

import (
	"strings"

	"recipe-importer-api/core/domain"
	"recipe-importer-api/core/extract"
)

// Warning codes attached to parse responses.
const (
	WarnMissingIngredients   = "MISSING_INGREDIENTS"
	WarnMissingSteps         = "MISSING_STEPS"
	WarnJSRenderingSuspected = "JS_RENDERING_REQUIRED_SUSPECTED"
	WarnHeuristicUsed        = "HEURISTIC_EXTRACTION_USED"
	WarnLowConfidence        = "LOW_CONFIDENCE"
	WarnNoRecipeSchema       = "NO_RECIPE_SCHEMA_FOUND"
)

// LowConfidenceThreshold is the score below which results carry a warning.
const LowConfidenceThreshold = 0.65

var baseScores = map[string]float64{
	extract.StrategyJSONLD:            0.65,
	extract.StrategyMicrodata:         0.55,
	extract.StrategyHeuristic:         0.35,
	extract.StrategyHeadlessJSONLD:    0.60,
	extract.StrategyHeadlessHeuristic: 0.40,
}

// paywallPhrases flag content that is likely a login or JS wall rather than
// a recipe.
var paywallPhrases = []string{"subscribe", "sign in", "enable javascript"}

// Score produces a [0,1] confidence for a normalized draft, plus warnings
// and the list of empty core fields.
func Score(recipe domain.RecipeDraft, strategy string) (float64, []string, []string) {
	score := baseScores[strategy]

	if len(recipe.Ingredients) >= 3 {
		score += 0.10
	}
	if len(recipe.Steps) >= 2 {
		score += 0.10
	}
	if recipe.Title != "" {
		score += 0.05
	}

	metaBonus := 0.0
	if recipe.ImageURL != "" {
		metaBonus += 0.02
	}
	if recipe.Servings != "" {
		metaBonus += 0.02
	}
	if recipe.PrepTimeMinutes > 0 {
		metaBonus += 0.02
	}
	if recipe.CookTimeMinutes > 0 {
		metaBonus += 0.02
	}
	if recipe.TotalTimeMinutes > 0 {
		metaBonus += 0.02
	}
	if metaBonus > 0.10 {
		metaBonus = 0.10
	}
	score += metaBonus

	// Junk-list heuristic: absurdly long lists are usually nav or comments.
	if len(recipe.Ingredients) > 60 {
		score -= 0.10
	}
	if len(recipe.Steps) > 50 {
		score -= 0.10
	}

	blob := strings.ToLower(strings.Join(append(append([]string{}, recipe.Ingredients...), recipe.Steps...), " "))
	for _, phrase := range paywallPhrases {
		if strings.Contains(blob, phrase) {
			score -= 0.15
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	var missingFields []string
	if recipe.Title == "" {
		missingFields = append(missingFields, "title")
	}
	if len(recipe.Ingredients) == 0 {
		missingFields = append(missingFields, "ingredients")
	}
	if len(recipe.Steps) == 0 {
		missingFields = append(missingFields, "steps")
	}

	var warnings []string
	if len(recipe.Ingredients) == 0 {
		warnings = append(warnings, WarnMissingIngredients)
	}
	if len(recipe.Steps) == 0 {
		warnings = append(warnings, WarnMissingSteps)
	}
	if strings.HasPrefix(strategy, "headless") {
		warnings = append(warnings, WarnJSRenderingSuspected)
	}
	if strategy == extract.StrategyHeuristic || strategy == extract.StrategyHeadlessHeuristic {
		warnings = append(warnings, WarnHeuristicUsed)
	}
	if score < LowConfidenceThreshold {
		warnings = append(warnings, WarnLowConfidence)
	}

	return score, warnings, missingFields
}
