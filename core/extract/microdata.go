// ABOUTME: Microdata extraction strategy
// ABOUTME: Reads schema.org/Recipe itemscope blocks via itemprop attributes

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recipe-importer-api/pkg/textutil"
)

// FromMicrodata scans for elements carrying both itemscope and an itemtype
// containing "schema.org/recipe" (case-insensitive) and decodes the first
// match. Returns nil when no such block exists.
func FromMicrodata(html string) (*RawRecipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var result *RawRecipe
	doc.Find("[itemscope][itemtype]").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		itemtype := strings.ToLower(candidate.AttrOr("itemtype", ""))
		if !strings.Contains(itemtype, "schema.org/recipe") {
			return true
		}
		result = decodeMicrodataNode(candidate)
		return false
	})

	return result, nil
}

func decodeMicrodataNode(candidate *goquery.Selection) *RawRecipe {
	raw := &RawRecipe{
		Title:    itempropText(candidate, "name"),
		Servings: itempropText(candidate, "recipeYield"),
		Author:   itempropText(candidate, "author"),
	}

	candidate.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, el *goquery.Selection) {
		if text := textutil.CollapseWhitespace(el.Text()); text != "" {
			raw.Ingredients = append(raw.Ingredients, text)
		}
	})
	candidate.Find(`[itemprop="recipeInstructions"]`).Each(func(_ int, el *goquery.Selection) {
		if text := textutil.CollapseWhitespace(el.Text()); text != "" {
			raw.Steps = append(raw.Steps, text)
		}
	})

	raw.PrepTime = itempropDuration(candidate, "prepTime")
	raw.CookTime = itempropDuration(candidate, "cookTime")
	raw.TotalTime = itempropDuration(candidate, "totalTime")

	if image := candidate.Find(`[itemprop="image"]`).First(); image.Length() > 0 {
		imageURL := image.AttrOr("content", "")
		if imageURL == "" {
			imageURL = image.AttrOr("src", "")
		}
		raw.ImageURL = textutil.CollapseWhitespace(imageURL)
	}

	return raw
}

// itempropText returns the visible text of the first descendant with the
// given itemprop value.
func itempropText(candidate *goquery.Selection, prop string) string {
	el := candidate.Find(`[itemprop="` + prop + `"]`).First()
	if el.Length() == 0 {
		return ""
	}
	return textutil.CollapseWhitespace(el.Text())
}

// itempropDuration reads a time itemprop, preferring the machine-readable
// content attribute, which carries an ISO-8601 duration.
func itempropDuration(candidate *goquery.Selection, prop string) TimeValue {
	el := candidate.Find(`[itemprop="` + prop + `"]`).First()
	if el.Length() == 0 {
		return NoTime()
	}
	if content := el.AttrOr("content", ""); content != "" {
		return ISOValue(content)
	}
	return NoTime()
}
