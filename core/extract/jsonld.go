// ABOUTME: Structured-data (JSON-LD) extraction strategy
// ABOUTME: Scans ld+json script blocks for schema.org Recipe nodes, flattening @graph arrays

package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recipe-importer-api/pkg/textutil"
)

// FromJSONLD scans every <script type="application/ld+json"> block for a
// schema.org Recipe node and decodes the first one found. Blocks that fail
// to parse as JSON are skipped. Returns nil when no Recipe node exists.
func FromJSONLD(html string) (*RawRecipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var result *RawRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var payload interface{}
		if err := json.Unmarshal([]byte(script.Text()), &payload); err != nil {
			return true
		}
		nodes := collectRecipeNodes(payload)
		if len(nodes) == 0 {
			return true
		}
		result = decodeRecipeNode(nodes[0])
		return false
	})

	return result, nil
}

// collectRecipeNodes walks parsed JSON depth first, descending into arrays
// and @graph members, and gathers every node typed as a Recipe. The input is
// parsed JSON so the structure is always acyclic.
func collectRecipeNodes(payload interface{}) []map[string]interface{} {
	var nodes []map[string]interface{}

	switch value := payload.(type) {
	case []interface{}:
		for _, item := range value {
			nodes = append(nodes, collectRecipeNodes(item)...)
		}
	case map[string]interface{}:
		if hasRecipeType(value) {
			nodes = append(nodes, value)
		}
		if graph, ok := value["@graph"].([]interface{}); ok {
			for _, entry := range graph {
				nodes = append(nodes, collectRecipeNodes(entry)...)
			}
		}
	}

	return nodes
}

// hasRecipeType matches @type (or type) equal to "Recipe", case-insensitive,
// whether given as a string or a list.
func hasRecipeType(node map[string]interface{}) bool {
	typeField, ok := node["@type"]
	if !ok {
		typeField = node["type"]
	}

	switch value := typeField.(type) {
	case string:
		return strings.EqualFold(value, "recipe")
	case []interface{}:
		for _, entry := range value {
			if text, ok := entry.(string); ok && strings.EqualFold(text, "recipe") {
				return true
			}
		}
	}
	return false
}

func decodeRecipeNode(node map[string]interface{}) *RawRecipe {
	ingredients := node["recipeIngredient"]
	if ingredients == nil {
		ingredients = node["ingredients"]
	}

	return &RawRecipe{
		Title:       textutil.CollapseWhitespace(decodeString(node["name"])),
		Ingredients: decodeStringList(ingredients),
		Steps:       decodeInstructions(node["recipeInstructions"]),
		Servings:    decodeString(node["recipeYield"]),
		PrepTime:    decodeTime(node["prepTime"]),
		CookTime:    decodeTime(node["cookTime"]),
		TotalTime:   decodeTime(node["totalTime"]),
		ImageURL:    decodeImage(node["image"]),
		Author:      decodeAuthor(node["author"]),
	}
}

// decodeString returns the value if it is a JSON string, else empty.
func decodeString(value interface{}) string {
	text, _ := value.(string)
	return text
}

func decodeStringList(value interface{}) []string {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var items []string
	for _, entry := range list {
		if text, ok := entry.(string); ok {
			items = append(items, text)
		}
	}
	return items
}

// decodeInstructions flattens any of the instruction shapes in the wild into
// a list of step strings: a plain string, a list of strings, a list of
// HowToStep objects with a text field, or a single step object.
func decodeInstructions(value interface{}) []string {
	switch instructions := value.(type) {
	case string:
		return []string{instructions}
	case []interface{}:
		var steps []string
		for _, entry := range instructions {
			switch step := entry.(type) {
			case string:
				steps = append(steps, step)
			case map[string]interface{}:
				if text, ok := step["text"].(string); ok {
					steps = append(steps, text)
				}
			}
		}
		return steps
	case map[string]interface{}:
		if text, ok := instructions["text"].(string); ok {
			return []string{text}
		}
	}
	return nil
}

// decodeTime accepts an ISO-8601 duration string or a plain number of minutes.
func decodeTime(value interface{}) TimeValue {
	switch t := value.(type) {
	case string:
		if t != "" {
			return ISOValue(t)
		}
	case float64:
		return MinutesValue(int(t))
	}
	return NoTime()
}

// decodeImage accepts a URL string, a list whose first element is a string or
// an object with a url field, or a single object with a url field.
func decodeImage(value interface{}) string {
	switch image := value.(type) {
	case string:
		return image
	case []interface{}:
		if len(image) == 0 {
			return ""
		}
		switch first := image[0].(type) {
		case string:
			return first
		case map[string]interface{}:
			if imageURL, ok := first["url"].(string); ok {
				return imageURL
			}
		}
	case map[string]interface{}:
		if imageURL, ok := image["url"].(string); ok {
			return imageURL
		}
	}
	return ""
}

// decodeAuthor accepts a name string, a list whose first element is a string
// or an object with a name field, or a single object with a name field.
func decodeAuthor(value interface{}) string {
	switch author := value.(type) {
	case string:
		return author
	case []interface{}:
		if len(author) == 0 {
			return ""
		}
		switch first := author[0].(type) {
		case string:
			return first
		case map[string]interface{}:
			if name, ok := first["name"].(string); ok {
				return name
			}
		}
	case map[string]interface{}:
		if name, ok := author["name"].(string); ok {
			return name
		}
	}
	return ""
}
