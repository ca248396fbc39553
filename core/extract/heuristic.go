// ABOUTME: Heuristic extraction strategy for pages without recipe markup
// ABOUTME: Readability pass plus keyword-driven heading section scanning

package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"recipe-importer-api/pkg/textutil"
)

var ingredientKeywords = []string{
	"ingredient",
	"ingredients",
	"what you'll need",
	"what you need",
}

var instructionKeywords = []string{
	"instruction",
	"instructions",
	"directions",
	"method",
	"steps",
}

const headingSelector = "h1, h2, h3, h4, h5, h6"

var (
	numberedStepRe  = regexp.MustCompile(`^\d+[\).\s]`)
	stepSplitRe     = regexp.MustCompile(`\s*\d+[\).\s]\s*`)
	fallbackPageURL = &url.URL{Scheme: "https", Host: "example.invalid", Path: "/"}
)

// FromHeuristics runs a readability pass to isolate the main content, then
// scans headings for ingredient and instruction sections. pageURL anchors
// relative links during the readability pass; it may be empty. Returns nil
// only when title, ingredients, and steps all come up empty.
func FromHeuristics(html, pageURL string) (*RawRecipe, error) {
	readableHTML := html
	readableTitle := ""
	if article, err := readability.FromReader(strings.NewReader(html), readabilityURL(pageURL)); err == nil {
		if article.Content != "" {
			readableHTML = article.Content
		}
		readableTitle = article.Title
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(readableHTML))
	if err != nil {
		return nil, err
	}

	title := textutil.CollapseWhitespace(doc.Find("h1").First().Text())
	if title == "" {
		title = textutil.CollapseWhitespace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = textutil.CollapseWhitespace(readableTitle)
	}

	ingredients := findHeadingSection(doc, ingredientKeywords)
	steps := findHeadingSection(doc, instructionKeywords)

	// The readability pass can strip the very sections we scan for; rescan
	// the original document before giving up.
	if (len(ingredients) == 0 || len(steps) == 0) && readableHTML != html {
		if fullDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			if len(ingredients) == 0 {
				ingredients = findHeadingSection(fullDoc, ingredientKeywords)
			}
			if len(steps) == 0 {
				steps = findHeadingSection(fullDoc, instructionKeywords)
			}
			if title == "" {
				title = textutil.CollapseWhitespace(fullDoc.Find("h1").First().Text())
			}
			if len(ingredients) == 0 {
				doc = fullDoc
			}
		}
	}

	if len(ingredients) == 0 {
		ingredients = firstListItems(doc)
	}

	raw := &RawRecipe{
		Title:       title,
		Ingredients: ingredients,
		Steps:       steps,
	}
	if raw.Empty() {
		return nil, nil
	}
	return raw, nil
}

func readabilityURL(pageURL string) *url.URL {
	if parsed, err := url.Parse(pageURL); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return parsed
	}
	return fallbackPageURL
}

// findHeadingSection locates the first heading whose text contains one of
// the keywords and collects the section that follows it.
func findHeadingSection(doc *goquery.Document, keywords []string) []string {
	var items []string
	doc.Find(headingSelector).EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.ToLower(textutil.CollapseWhitespace(heading.Text()))
		if text == "" || !containsAny(text, keywords) {
			return true
		}
		if section := collectSection(heading); len(section) > 0 {
			items = section
			return false
		}
		return true
	})
	return items
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// collectSection gathers list items and text blocks following a heading,
// stopping at the next heading. Paragraphs that look like numbered steps
// ("1) ...", "2. ...") are split into separate entries.
func collectSection(heading *goquery.Selection) []string {
	var items []string
	for sibling := heading.Next(); sibling.Length() > 0; sibling = sibling.Next() {
		if sibling.Is(headingSelector) {
			break
		}
		switch {
		case sibling.Is("ul, ol"):
			sibling.Find("li").Each(func(_ int, li *goquery.Selection) {
				items = append(items, li.Text())
			})
		case sibling.Is("p, div"):
			text := textutil.CollapseWhitespace(sibling.Text())
			if text == "" {
				continue
			}
			if numberedStepRe.MatchString(text) {
				for _, part := range stepSplitRe.Split(text, -1) {
					if part != "" {
						items = append(items, part)
					}
				}
			} else {
				items = append(items, text)
			}
		}
	}
	return textutil.CleanLines(items)
}

// firstListItems returns the items of the first ul/ol anywhere in the
// document, the last-resort ingredient guess.
func firstListItems(doc *goquery.Document) []string {
	list := doc.Find("ul, ol").First()
	if list.Length() == 0 {
		return nil
	}
	var items []string
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, li.Text())
	})
	return textutil.CleanLines(items)
}
