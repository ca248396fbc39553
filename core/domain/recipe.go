// ABOUTME: Domain models for extracted recipes and pipeline results
// ABOUTME: Defines the canonical recipe representation shared across layers

package domain

import "time"

// RecipeSource records where and how a recipe draft was obtained.
type RecipeSource struct {
	URL         string    `json:"url"`
	Domain      string    `json:"domain"`
	Strategy    string    `json:"strategy"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// RecipeDraft is the best-effort structured recipe extracted from a page.
// Ingredients and Steps hold only non-empty, whitespace-normalized strings.
type RecipeDraft struct {
	Title            string        `json:"title,omitempty"`
	Ingredients      []string      `json:"ingredients"`
	Steps            []string      `json:"steps"`
	Servings         string        `json:"servings,omitempty"`
	PrepTimeMinutes  int           `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes  int           `json:"cook_time_minutes,omitempty"`
	TotalTimeMinutes int           `json:"total_time_minutes,omitempty"`
	ImageURL         string        `json:"image_url,omitempty"`
	Author           string        `json:"author,omitempty"`
	Source           *RecipeSource `json:"source,omitempty"`
}

// FetchResult is the outcome of one logical fetch, redirects included.
// Immutable after creation; consumed only by the pipeline orchestrator.
type FetchResult struct {
	Content        string
	StatusCode     int
	Elapsed        time.Duration
	FinalURL       string
	UpstreamStatus int
}

// ParsePayload is the response body produced by a successful pipeline run.
// It is also the value serialized into the cache.
type ParsePayload struct {
	Recipe        RecipeDraft `json:"recipe"`
	Confidence    float64     `json:"confidence"`
	Warnings      []string    `json:"warnings"`
	MissingFields []string    `json:"missing_fields"`
}

// PipelineResult carries the payload plus the metadata the API layer logs.
type PipelineResult struct {
	Payload        ParsePayload
	Strategy       string
	Domain         string
	UpstreamStatus int
	FetchTime      time.Duration
}
