// ABOUTME: Pipeline orchestrator wiring validation, fetch, extraction, scoring, and cache
// ABOUTME: Runs strategies in configured order and always degrades to a partial draft

package pipeline

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"recipe-importer-api/core/confidence"
	"recipe-importer-api/core/domain"
	"recipe-importer-api/core/errors"
	"recipe-importer-api/core/extract"
	"recipe-importer-api/core/interfaces"
	"recipe-importer-api/core/normalize"
	"recipe-importer-api/core/security"
	"recipe-importer-api/pkg/config"
)

// Fetcher performs one logical fetch including validated redirect hops.
// Implemented by fetch.Client; tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, url, requestID string) (*domain.FetchResult, error)
}

// Service is the request-scoped import pipeline. The cache and the renderer
// are the only shared collaborators; every run owns its own fetch result and
// draft.
type Service struct {
	cfg     *config.Config
	deps    interfaces.Dependencies
	fetcher Fetcher
}

// NewService creates the pipeline service.
func NewService(cfg *config.Config, deps interfaces.Dependencies, fetcher Fetcher) *Service {
	return &Service{
		cfg:     cfg,
		deps:    deps,
		fetcher: fetcher,
	}
}

// Run executes the full fetch-extract-score flow for one URL. Expected
// extraction shortfalls (no markup, missing fields) surface as warnings on a
// successful result, never as errors.
func (s *Service) Run(ctx context.Context, rawURL, requestID string) (*domain.PipelineResult, error) {
	canonicalURL, err := security.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if result, ok := s.cachedResult(ctx, canonicalURL, 200, 0); ok {
		return result, nil
	}

	fetchResult, err := s.fetcher.Fetch(ctx, canonicalURL, requestID)
	if err != nil {
		return nil, err
	}

	finalKey := canonicalURL
	if normalized, err := security.NormalizeURL(fetchResult.FinalURL); err == nil {
		finalKey = normalized
	}
	if finalKey != canonicalURL {
		if result, ok := s.cachedResult(ctx, finalKey, fetchResult.UpstreamStatus, fetchResult.Elapsed); ok {
			return result, nil
		}
	}

	pageDomain := hostnameOf(fetchResult.FinalURL)

	raw, usedStrategy, warnings, err := s.runStrategies(ctx, fetchResult, pageDomain, requestID)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		raw = &extract.RawRecipe{}
		if usedStrategy == "" {
			usedStrategy = extract.StrategyHeuristic
		}
		warnings = append(warnings, confidence.WarnNoRecipeSchema)
	}

	recipe := normalize.Recipe(raw, usedStrategy, fetchResult.FinalURL, pageDomain)
	score, scoreWarnings, missingFields := confidence.Score(recipe, usedStrategy)

	payload := domain.ParsePayload{
		Recipe:        recipe,
		Confidence:    score,
		Warnings:      dedupe(append(warnings, scoreWarnings...)),
		MissingFields: missingFields,
	}
	if payload.MissingFields == nil {
		payload.MissingFields = []string{}
	}

	s.storeResult(ctx, canonicalURL, finalKey, payload)

	return &domain.PipelineResult{
		Payload:        payload,
		Strategy:       usedStrategy,
		Domain:         pageDomain,
		UpstreamStatus: fetchResult.UpstreamStatus,
		FetchTime:      fetchResult.Elapsed,
	}, nil
}

// runStrategies tries each configured strategy in order and stops at the
// first one yielding data. A nil raw result means no strategy produced
// anything.
func (s *Service) runStrategies(ctx context.Context, fetchResult *domain.FetchResult, pageDomain, requestID string) (*extract.RawRecipe, string, []string, error) {
	var warnings []string
	html := fetchResult.Content

	for _, name := range s.cfg.Strategies() {
		switch name {
		case extract.StrategyJSONLD:
			raw, err := extract.FromJSONLD(html)
			if err != nil {
				return nil, "", nil, errors.ParseFailed(err.Error())
			}
			if raw != nil {
				return raw, extract.StrategyJSONLD, warnings, nil
			}
		case extract.StrategyMicrodata:
			raw, err := extract.FromMicrodata(html)
			if err != nil {
				return nil, "", nil, errors.ParseFailed(err.Error())
			}
			if raw != nil {
				return raw, extract.StrategyMicrodata, warnings, nil
			}
		case extract.StrategyHeuristic:
			raw, err := extract.FromHeuristics(html, fetchResult.FinalURL)
			if err != nil {
				return nil, "", nil, errors.ParseFailed(err.Error())
			}
			if raw != nil {
				return raw, extract.StrategyHeuristic, warnings, nil
			}
		case extract.StrategyHeadless:
			raw, strategy, rendered := s.runHeadless(ctx, fetchResult.FinalURL, pageDomain, requestID)
			if !rendered {
				warnings = append(warnings, confidence.WarnJSRenderingSuspected)
				continue
			}
			if raw != nil {
				return raw, strategy, warnings, nil
			}
		}
	}

	return nil, "", warnings, nil
}

// runHeadless gates the headless strategy on the feature flag and domain
// allowlist, then retries structured-data and heuristic extraction on the
// rendered HTML. rendered is false whenever rendering was skipped or
// produced nothing.
func (s *Service) runHeadless(ctx context.Context, finalURL, pageDomain, requestID string) (raw *extract.RawRecipe, strategy string, rendered bool) {
	if !s.cfg.Headless.Enabled || s.deps.Renderer == nil {
		return nil, "", false
	}
	if len(s.cfg.Headless.AllowlistDomains) > 0 && !containsString(s.cfg.Headless.AllowlistDomains, pageDomain) {
		return nil, "", false
	}

	renderCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Headless.MaxRenderMillis)*time.Millisecond)
	defer cancel()

	renderedHTML, err := s.deps.Renderer.Render(renderCtx, finalURL)
	if err != nil || renderedHTML == "" {
		return nil, "", false
	}

	if raw, err := extract.FromJSONLD(renderedHTML); err == nil && raw != nil {
		return raw, extract.StrategyHeadlessJSONLD, true
	}
	if raw, err := extract.FromHeuristics(renderedHTML, finalURL); err == nil && raw != nil {
		return raw, extract.StrategyHeadlessHeuristic, true
	}
	return nil, "", false
}

// cachedResult returns a PipelineResult reconstructed from the cache, if an
// unexpired entry exists for key.
func (s *Service) cachedResult(ctx context.Context, key string, upstreamStatus int, fetchTime time.Duration) (*domain.PipelineResult, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	data, err := s.deps.Cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}

	var payload domain.ParsePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logWarn("Discarding undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	strategy := "cache"
	cachedDomain := ""
	if payload.Recipe.Source != nil {
		strategy = payload.Recipe.Source.Strategy
		cachedDomain = payload.Recipe.Source.Domain
	}

	return &domain.PipelineResult{
		Payload:        payload,
		Strategy:       strategy,
		Domain:         cachedDomain,
		UpstreamStatus: upstreamStatus,
		FetchTime:      fetchTime,
	}, true
}

// storeResult caches the payload under the final URL and, when different,
// the canonical input URL.
func (s *Service) storeResult(ctx context.Context, canonicalURL, finalKey string, payload domain.ParsePayload) {
	if s.deps.Cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logWarn("Failed to serialize pipeline result for cache", map[string]interface{}{
			"key":   finalKey,
			"error": err.Error(),
		})
		return
	}

	ttl := s.cfg.CacheTTL()
	if err := s.deps.Cache.Set(ctx, finalKey, data, ttl); err != nil {
		s.logWarn("Failed to cache pipeline result", map[string]interface{}{
			"key":   finalKey,
			"error": err.Error(),
		})
	}
	if finalKey != canonicalURL {
		if err := s.deps.Cache.Set(ctx, canonicalURL, data, ttl); err != nil {
			s.logWarn("Failed to cache pipeline result", map[string]interface{}{
				"key":   canonicalURL,
				"error": err.Error(),
			})
		}
	}
}

func (s *Service) logWarn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}

// dedupe removes duplicate warnings, preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func hostnameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
