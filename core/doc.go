// Package core contains the business logic for the recipe importer API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (RecipeDraft, FetchResult, etc.)
// - security: URL normalization and SSRF-safe target validation
// - fetch: Upstream HTML fetching with validated redirects
// - extract: Extraction strategies (JSON-LD, microdata, heuristics)
// - normalize: Raw extraction to canonical draft conversion
// - confidence: Scoring and warning generation for drafts
// - ratelimit: Sliding-window admission control
// - pipeline: The orchestrator tying the stages together
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, logger, renderer)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "recipe-importer-api/core/interfaces"
//	    "recipe-importer-api/core/pipeline"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Cache:    myCache,    // implements interfaces.Cache
//	    Logger:   myLogger,   // implements interfaces.Logger
//	    Renderer: myRenderer, // implements interfaces.Renderer
//	}
//
//	// Create the pipeline and run one import
//	svc := pipeline.NewService(cfg, deps, fetcher)
//	result, err := svc.Run(ctx, "https://example.com/recipe", requestID)
package core
