package interfaces

import "context"

// Renderer defines the extension point for headless browser rendering.
// The shipped implementation is a stub that never produces content; the
// pipeline treats an empty result as "rendering unavailable" and records a
// warning instead of failing.
type Renderer interface {
	// Render loads the page at url in a browser context and returns the
	// rendered HTML, or an empty string when rendering is unavailable.
	Render(ctx context.Context, url string) (string, error)
}
