// ABOUTME: Stub headless renderer
// ABOUTME: Always yields no content; real browser automation plugs in behind the same interface

package noop

import "context"

// Renderer is the shipped headless rendering stub. It never produces
// content, which the pipeline reports as a JS-rendering warning.
type Renderer struct{}

// NewRenderer creates the stub renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render always returns an empty document
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	return "", nil
}
