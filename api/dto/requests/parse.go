// ABOUTME: Request DTOs for the parse endpoint
// ABOUTME: Defines the inbound JSON shape and its validation

package requests

import "errors"

// ParseOptions are optional caller preferences. PreferLanguage and
// IncludeDebug are accepted for forward compatibility.
type ParseOptions struct {
	PreferLanguage string `json:"prefer_language,omitempty"`
	IncludeDebug   bool   `json:"include_debug,omitempty"`
}

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	URL     string        `json:"url"`
	Options *ParseOptions `json:"options,omitempty"`
}

// Validate checks the request for the minimum viable shape.
func (r *ParseRequest) Validate() error {
	if r.URL == "" {
		return errors.New("url is required")
	}
	return nil
}
