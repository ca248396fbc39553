// ABOUTME: HTTP fetcher with manual redirect control and streaming size limits
// ABOUTME: Every redirect hop is re-validated before any further network access

package fetch

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"

	"recipe-importer-api/core/domain"
	"recipe-importer-api/core/errors"
	"recipe-importer-api/core/security"
	"recipe-importer-api/pkg/config"
)

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// readChunkSize is the streaming read granularity for the body size check.
const readChunkSize = 32 * 1024

// Client performs one logical fetch per call, following redirects manually so
// each hop passes through the SSRF validator first.
type Client struct {
	cfg       config.FetchConfig
	validator *security.Validator
	client    *http.Client
}

// NewClient creates a fetch client from the fetch configuration and validator.
func NewClient(cfg config.FetchConfig, validator *security.Validator) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}

	return &Client{
		cfg:       cfg,
		validator: validator,
		client: &http.Client{
			Transport: transport,
			// Redirects are handled in Fetch so each hop is validated.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Fetch retrieves the page at rawURL, validating the target and every
// redirect hop, and returns the decoded body. The reported elapsed time
// covers the final hop.
func (c *Client) Fetch(ctx context.Context, rawURL, requestID string) (*domain.FetchResult, error) {
	currentURL, err := c.validator.ValidateTarget(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	redirects := 0
	for {
		result, redirectTarget, err := c.doHop(ctx, currentURL, requestID)
		if err != nil {
			return nil, err
		}
		if redirectTarget != "" {
			currentURL, err = c.validator.ValidateRedirect(ctx, redirectTarget, redirects)
			if err != nil {
				return nil, err
			}
			redirects++
			continue
		}
		return result, nil
	}
}

// doHop issues a single GET. It returns either a completed FetchResult or a
// redirect target to be validated by the caller.
func (c *Client) doHop(ctx context.Context, currentURL, requestID string) (*domain.FetchResult, string, error) {
	hopCtx, cancel := context.WithTimeout(ctx, c.cfg.TotalTimeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(hopCtx, http.MethodGet, currentURL, nil)
	if err != nil {
		return nil, "", errors.InvalidURL(fmt.Sprintf("Malformed URL: %v", err))
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", classifyTransportError(err, ctx)
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) {
		if location := resp.Header.Get("Location"); location != "" {
			target, err := resolveLocation(currentURL, location)
			if err != nil {
				return nil, "", err
			}
			return nil, target, nil
		}
	}

	if resp.StatusCode >= 400 {
		return nil, "", errors.UpstreamFetchFailed(fmt.Sprintf("Upstream responded with status %d", resp.StatusCode))
	}

	raw, err := c.readBody(resp.Body)
	if err != nil {
		return nil, "", err
	}

	return &domain.FetchResult{
		Content:        decodeBody(raw, resp.Header.Get("Content-Type")),
		StatusCode:     resp.StatusCode,
		Elapsed:        time.Since(start),
		FinalURL:       currentURL,
		UpstreamStatus: resp.StatusCode,
	}, "", nil
}

// readBody streams the body in chunks, failing the moment the byte count
// exceeds the configured cap. The Content-Length header is never trusted
// because it can under-report the actual size.
func (c *Client) readBody(body io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	var total int64

	for {
		n, err := body.Read(chunk)
		if n > 0 {
			total += int64(n)
			if total > c.cfg.MaxHTMLBytes {
				return nil, errors.ContentTooLarge("")
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, classifyTransportError(err, nil)
		}
	}
}

// decodeBody decodes raw bytes using the declared charset, falling back to
// lossy UTF-8 replacement so malformed encodings never abort the pipeline.
func decodeBody(raw []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err == nil {
		if decoded, readErr := io.ReadAll(reader); readErr == nil {
			return string(decoded)
		}
	}
	return string(bytes.ToValidUTF8(raw, []byte("�")))
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// resolveLocation resolves a Location header against the current URL.
func resolveLocation(currentURL, location string) (string, error) {
	base, err := url.Parse(currentURL)
	if err != nil {
		return "", errors.InvalidURL(fmt.Sprintf("Malformed URL: %v", err))
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", errors.InvalidURL(fmt.Sprintf("Malformed redirect target: %v", err))
	}
	return base.ResolveReference(ref).String(), nil
}

// classifyTransportError maps transport failures onto the importer error
// taxonomy. Caller cancellation propagates unchanged.
func classifyTransportError(err error, parent context.Context) error {
	if parent != nil && parent.Err() == context.Canceled {
		return parent.Err()
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.FetchTimeout("")
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.FetchTimeout("")
	}
	return errors.UpstreamFetchFailed(err.Error())
}
