package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	coreerrors "recipe-importer-api/core/errors"
	"recipe-importer-api/core/security"
	"recipe-importer-api/pkg/config"
)

// publicResolver pretends every hostname resolves to a public address so
// httptest servers on loopback pass validation while the connection still
// goes to the real listener.
type publicResolver struct{}

func (publicResolver) LookupIPAddr(_ context.Context, _ string) ([]net.IPAddr, error) {
	return []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}, nil
}

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{
		MaxHTMLBytes:   1 << 20,
		TotalTimeout:   2 * time.Second,
		ConnectTimeout: 1 * time.Second,
		ReadTimeout:    1 * time.Second,
		RedirectLimit:  3,
		UserAgent:      "recipe-importer-api/test",
	}
}

func newTestClient(cfg config.FetchConfig) *Client {
	validator := security.NewValidator(config.SecurityConfig{
		AllowedSchemes: []string{"http", "https"},
		AllowedPorts:   []int{80, 443},
	}, cfg.RedirectLimit, publicResolver{})
	return NewClient(cfg, validator)
}

// testPort carves the httptest port into the allowed set so explicit-port
// URLs from the test server validate.
func newTestClientForServer(cfg config.FetchConfig, server *httptest.Server) *Client {
	port := 80
	if _, portText, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://")); err == nil {
		fmt.Sscanf(portText, "%d", &port)
	}
	validator := security.NewValidator(config.SecurityConfig{
		AllowedSchemes: []string{"http", "https"},
		AllowedPorts:   []int{80, 443, port},
	}, cfg.RedirectLimit, publicResolver{})
	return NewClient(cfg, validator)
}

func TestClient_Fetch_ReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "recipe-importer-api/test" {
			t.Errorf("User-Agent = %q", ua)
		}
		if id := r.Header.Get("X-Request-ID"); id != "req-1" {
			t.Errorf("X-Request-ID = %q", id)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>recipe</body></html>")
	}))
	defer server.Close()

	client := newTestClientForServer(testFetchConfig(), server)
	result, err := client.Fetch(context.Background(), server.URL+"/page", "req-1")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.Contains(result.Content, "recipe") {
		t.Errorf("Content = %q, want body text", result.Content)
	}
	if result.UpstreamStatus != http.StatusOK {
		t.Errorf("UpstreamStatus = %d", result.UpstreamStatus)
	}
	if result.FinalURL != server.URL+"/page" {
		t.Errorf("FinalURL = %q", result.FinalURL)
	}
}

func TestClient_Fetch_FollowsValidatedRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>done</html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClientForServer(testFetchConfig(), server)
	result, err := client.Fetch(context.Background(), server.URL+"/start", "req-1")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if result.FinalURL != server.URL+"/final" {
		t.Errorf("FinalURL = %q, want the post-redirect URL", result.FinalURL)
	}
	if !strings.Contains(result.Content, "done") {
		t.Errorf("Content = %q", result.Content)
	}
}

func TestClient_Fetch_RedirectLimitExceeded(t *testing.T) {
	hops := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, fmt.Sprintf("/hop-%d", hops), http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClientForServer(testFetchConfig(), server)
	_, err := client.Fetch(context.Background(), server.URL+"/", "req-1")
	if !coreerrors.IsKind(err, coreerrors.KindInvalidURL) {
		t.Errorf("Fetch returned %v, want INVALID_URL", err)
	}
	// The limit cuts the chain before another network round trip.
	if hops > 4 {
		t.Errorf("server saw %d hops, want at most redirect limit + 1", hops)
	}
}

func TestClient_Fetch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClientForServer(testFetchConfig(), server)
	_, err := client.Fetch(context.Background(), server.URL, "req-1")
	if !coreerrors.IsKind(err, coreerrors.KindUpstreamFetchFailed) {
		t.Errorf("Fetch returned %v, want UPSTREAM_FETCH_FAILED", err)
	}
}

func TestClient_Fetch_ContentTooLarge(t *testing.T) {
	// The body is streamed and counted; the size check cannot rely on the
	// Content-Length header.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		chunk := strings.Repeat("a", 1024)
		for i := 0; i < 64; i++ {
			fmt.Fprint(w, chunk)
			flusher.Flush()
		}
	}))
	defer server.Close()

	cfg := testFetchConfig()
	cfg.MaxHTMLBytes = 4096
	client := newTestClientForServer(cfg, server)
	_, err := client.Fetch(context.Background(), server.URL, "req-1")
	if !coreerrors.IsKind(err, coreerrors.KindContentTooLarge) {
		t.Errorf("Fetch returned %v, want CONTENT_TOO_LARGE", err)
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testFetchConfig()
	cfg.TotalTimeout = 50 * time.Millisecond
	client := newTestClientForServer(cfg, server)
	_, err := client.Fetch(context.Background(), server.URL, "req-1")
	if !coreerrors.IsKind(err, coreerrors.KindFetchTimeout) {
		t.Errorf("Fetch returned %v, want FETCH_TIMEOUT", err)
	}
}

func TestClient_Fetch_RejectsInvalidTarget(t *testing.T) {
	client := newTestClient(testFetchConfig())
	_, err := client.Fetch(context.Background(), "ftp://example.com/", "req-1")
	if !coreerrors.IsKind(err, coreerrors.KindInvalidURL) {
		t.Errorf("Fetch returned %v, want INVALID_URL", err)
	}
}

func TestDecodeBody_DeclaredCharset(t *testing.T) {
	// 0xE9 is é in ISO-8859-1 and invalid as a standalone UTF-8 byte.
	raw := []byte{'c', 'a', 'f', 0xE9}
	got := decodeBody(raw, "text/html; charset=iso-8859-1")
	if got != "café" {
		t.Errorf("decodeBody = %q, want café", got)
	}
}

func TestDecodeBody_MalformedFallsBackLossy(t *testing.T) {
	raw := []byte{'o', 'k', 0xFF, 0xFE}
	got := decodeBody(raw, "")
	if !strings.HasPrefix(got, "ok") {
		t.Errorf("decodeBody = %q, want lossy string starting with ok", got)
	}
}
