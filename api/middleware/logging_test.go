// ABOUTME: Tests for request-id assignment and client IP extraction
// ABOUTME: Header propagation, minted ids, request logging, and proxy headers

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.log("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.log("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.log("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.log("error", msg, fields) }

func TestRequestLoggingMiddleware_HonorsInboundRequestID(t *testing.T) {
	var seenID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLoggingMiddleware(nil)(inner)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenID != "req-abc" {
		t.Errorf("context request id = %q, want req-abc", seenID)
	}
	if rec.Header().Get("X-Request-ID") != "req-abc" {
		t.Errorf("response header = %q, want req-abc", rec.Header().Get("X-Request-ID"))
	}
}

func TestRequestLoggingMiddleware_MintsRequestID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLoggingMiddleware(nil)(inner)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a minted X-Request-ID header")
	}
}

func TestRequestLoggingMiddleware_LogsOutcome(t *testing.T) {
	logger := &recordingLogger{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	handler := RequestLoggingMiddleware(logger)(inner)
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var complete, failure *logEntry
	for i := range logger.entries {
		switch logger.entries[i].msg {
		case "request_complete":
			complete = &logger.entries[i]
		case "Request failed with server error":
			failure = &logger.entries[i]
		}
	}

	if complete == nil {
		t.Fatal("request_complete not logged")
	}
	if complete.fields["status"] != http.StatusBadGateway {
		t.Errorf("status field = %v, want 502", complete.fields["status"])
	}
	if complete.fields["method"] != http.MethodPost || complete.fields["path"] != "/v1/parse" {
		t.Errorf("fields = %v", complete.fields)
	}
	if failure == nil {
		t.Error("expected a server-error log for a 5xx response")
	}
}

func TestRequestLoggingMiddleware_NoErrorLogBelow500(t *testing.T) {
	logger := &recordingLogger{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := RequestLoggingMiddleware(logger)(inner)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	for _, entry := range logger.entries {
		if entry.level == "error" {
			t.Errorf("unexpected error log for a 404: %v", entry)
		}
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr with port", "203.0.113.7:4567", nil, "203.0.113.7"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.9"}, "198.51.100.9"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": " 198.51.100.9 , 10.0.0.2"}, "198.51.100.9"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.12"}, "198.51.100.12"},
		{"forwarded-for wins over real-ip", "10.0.0.1:80", map[string]string{
			"X-Forwarded-For": "198.51.100.9",
			"X-Real-IP":       "198.51.100.12",
		}, "198.51.100.9"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		if got := ExtractClientIP(req); got != tt.want {
			t.Errorf("%s: ExtractClientIP = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRequestID_MintsWhenMissing(t *testing.T) {
	id := RequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if id == "" {
		t.Error("expected a minted request id")
	}
}
