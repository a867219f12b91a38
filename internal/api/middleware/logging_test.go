package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestLoggingCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := CorrelationID(logger)(RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	request.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	line := buf.String()
	if !strings.Contains(line, `"request_id":"req-42"`) {
		t.Fatalf("access log missing request_id: %s", line)
	}
	if !strings.Contains(line, `"status":204`) {
		t.Fatalf("access log missing status: %s", line)
	}
}

func TestRequestLoggingWithoutCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	line := buf.String()
	if !strings.Contains(line, `"path":"/healthz"`) {
		t.Fatalf("access log missing path: %s", line)
	}
	if !strings.Contains(line, `"status":200`) {
		t.Fatalf("access log missing implicit 200: %s", line)
	}
	if !strings.Contains(line, `"bytes":2`) {
		t.Fatalf("access log missing body size: %s", line)
	}
}
