package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMethodMuxDispatch(t *testing.T) {
	handler := methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		http.MethodPost: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusTeapot {
		t.Fatalf("expected GET handler, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected POST handler, got %d", recorder.Code)
	}
}

func TestMethodMuxRejectsUnknownMethod(t *testing.T) {
	handler := methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		http.MethodPost: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); allow != "GET, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}
