package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := wrapResponseWriter(w)

	if rw.status != http.StatusOK {
		t.Errorf("initial status = %d, want %d", rw.status, http.StatusOK)
	}

	rw.WriteHeader(http.StatusNotFound)
	if rw.status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rw.status, http.StatusNotFound)
	}

	// A second WriteHeader is ignored.
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.status != http.StatusNotFound {
		t.Errorf("status = %d, want %d after double WriteHeader", rw.status, http.StatusNotFound)
	}
}

func TestResponseWriterWrite(t *testing.T) {
	w := httptest.NewRecorder()
	rw := wrapResponseWriter(w)

	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rw.status != http.StatusOK {
		t.Errorf("status = %d, want implicit %d", rw.status, http.StatusOK)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	m := New()

	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/5/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	// Outside a chi route the raw path becomes the label.
	out := scrape(t, m)
	if !strings.Contains(out, `phishdeck_http_requests_total{method="POST",path="/api/v1/campaigns/5/run",status="202"} 1`) {
		t.Error("missing request counter for observed request")
	}
}
