package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/pkg/metrics"
)

func TestRecorderExposesObservations(t *testing.T) {
	c := qt.New(t)
	rec := metrics.NewRecorder()

	rec.Observe("/api/students", http.MethodGet, "200", 15*time.Millisecond)
	rec.Observe("/api/students", http.MethodGet, "200", 5*time.Millisecond)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	body, err := io.ReadAll(w.Body)
	c.Assert(err, qt.IsNil)
	c.Assert(string(body), qt.Contains, `cgmis_http_requests_total{method="GET",route="/api/students",status="200"} 2`)
	c.Assert(string(body), qt.Contains, "cgmis_http_request_duration_seconds_count")
	c.Assert(string(body), qt.Contains, "go_goroutines")
}
