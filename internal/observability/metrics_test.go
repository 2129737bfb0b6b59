package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/health", "200", time.Millisecond)
	m.APIInflightInc()
	m.IncSessionStarted(true)
	m.ObserveSelection(nil)
	m.IncUpload("local", false)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got=%d", rec.Code)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAPI("get", "/api/sessoes", "200", 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/sessoes", "200", 2*time.Second)
	m.IncSessionStarted(true)
	m.IncSessionStarted(false)
	m.IncSessionStarted(false)
	latency := 3.0
	m.ObserveSelection(&latency)
	m.ObserveSelection(nil)
	m.IncUpload("cloudinary", true)

	if got := m.sessionsStarted.Value("reused"); got != 2 {
		t.Fatalf("reused starts: got=%v", got)
	}
	if got := m.selections.Value(); got != 2 {
		t.Fatalf("selections: got=%v", got)
	}
	if got := m.responseTime.Count(); got != 1 {
		t.Fatalf("response observations: got=%d", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`caa_api_requests_total{method="GET",route="/api/sessoes",status="200"} 2`,
		`caa_api_request_duration_seconds_bucket{method="GET",route="/api/sessoes",le="0.05"} 1`,
		`caa_api_request_duration_seconds_bucket{method="GET",route="/api/sessoes",le="+Inf"} 2`,
		`caa_sessions_started_total{result="created"} 1`,
		`caa_image_uploads_total{mode="cloudinary",status="ok"} 1`,
		`caa_selection_response_seconds_bucket{le="5"} 1`,
		"# TYPE caa_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{"a\"b\\c\nd"})
	if got != `{route="a\"b\\c\nd"}` {
		t.Fatalf("labelString: %s", got)
	}
	if got := labelString([]string{"a", "b"}, []string{"x"}); got != `{a="x",b="unknown"}` {
		t.Fatalf("missing label value: %s", got)
	}
	if got := withLe("", "1"); got != `{le="1"}` {
		t.Fatalf("withLe: %s", got)
	}
}

func TestHistogramBoundsAreSortedAndCumulative(t *testing.T) {
	h := NewHistogramVec("h", "help", nil, []float64{10, 1, 5})
	for _, v := range []float64{0.5, 1, 4, 11} {
		h.Observe(v)
	}
	var buf bytes.Buffer
	if err := h.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`h_bucket{le="1"} 2`,
		`h_bucket{le="5"} 3`,
		`h_bucket{le="10"} 3`,
		`h_bucket{le="+Inf"} 4`,
		`h_sum 16.5`,
		`h_count 4`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCounterIgnoresNegativeDelta(t *testing.T) {
	c := NewCounter("c", "help")
	c.Add(2)
	c.Add(-5)
	if got := c.Value(); got != 2 {
		t.Fatalf("counter: got=%v", got)
	}
}
