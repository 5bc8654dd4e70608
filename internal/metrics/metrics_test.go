package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.RecordCacheLookup(CacheLookupHit)
	r.RecordUpstreamRequest("search", nil, time.Millisecond)
	r.RecordHTTPRequest("/GetImage", 200)
	if r.Handler() == nil {
		t.Fatal("nil recorder should still return a handler")
	}
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.RecordCacheLookup(CacheLookupHit)
	r.RecordCacheLookup(CacheLookupHit)
	r.RecordCacheLookup(CacheLookupMiss)
	r.RecordUpstreamRequest("search", errors.New("boom"), 50*time.Millisecond)
	r.RecordHTTPRequest("/GetDetails", 502)

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{
		"kinocache_cache_lookups_total",
		"kinocache_upstream_requests_total",
		"kinocache_upstream_request_duration_seconds",
		"kinocache_http_requests_total",
	} {
		if !found[name] {
			t.Errorf("metric family %s not registered", name)
		}
	}
}

func TestHandlerServesExposition(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.RecordCacheLookup(CacheLookupMiss)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("exposition status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kinocache_cache_lookups_total") {
		t.Error("exposition body missing cache lookup counter")
	}
}
