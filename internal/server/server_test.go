package server

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kinocache/internal/config"
	"kinocache/internal/douban"
	"kinocache/internal/metrics"
	"kinocache/internal/querycache"
	"kinocache/internal/scraper"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"subjects": [
				{"id": "100", "title": "纸牌屋 第一季", "year": "2013"},
				{"id": "200", "title": "纸牌屋 第四季", "year": "2016"}
			]
		}`))
	})
	mux.HandleFunc("/movie/subject/200", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "200",
			"title": "纸牌屋 第四季",
			"year": "2016",
			"rating": {"average": 8.8},
			"images": {"large": "http://img.example/big.jpg"},
			"casts": [{"name": "凯文", "avatars": {"large": "http://img.example/kevin.jpg"}}]
		}`))
	})
	mux.HandleFunc("/big.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xde, 0xad, 0xbe, 0xef})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, upstreamURL string) *Server {
	t.Helper()
	store, err := querycache.Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	client, err := douban.New(upstreamURL, "kinocache/test", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.Bind = "127.0.0.1:0"
	cfg.Paths.Webroot = "http://media.local:21958"

	service := scraper.NewService(store, client, nil)
	return New(&cfg, service, store, metrics.NewRecorder(nil), nil)
}

func serve(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchResultsXML(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetSearchResults/House.Of.Cards.S04E01.720p.HDTV.x264")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
		t.Errorf("content type = %q", ct)
	}

	var doc searchResults
	if err := xml.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal response: %v\n%s", err, rec.Body.String())
	}
	if doc.Sorted != "yes" {
		t.Errorf("sorted attr = %q", doc.Sorted)
	}
	if len(doc.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(doc.Entities))
	}
	// Season 4 match is ranked first and its marker is rewritten.
	if doc.Entities[0].Title != "纸牌屋 第04季" {
		t.Errorf("first title = %q", doc.Entities[0].Title)
	}
	wantURL := "http://media.local:21958/GetDetails/200?episode=1"
	if doc.Entities[0].URL != wantURL {
		t.Errorf("first url = %q, want %q", doc.Entities[0].URL, wantURL)
	}
}

func TestSearchResultsEmptyName(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetSearchResults/")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetailsXML(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetDetails/200")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var doc detailsDoc
	if err := xml.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal response: %v\n%s", err, rec.Body.String())
	}
	if doc.Title != "纸牌屋 第04季" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Rating != "8.8" {
		t.Errorf("rating = %q", doc.Rating)
	}
	if doc.Votes != "" {
		t.Errorf("votes should be omitted, got %q", doc.Votes)
	}
	wantThumb := "http://media.local:21958/GetImage?url=" + url.QueryEscape("http://img.example/big.jpg")
	if doc.Thumb != wantThumb {
		t.Errorf("thumb = %q, want %q", doc.Thumb, wantThumb)
	}
	if len(doc.Actors) != 1 || doc.Actors[0].Name != "凯文" {
		t.Errorf("actors = %+v", doc.Actors)
	}
}

func TestDetailsWithEpisodeOmitsThumb(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetDetails/200?episode=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var doc detailsDoc
	if err := xml.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if doc.Title != "纸牌屋 第04季 第03集" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Thumb != "" {
		t.Errorf("thumb should be omitted for episodes, got %q", doc.Thumb)
	}
}

func TestDetailsRejectsNonNumericID(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetDetails/not-a-number")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestImageEndpoint(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetImage?url="+url.QueryEscape(upstream.URL+"/big.jpg"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.Bytes(); len(got) != 4 || got[0] != 0xde {
		t.Errorf("body = %v", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
}

func TestImageRequiresURL(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	rec := serve(t, srv, "/GetImage")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)
	srv := newTestServer(t, failing.URL)

	rec := serve(t, srv, "/GetSearchResults/Some.Movie.2014.720p")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	// One miss then one hit against the same title key.
	serve(t, srv, "/GetSearchResults/House.Of.Cards.S01.720p")
	serve(t, srv, "/GetSearchResults/House.Of.Cards.S02.720p")

	rec := serve(t, srv, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats["num_query"] != 2 {
		t.Errorf("num_query = %d, want 2", stats["num_query"])
	}
	if stats["num_hit"] != 1 {
		t.Errorf("num_hit = %d, want 1", stats["num_hit"])
	}
	if stats["entries"] != 1 {
		t.Errorf("entries = %d, want 1", stats["entries"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestServer(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/GetImage?url=http://x", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
