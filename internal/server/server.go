package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"kinocache/internal/config"
	"kinocache/internal/logging"
	"kinocache/internal/metrics"
	"kinocache/internal/querycache"
	"kinocache/internal/scraper"
)

// Server serves the Kodi scraper endpoints.
type Server struct {
	bind     string
	webroot  string
	logger   *slog.Logger
	service  *scraper.Service
	store    *querycache.Store
	recorder *metrics.Recorder

	listener net.Listener
	server   *http.Server
}

// New constructs the HTTP server from configuration and wired services.
func New(cfg *config.Config, service *scraper.Service, store *querycache.Store, recorder *metrics.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	webroot := cfg.Paths.Webroot
	if webroot == "" {
		webroot = "http://" + cfg.Paths.Bind
	}

	srv := &Server{
		bind:     cfg.Paths.Bind,
		webroot:  webroot,
		logger:   logging.NewComponentLogger(logger, "server"),
		service:  service,
		store:    store,
		recorder: recorder,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/GetSearchResults/", srv.instrument("/GetSearchResults", srv.handleSearch))
	mux.HandleFunc("/GetDetails/", srv.instrument("/GetDetails", srv.handleDetails))
	mux.HandleFunc("/GetImage", srv.instrument("/GetImage", srv.handleImage))
	mux.HandleFunc("/api/stats", srv.instrument("/api/stats", srv.handleStats))
	mux.Handle("/metrics", recorder.Handler())

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Webroot returns the base URL embedded in generated links.
func (s *Server) Webroot() string {
	return s.webroot
}

// Start begins serving and shuts down when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening",
		logging.String("address", listener.Addr().String()),
		logging.String("webroot", s.webroot))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request logging and metrics.
func (s *Server) instrument(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			s.recorder.RecordHTTPRequest(route, http.StatusMethodNotAllowed)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestStart := time.Now()
		handler(recorder, r)

		s.recorder.RecordHTTPRequest(route, recorder.status)
		s.logger.Info("request",
			logging.String("request_id", uuid.NewString()),
			logging.String("route", route),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("duration", time.Since(requestStart)))
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	releaseName := strings.TrimPrefix(r.URL.Path, "/GetSearchResults/")
	if releaseName == "" {
		s.writeError(w, http.StatusBadRequest, "release name required")
		return
	}

	result, err := s.service.Search(r.Context(), releaseName)
	if err != nil {
		if errors.Is(err, scraper.ErrEmptyQuery) {
			s.writeError(w, http.StatusBadRequest, "release name yields no searchable title")
			return
		}
		s.logger.Error("search failed", logging.String("release_name", releaseName), logging.Error(err))
		s.writeError(w, http.StatusBadGateway, "upstream search failed")
		return
	}

	doc := searchResults{Sorted: "yes"}
	for _, subject := range result.Subjects {
		target := fmt.Sprintf("%s/GetDetails/%s", s.webroot, subject.ID)
		if result.Query.Episode != nil {
			target += fmt.Sprintf("?episode=%d", *result.Query.Episode)
		}
		doc.Entities = append(doc.Entities, searchEntity{
			Title: rewriteTitle(subject.Title),
			URL:   target,
		})
	}

	if err := writeXML(w, http.StatusOK, doc); err != nil {
		s.logger.Error("write search response", logging.Error(err))
	}
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	subjectID := strings.TrimPrefix(r.URL.Path, "/GetDetails/")
	if !isNumeric(subjectID) {
		s.writeError(w, http.StatusNotFound, "unknown subject")
		return
	}

	episode := parseEpisode(r.URL.Query().Get("episode"))

	details, err := s.service.Details(r.Context(), subjectID, episode)
	if err != nil {
		s.logger.Error("details failed", logging.String("subject_id", subjectID), logging.Error(err))
		s.writeError(w, http.StatusBadGateway, "upstream details failed")
		return
	}

	doc := detailsDoc{
		Title:         details.Title,
		Year:          details.Year,
		Plot:          details.Plot,
		OriginalTitle: details.OriginalTitle,
		Directors:     details.Directors,
		Genres:        details.Genres,
		Countries:     details.Countries,
	}
	if details.Rating != nil {
		doc.Rating = fmt.Sprintf("%.1f", *details.Rating)
	}
	if details.Votes != nil {
		doc.Votes = fmt.Sprintf("%d", *details.Votes)
	}
	if details.ThumbURL != "" {
		doc.Thumb = s.imageLink(details.ThumbURL)
	}
	for _, cast := range details.Casts {
		entry := actorEntry{Name: cast.Name}
		if cast.ThumbURL != "" {
			entry.Thumb = s.imageLink(cast.ThumbURL)
		}
		doc.Actors = append(doc.Actors, entry)
	}

	if err := writeXML(w, http.StatusOK, doc); err != nil {
		s.logger.Error("write details response", logging.Error(err))
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.writeError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	body, err := s.service.Image(r.Context(), rawURL)
	if err != nil {
		s.logger.Error("image fetch failed", logging.String("url", rawURL), logging.Error(err))
		s.writeError(w, http.StatusBadGateway, "image fetch failed")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(body)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats read failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	payload := map[string]int64{
		"num_query": stats.Queries,
		"num_hit":   stats.Hits,
		"entries":   stats.Entries,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}
