package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"kinocache/internal/douban"
	"kinocache/internal/filename"
	"kinocache/internal/logging"
	"kinocache/internal/numerals"
	"kinocache/internal/querycache"
	"kinocache/internal/ranking"
)

// ErrEmptyQuery reports a release name that normalizes to an empty title.
var ErrEmptyQuery = errors.New("release name yields an empty title")

// Service resolves release names into catalog metadata through the cache.
type Service struct {
	store  *querycache.Store
	client *douban.Client
	logger *slog.Logger
}

// NewService wires the cache store and upstream client together.
func NewService(store *querycache.Store, client *douban.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  store,
		client: client,
		logger: logging.NewComponentLogger(logger, "scraper"),
	}
}

// SearchResult carries the normalized query and the ranked candidates.
type SearchResult struct {
	Query    filename.Parsed
	Subjects []douban.Subject
}

// Search normalizes a release name, resolves the candidate list through the
// cache, and ranks it by the extracted year and season.
func (s *Service) Search(ctx context.Context, releaseName string) (*SearchResult, error) {
	parsed := filename.Parse(releaseName)
	if parsed.Title == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyQuery, releaseName)
	}

	s.logger.Debug("normalized release name",
		logging.String("title", parsed.Title),
		logging.Any("year", deref(parsed.Year)),
		logging.Any("season", deref(parsed.Season)),
		logging.Any("episode", deref(parsed.Episode)))

	payload, err := s.store.GetJSON(ctx, "search:"+parsed.Title, func(ctx context.Context) ([]byte, error) {
		return s.client.Search(ctx, parsed.Title)
	})
	if err != nil {
		return nil, err
	}

	var resp douban.SearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode search payload: %w", err)
	}

	return &SearchResult{
		Query:    parsed,
		Subjects: ranking.Rank(resp.Subjects, parsed.Year, parsed.Season),
	}, nil
}

// CastMember is one cast entry in a Details record.
type CastMember struct {
	Name     string
	ThumbURL string
}

// Details is the metadata record for one subject. Title is always set; every
// other field may be empty when the upstream payload omits it.
type Details struct {
	Title         string
	Rating        *float64
	Votes         *int64
	Year          string
	Plot          string
	OriginalTitle string
	Directors     []string
	// ThumbURL is the upstream poster URL. Empty when the payload has no
	// image or when an episode number is set, matching Kodi's per-episode
	// display which uses no poster.
	ThumbURL  string
	Genres    []string
	Casts     []CastMember
	Countries []string
}

// Details resolves the full catalog record for a subject, rewriting the
// season marker in its title and appending the episode suffix when an
// episode number is supplied.
func (s *Service) Details(ctx context.Context, subjectID string, episode *int) (*Details, error) {
	payload, err := s.store.GetJSON(ctx, "subject:"+subjectID, func(ctx context.Context) ([]byte, error) {
		return s.client.Subject(ctx, subjectID)
	})
	if err != nil {
		return nil, err
	}

	var subject douban.Subject
	if err := json.Unmarshal(payload, &subject); err != nil {
		return nil, fmt.Errorf("decode subject payload: %w", err)
	}

	title := numerals.RewriteSeasonMarkers(subject.Title)
	if episode != nil {
		title += numerals.EpisodeSuffix(*episode)
	}

	details := &Details{
		Title:         title,
		Votes:         subject.RatingsCount,
		Year:          subject.Year,
		Plot:          subject.Summary,
		OriginalTitle: subject.OriginalTitle,
		Genres:        subject.Genres,
		Countries:     subject.Countries,
	}
	if subject.Rating != nil {
		average := subject.Rating.Average
		details.Rating = &average
	}
	for _, director := range subject.Directors {
		details.Directors = append(details.Directors, director.Name)
	}
	if episode == nil && subject.Images != nil && subject.Images.Large != "" {
		details.ThumbURL = subject.Images.Large
	}
	for _, cast := range subject.Casts {
		member := CastMember{Name: cast.Name}
		if cast.Avatars != nil {
			member.ThumbURL = cast.Avatars.Large
		}
		details.Casts = append(details.Casts, member)
	}

	return details, nil
}

// Image resolves raw image bytes for an absolute URL through the cache.
func (s *Service) Image(ctx context.Context, rawURL string) ([]byte, error) {
	return s.store.GetBytes(ctx, "image:"+rawURL, func(ctx context.Context) ([]byte, error) {
		return s.client.Download(ctx, rawURL)
	})
}

func deref(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
