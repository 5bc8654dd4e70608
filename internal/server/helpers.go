package server

import (
	"net/url"
	"strconv"

	"kinocache/internal/numerals"
)

// rewriteTitle canonicalizes a candidate title for display.
func rewriteTitle(title string) string {
	return numerals.RewriteSeasonMarkers(title)
}

// imageLink wraps an upstream image URL so Kodi fetches it through the
// cache instead of the catalog's CDN.
func (s *Server) imageLink(rawURL string) string {
	return s.webroot + "/GetImage?url=" + url.QueryEscape(rawURL)
}

// parseEpisode interprets the episode query parameter, treating anything
// unparseable as absent.
func parseEpisode(value string) *int {
	if value == "" {
		return nil
	}
	episode, err := strconv.Atoi(value)
	if err != nil || episode < 0 {
		return nil
	}
	return &episode
}

// isNumeric reports whether value is a non-empty decimal string, the only
// shape a subject ID takes.
func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
