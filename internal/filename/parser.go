package filename

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsed holds the structured result of release-name parsing. Title is
// always set (possibly empty); the remaining fields are nil when the name
// does not carry them. Episode is only ever set alongside Season.
type Parsed struct {
	Title   string
	Year    *int
	Season  *int
	Episode *int
}

// seasonEpisodePattern matches the dot-separated season marker, with an
// optional episode part, after separators have been canonicalized to dots.
var seasonEpisodePattern = regexp.MustCompile(`\.s([0-9]+)(e([0-9]+))?`)

// releaseSuffixes are metadata tags that only ever appear after the title.
// The first occurrence of any of them truncates the working string.
var releaseSuffixes = []string{
	"repack", "unrated",
	"480p", "720p", "1080i", "1080p", "4k",
	"web", "web-dl", "bluray", "blu-ray", "hdtv",
	"dd5.1", "dts", "ddp5.1", "avc",
	"x264", "x.264", "h264", "h.264",
}

const (
	minYear = 1900
	maxYear = 2100
)

// Parse extracts (title, year, season, episode) from a release name.
func Parse(name string) Parsed {
	var parsed Parsed

	work := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	end := len(work)

	if m := seasonEpisodePattern.FindStringSubmatchIndex(work); m != nil {
		if season, err := strconv.Atoi(work[m[2]:m[3]]); err == nil {
			parsed.Season = &season
			if m[6] >= 0 {
				if episode, err := strconv.Atoi(work[m[6]:m[7]]); err == nil {
					parsed.Episode = &episode
				}
			}
			end = min(end, m[0])
		}
	}

	for _, suffix := range releaseSuffixes {
		if idx := strings.Index(work, suffix); idx != -1 {
			end = min(end, idx)
		}
	}

	tokens := strings.Fields(strings.ReplaceAll(work[:end], ".", " "))
	if len(tokens) > 1 {
		if year, err := strconv.Atoi(tokens[len(tokens)-1]); err == nil && minYear <= year && year <= maxYear {
			parsed.Year = &year
			tokens = tokens[:len(tokens)-1]
		}
	}
	parsed.Title = strings.Join(tokens, " ")

	return parsed
}
