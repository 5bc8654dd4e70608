package numerals

import (
	"fmt"
	"strings"
)

// Max is the largest integer the codec can express.
const Max = 19

var (
	glyphs = buildGlyphs()
	values = buildValues()
)

func buildGlyphs() []string {
	units := []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	out := make([]string, 0, Max+1)
	out = append(out, units...)
	out = append(out, "十")
	for _, unit := range units[1:] {
		out = append(out, "十"+unit)
	}
	return out
}

func buildValues() map[string]int {
	out := make(map[string]int, len(glyphs))
	for n, glyph := range glyphs {
		out[glyph] = n
	}
	return out
}

// Numeral returns the Chinese numeral for n. The second return value is
// false when n is outside the supported range 0 through Max.
func Numeral(n int) (string, bool) {
	if n < 0 || n > Max {
		return "", false
	}
	return glyphs[n], true
}

// Parse is the inverse of Numeral.
func Parse(numeral string) (int, bool) {
	n, ok := values[numeral]
	return n, ok
}

// SeasonMarker builds the season marker Douban embeds in series titles,
// for example "第二季" for season 2.
func SeasonMarker(n int) (string, bool) {
	numeral, ok := Numeral(n)
	if !ok {
		return "", false
	}
	return "第" + numeral + "季", true
}

// RewriteSeasonMarkers replaces every Chinese-numeral season marker in title
// with its zero-padded decimal form, e.g. "第二季" becomes "第02季". Markers
// for distinct season numbers are textually disjoint, so the replacement is
// idempotent and order-independent.
func RewriteSeasonMarkers(title string) string {
	for n, glyph := range glyphs {
		title = strings.ReplaceAll(title, "第"+glyph+"季", fmt.Sprintf("第%02d季", n))
	}
	return title
}

// EpisodeSuffix returns the display suffix appended to a title when the
// caller knows which episode the file holds, e.g. " 第03集".
func EpisodeSuffix(episode int) string {
	return fmt.Sprintf(" 第%02d集", episode)
}
