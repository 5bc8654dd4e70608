package ranking

import (
	"strconv"
	"strings"

	"kinocache/internal/douban"
	"kinocache/internal/numerals"
)

// Rank returns the candidates that survive the year filter, season matches
// first. The result is always a new slice; the input is never mutated.
func Rank(subjects []douban.Subject, year, season *int) []douban.Subject {
	var marker string
	if season != nil {
		// Seasons beyond the codec range cannot appear as a numeral marker,
		// so they simply skip the partition step.
		marker, _ = numerals.SeasonMarker(*season)
	}

	front := make([]douban.Subject, 0, len(subjects))
	back := make([]douban.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if !yearCompatible(subject.Year, year) {
			continue
		}
		if marker != "" && strings.Contains(subject.Title, marker) {
			front = append(front, subject)
		} else {
			back = append(back, subject)
		}
	}
	return append(front, back...)
}

// yearCompatible reports whether a candidate's catalog year is within one
// year of the query year. Missing or unparseable years on either side are
// always compatible.
func yearCompatible(subjectYear string, year *int) bool {
	if year == nil {
		return true
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(subjectYear))
	if err != nil {
		return true
	}
	return parsed-1 <= *year && *year <= parsed+1
}
