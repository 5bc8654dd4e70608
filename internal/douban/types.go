package douban

// SearchResponse models the paginated search payload.
type SearchResponse struct {
	Count    int       `json:"count"`
	Start    int       `json:"start"`
	Total    int       `json:"total"`
	Subjects []Subject `json:"subjects"`
}

// Subject is one catalog entry. Every field other than ID and Title is
// optional upstream; absence is represented by nil pointers and zero values
// and must be checked before use.
type Subject struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originaltitle"`
	Year          string    `json:"year"`
	Rating        *Rating   `json:"rating"`
	RatingsCount  *int64    `json:"ratings_count"`
	Summary       string    `json:"summary"`
	Directors     []Person  `json:"directors"`
	Casts         []Person  `json:"casts"`
	Genres        []string  `json:"genres"`
	Countries     []string  `json:"countries"`
	Images        *ImageSet `json:"images"`
}

// Rating carries the average score for a subject.
type Rating struct {
	Average float64 `json:"average"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
}

// Person is a director or cast member.
type Person struct {
	Name    string    `json:"name"`
	Avatars *ImageSet `json:"avatars"`
}

// ImageSet holds the poster or avatar URLs at the sizes Douban publishes.
type ImageSet struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}
