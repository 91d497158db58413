package webagent

import "context"

// SearchType selects which kind of results a search returns.
type SearchType string

// SearchType constants.
const (
	SearchGeneral SearchType = "general"
	SearchImages  SearchType = "images"
	SearchVideos  SearchType = "videos"
)

// Valid reports whether t is a known search type.
func (t SearchType) Valid() bool {
	switch t {
	case SearchGeneral, SearchImages, SearchVideos:
		return true
	}
	return false
}

// DefaultNum returns the default number of results for the search type.
func (t SearchType) DefaultNum() int {
	if t == SearchGeneral {
		return 5
	}
	return 20
}

// SearchRequest describes a single web search.
type SearchRequest struct {
	Query      string     `json:"query"`
	Type       SearchType `json:"type"`
	SafeSearch bool       `json:"safeSearch"`

	// Num caps the number of results. Zero means Type.DefaultNum().
	Num int `json:"num"`
}

// Validate returns an error if the request contains invalid fields.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return Errorf(EINVALID, "search query required")
	}
	if !r.Type.Valid() {
		return Errorf(EINVALID, "unknown search type %q", r.Type)
	}
	if r.Num < 0 {
		return Errorf(EINVALID, "result count must not be negative")
	}
	return nil
}

// SearchResult is a single search hit. Which fields are set depends on the
// search type: general results carry a snippet, image results an original
// image URL, video results a duration.
type SearchResult struct {
	Position  int    `json:"position,omitempty"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet,omitempty"`
	Source    string `json:"source,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Original  string `json:"original,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Date      string `json:"date,omitempty"`
}

// Searcher runs web searches against a search engine API.
type Searcher interface {
	// Search runs the request and returns at most req.Num results.
	// Returns an empty slice when the engine has no results.
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}
