// Package serpapi implements webagent.Searcher on top of the SerpAPI
// Google search endpoints.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/webagent"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the SerpAPI search endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 30 * time.Second

// Ensure Searcher implements webagent.Searcher at compile time.
var _ webagent.Searcher = (*Searcher)(nil)

// engines maps search types to SerpAPI engines.
var engines = map[webagent.SearchType]string{
	webagent.SearchGeneral: "google_light",
	webagent.SearchImages:  "google_images",
	webagent.SearchVideos:  "google_videos",
}

// Searcher queries SerpAPI. Searcher is safe for concurrent use.
type Searcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(u string) Option {
	return func(s *Searcher) {
		s.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		s.client = c
	}
}

// WithRateLimit limits searches to rps requests per second, to stay within
// the account quota. Zero or less disables limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Searcher) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewSearcher creates a new Searcher authenticated with apiKey.
func NewSearcher(apiKey string, opts ...Option) *Searcher {
	s := &Searcher{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the request and returns at most req.Num results.
func (s *Searcher) Search(ctx context.Context, req webagent.SearchRequest) ([]webagent.SearchResult, error) {
	if req.Type == "" {
		req.Type = webagent.SearchGeneral
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.apiKey == "" {
		return nil, webagent.Errorf(webagent.EINVALID, "SerpAPI key required")
	}
	num := req.Num
	if num == 0 {
		num = req.Type.DefaultNum()
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	searchURL, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, webagent.Errorf(webagent.EINVALID, "invalid base URL: %v", err)
	}
	q := searchURL.Query()
	q.Set("engine", engines[req.Type])
	q.Set("q", req.Query)
	q.Set("google_domain", "google.com")
	q.Set("hl", "en")
	q.Set("safe", safeParam(req.SafeSearch))
	q.Set("num", strconv.Itoa(num))
	q.Set("api_key", s.apiKey)
	searchURL.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serpapi: reading response: %w", err)
	}

	var body response
	if err := json.Unmarshal(data, &body); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("serpapi: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("serpapi: decoding response: %w", err)
	}
	if body.Error != "" {
		// SerpAPI reports an empty result set as an error message.
		if resp.StatusCode == http.StatusOK && isNoResults(body.Error) {
			return []webagent.SearchResult{}, nil
		}
		return nil, fmt.Errorf("serpapi: %s", body.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: HTTP %d", resp.StatusCode)
	}

	return body.results(req.Type, num), nil
}

func safeParam(safe bool) string {
	if safe {
		return "active"
	}
	return "off"
}

func isNoResults(msg string) bool {
	return msg == "Google hasn't returned any results for this query."
}

type response struct {
	Error          string `json:"error"`
	OrganicResults []item `json:"organic_results"`
	ImagesResults  []item `json:"images_results"`
	VideoResults   []item `json:"video_results"`
	VideosResults  []item `json:"videos_results"`
}

type item struct {
	Position  int             `json:"position"`
	Title     string          `json:"title"`
	Link      string          `json:"link"`
	Snippet   string          `json:"snippet"`
	Source    string          `json:"source"`
	Thumbnail json.RawMessage `json:"thumbnail"`
	Original  string          `json:"original"`
	Duration  string          `json:"duration"`
	Date      string          `json:"date"`
}

func (r *response) results(t webagent.SearchType, num int) []webagent.SearchResult {
	var items []item
	switch t {
	case webagent.SearchImages:
		items = r.ImagesResults
	case webagent.SearchVideos:
		items = r.VideoResults
		if len(items) == 0 {
			items = r.VideosResults
		}
	default:
		items = r.OrganicResults
	}
	if len(items) > num {
		items = items[:num]
	}

	results := make([]webagent.SearchResult, 0, len(items))
	for _, it := range items {
		results = append(results, webagent.SearchResult{
			Position:  it.Position,
			Title:     it.Title,
			Link:      it.Link,
			Snippet:   it.Snippet,
			Source:    it.Source,
			Thumbnail: stringValue(it.Thumbnail),
			Original:  it.Original,
			Duration:  it.Duration,
			Date:      it.Date,
		})
	}
	return results
}

// stringValue returns raw as a string if it is a JSON string. Some engines
// return thumbnails as objects, which are dropped.
func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
