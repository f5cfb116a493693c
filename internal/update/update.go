// Package update checks a release feed for a newer version of the
// application.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Release describes the latest published version of the application.
type Release struct {
	Version string `json:"tag_name"`
	URL     string `json:"html_url"`
}

// Client queries a release feed and compares against the running
// version.
type Client struct {
	feedURL    string
	version    string
	httpClient *http.Client
}

// NewClient creates an update checker for the given feed URL and
// currently running version string.
func NewClient(feedURL, version string) *Client {
	return &Client{
		feedURL: feedURL,
		version: version,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Check fetches the feed and returns the release only when its version
// is strictly newer than the running one. A nil release with nil error
// means up to date; callers treat network failures the same way.
func (c *Client) Check(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building update request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release feed returned status %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decoding release feed: %w", err)
	}

	if CompareVersions(rel.Version, c.version) > 0 {
		return &rel, nil
	}
	return nil, nil
}

// CompareVersions compares two dotted version strings numerically,
// segment by segment. Missing segments count as zero and the first
// unequal segment decides. A leading "v" is tolerated. Returns -1, 0,
// or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av := segment(as, i)
		bv := segment(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return v
}
