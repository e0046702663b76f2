// Package gif implements the Tenor search client used by the gif command.
package gif

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prbot/prbot/pkg/errors"
)

const (
	defaultBaseURL = "https://g.tenor.com/v1"
	searchLimit    = "3"
	requestTimeout = 10 * time.Second
)

// Client queries an animated-image search service
type Client interface {
	// QueryFirstMatch returns the URL of the first tiny gif matching the
	// query, or an empty string when nothing matches.
	QueryFirstMatch(ctx context.Context, query string) (string, error)
}

// tenorClient implements Client against the Tenor v1 API
type tenorClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Tenor client with the given API key
func NewClient(apiKey string) Client {
	return &tenorClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL creates a Tenor client against a custom endpoint.
// Used by tests.
func NewClientWithBaseURL(apiKey, baseURL string) Client {
	return &tenorClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type tenorMedia struct {
	URL string `json:"url"`
}

type tenorResult struct {
	Media []map[string]tenorMedia `json:"media"`
}

type tenorResponse struct {
	Results []tenorResult `json:"results"`
}

func (c *tenorClient) QueryFirstMatch(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"q":             {query},
		"key":           {c.apiKey},
		"limit":         {searchLimit},
		"locale":        {"en_US"},
		"contentfilter": {"low"},
		"media_filter":  {"basic"},
		"ar_range":      {"all"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to build gif search request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePlatform, "gif search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodePlatform,
			fmt.Sprintf("gif search returned status %d", resp.StatusCode))
	}

	var data tenorResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", errors.Wrap(errors.ErrCodePlatform, "failed to decode gif search response", err)
	}

	// First tinygif wins; other formats are too heavy for comment embeds
	for _, result := range data.Results {
		for _, media := range result.Media {
			if tiny, ok := media["tinygif"]; ok && tiny.URL != "" {
				return tiny.URL, nil
			}
		}
	}
	return "", nil
}
