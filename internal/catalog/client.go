// Package catalog provides a client for the key-enumeration endpoint.
//
// The endpoint returns a JSON array of products, each carrying an icon key
// and a list of additional image keys. Enumeration failure of any kind
// (transport, status, schema) is fatal to the whole run: there is nothing
// sensible to process without a key list.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultTimeout is the HTTP client timeout for the enumeration call.
const defaultTimeout = 30 * time.Second

// Entry is one catalog row: an icon image plus any number of gallery images.
// All keys are opaque object-store keys, used verbatim across the source
// store, the local cache, and the destination store.
type Entry struct {
	Icon   string   `json:"icon"`
	Images []string `json:"images"`
}

// SchemaError reports a response that parsed as JSON but violated the
// expected {icon, images} schema.
type SchemaError struct {
	Index  int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog entry %d: %s", e.Index, e.Reason)
}

// Client fetches the image key catalog over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a catalog client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		url:        url,
	}
}

// Fetch performs one GET against the enumeration endpoint and returns the
// validated entries.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	log.Debug().Str("url", c.url).Msg("Fetching image catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog request: status %d: %s", resp.StatusCode, string(body))
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	if err := validate(entries); err != nil {
		return nil, err
	}

	log.Info().Int("entries", len(entries)).Msg("Catalog fetched")
	return entries, nil
}

// validate rejects entries that would produce malformed keys downstream.
func validate(entries []Entry) error {
	for i, e := range entries {
		if e.Icon == "" {
			return &SchemaError{Index: i, Reason: "missing icon key"}
		}
		for _, img := range e.Images {
			if img == "" {
				return &SchemaError{Index: i, Reason: "empty image key"}
			}
		}
	}
	return nil
}

// Keys flattens entries into the ordered key list the pipeline processes:
// each entry contributes its icon key first, then its image keys. Duplicate
// keys are dropped (first occurrence wins) so every key is processed at most
// once per run. limit caps the result when positive.
func Keys(entries []Entry, limit int) []string {
	seen := make(map[string]struct{})
	var keys []string

	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, e := range entries {
		add(e.Icon)
		for _, img := range e.Images {
			add(img)
		}
	}

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
