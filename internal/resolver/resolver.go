// Package resolver converts free-text locations into carrier codes and
// addresses via the external location-lookup service. Transient lookup
// failures (429, 5xx) are retried a fixed number of times with a constant
// interval; address queries that return no match are progressively broadened
// by dropping their most specific segment. Resolved locations are stable, so
// results are cached through a local LRU tier and a shared Redis tier.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"freightcarbon/internal/errs"
	"freightcarbon/internal/schema"
)

const (
	maxAttempts   = 3
	retryInterval = 500 * time.Millisecond
)

// Location a resolved location: a carrier code for air and sea legs, an
// address for truck legs.
type Location struct {
	Code    string
	Address schema.Address
}

type candidate struct {
	Code        string `json:"code"`
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	Street      string `json:"street"`
}

type lookupResponse struct {
	Results []candidate `json:"results"`
}

// Client location-lookup client with two cache tiers in front of it.
type Client struct {
	lookupURL     string
	client        *http.Client
	local         localCache
	remote        remoteCache
	retryInterval time.Duration
}

func NewClient(lookupURL string, timeout time.Duration, local localCache, remote remoteCache) (*Client, error) {
	if lookupURL == "" {
		return nil, errors.New("lookup url is empty")
	}
	return &Client{
		lookupURL: lookupURL,
		client: &http.Client{
			Timeout: timeout,
		},
		local:         local,
		remote:        remote,
		retryInterval: retryInterval,
	}, nil
}

func (c *Client) ResolveAirport(ctx context.Context, query, countryHint string, limit int) (string, error) {
	loc, err := c.resolveCode(ctx, "airport", query, countryHint, limit)
	if err != nil {
		return "", err
	}
	return loc.Code, nil
}

func (c *Client) ResolveSeaport(ctx context.Context, query, countryHint string, limit int) (string, error) {
	loc, err := c.resolveCode(ctx, "seaport", query, countryHint, limit)
	if err != nil {
		return "", err
	}
	return loc.Code, nil
}

func (c *Client) resolveCode(ctx context.Context, kind, query, countryHint string, limit int) (Location, error) {
	key := cacheKey(kind, query, countryHint)
	if loc, ok := c.cached(ctx, key); ok {
		return loc, nil
	}

	candidates, err := c.fetch(ctx, kind, query, countryHint, limit)
	if err != nil {
		return Location{}, &errs.ResolutionError{Query: query, Err: err}
	}
	if len(candidates) == 0 || candidates[0].Code == "" {
		return Location{}, &errs.ResolutionError{Query: query}
	}

	loc := Location{Code: candidates[0].Code}
	c.save(key, loc)
	return loc, nil
}

// ResolveAddress broadens the query segment by segment until the lookup
// returns a match; it fails only when every broadening step came up empty.
func (c *Client) ResolveAddress(ctx context.Context, query, countryHint string, limit int) (schema.Address, error) {
	key := cacheKey("address", query, countryHint)
	if loc, ok := c.cached(ctx, key); ok {
		return loc.Address, nil
	}

	segments := splitSegments(query)
	for len(segments) > 0 {
		candidates, err := c.fetch(ctx, "address", strings.Join(segments, ", "), countryHint, limit)
		if err != nil {
			return schema.Address{}, &errs.ResolutionError{Query: query, Err: err}
		}
		if len(candidates) > 0 {
			loc := Location{Address: schema.Address{
				Postal:  candidates[0].PostalCode,
				Country: candidates[0].CountryCode,
				City:    candidates[0].City,
				Street:  candidates[0].Street,
			}}
			c.save(key, loc)
			return loc.Address, nil
		}
		// no match: drop the most specific segment and try again
		log.Debug().Str("query", query).Int("segments", len(segments)-1).Msg("broadening address query")
		segments = segments[1:]
	}

	return schema.Address{}, &errs.ResolutionError{Query: query}
}

func (c *Client) fetch(ctx context.Context, kind, query, countryHint string, limit int) ([]candidate, error) {
	operation := func() ([]candidate, error) {
		params := url.Values{}
		params.Set("kind", kind)
		params.Set("q", query)
		if countryHint != "" {
			params.Set("country", countryHint)
		}
		params.Set("limit", strconv.Itoa(limit))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lookupURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				log.Error().Msg("couldn't close a body")
				return
			}
		}(resp.Body)

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("location lookup returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("location lookup returned status %d: %s", resp.StatusCode, body))
		}

		var out lookupResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("err during unmarshaling of a lookup response: %s", err))
		}
		return out.Results, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryInterval)),
		backoff.WithMaxTries(maxAttempts))
}

func (c *Client) cached(ctx context.Context, key string) (Location, bool) {
	if loc, ok := c.local.Get(key); ok {
		return loc, true
	}
	loc, err := c.remote.Get(ctx, key)
	if err != nil {
		return Location{}, false
	}
	c.local.Set(key, loc)
	return loc, true
}

func (c *Client) save(key string, loc Location) {
	c.local.Set(key, loc)
	c.remote.SetAsync(key, loc)
}

func cacheKey(kind, query, countryHint string) string {
	return kind + ":" + strings.ToLower(countryHint) + ":" + strings.ToLower(strings.TrimSpace(query))
}

func splitSegments(query string) []string {
	parts := strings.Split(query, ",")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
