package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"freightcarbon/internal/errs"
	"freightcarbon/internal/schema"
)

type localCacheMock struct {
	mu    sync.Mutex
	items map[string]Location
}

func newLocalCacheMock() *localCacheMock {
	return &localCacheMock{items: make(map[string]Location)}
}

func (m *localCacheMock) Get(key string) (Location, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.items[key]
	return loc, ok
}

func (m *localCacheMock) Set(key string, value Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

type remoteCacheMock struct {
	mu    sync.Mutex
	items map[string]Location
}

func newRemoteCacheMock() *remoteCacheMock {
	return &remoteCacheMock{items: make(map[string]Location)}
}

func (m *remoteCacheMock) Get(ctx context.Context, key string) (Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.items[key]
	if !ok {
		return Location{}, errors.New("miss")
	}
	return loc, nil
}

func (m *remoteCacheMock) SetAsync(key string, value Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func newTestClient(t *testing.T, url string) (*Client, *localCacheMock, *remoteCacheMock) {
	t.Helper()
	local := newLocalCacheMock()
	remote := newRemoteCacheMock()
	client, err := NewClient(url, time.Second, local, remote)
	require.NoError(t, err)
	client.retryInterval = time.Millisecond
	return client, local, remote
}

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("", time.Second, newLocalCacheMock(), newRemoteCacheMock())
	require.Error(t, err)
}

func TestResolveAirport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "airport", r.URL.Query().Get("kind"))
		require.Equal(t, "London Heathrow", r.URL.Query().Get("q"))
		require.Equal(t, "GB", r.URL.Query().Get("country"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"results":[{"code":"LHR"},{"code":"LGW"}]}`))
	}))
	defer server.Close()

	client, local, remote := newTestClient(t, server.URL)

	code, err := client.ResolveAirport(context.Background(), "London Heathrow", "GB", 5)
	require.NoError(t, err)
	require.Equal(t, "LHR", code)

	// the first candidate is cached in both tiers
	key := cacheKey("airport", "London Heathrow", "GB")
	cached, ok := local.Get(key)
	require.True(t, ok)
	require.Equal(t, "LHR", cached.Code)
	cached, err = remote.Get(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, "LHR", cached.Code)
}

func TestResolveAirport_LocalCacheHitSkipsLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("lookup must not be called on a cache hit")
	}))
	defer server.Close()

	client, local, _ := newTestClient(t, server.URL)
	local.Set(cacheKey("airport", "London Heathrow", "GB"), Location{Code: "LHR"})

	code, err := client.ResolveAirport(context.Background(), "London Heathrow", "GB", 5)
	require.NoError(t, err)
	require.Equal(t, "LHR", code)
}

func TestResolveAirport_RemoteCacheHitWarmsLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("lookup must not be called on a cache hit")
	}))
	defer server.Close()

	client, local, remote := newTestClient(t, server.URL)
	key := cacheKey("airport", "London Heathrow", "GB")
	remote.SetAsync(key, Location{Code: "LHR"})

	code, err := client.ResolveAirport(context.Background(), "London Heathrow", "GB", 5)
	require.NoError(t, err)
	require.Equal(t, "LHR", code)

	cached, ok := local.Get(key)
	require.True(t, ok)
	require.Equal(t, "LHR", cached.Code)
}

func TestResolveSeaport_RetriesTransientFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"results":[{"code":"DEHAM"}]}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	code, err := client.ResolveSeaport(context.Background(), "Hamburg", "DE", 5)
	require.NoError(t, err)
	require.Equal(t, "DEHAM", code)
	require.Equal(t, 3, calls)
}

func TestResolveSeaport_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	_, err := client.ResolveSeaport(context.Background(), "Hamburg", "DE", 5)
	var resErr *errs.ResolutionError
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, maxAttempts, calls)
}

func TestResolveAirport_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	_, err := client.ResolveAirport(context.Background(), "Atlantis", "", 5)
	var resErr *errs.ResolutionError
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, "Atlantis", resErr.Query)
}

func TestResolveAddress_BroadensQuery(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if q == "Hamburg" {
			w.Write([]byte(`{"results":[{"postalCode":"20457","countryCode":"DE","city":"Hamburg"}]}`))
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	addr, err := client.ResolveAddress(context.Background(), "Am Sandtorkai 1, Speicherstadt, Hamburg", "DE", 5)
	require.NoError(t, err)
	require.Equal(t, schema.Address{Postal: "20457", Country: "DE", City: "Hamburg"}, addr)
	require.Equal(t, []string{
		"Am Sandtorkai 1, Speicherstadt, Hamburg",
		"Speicherstadt, Hamburg",
		"Hamburg",
	}, queries)
}

func TestResolveAddress_AllSegmentsExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	_, err := client.ResolveAddress(context.Background(), "Nowhere, Lost", "", 5)
	var resErr *errs.ResolutionError
	require.ErrorAs(t, err, &resErr)
}
