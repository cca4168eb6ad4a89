package mfapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memCache is an in-memory Cache for tests, with msgpack round-tripping to
// mirror the real repository.
type memCache struct {
	mu    sync.Mutex
	rows  map[string][]byte
	fresh map[string]bool
}

func newMemCache() *memCache {
	return &memCache{rows: make(map[string][]byte), fresh: make(map[string]bool)}
}

func (m *memCache) Store(table, key string, v interface{}, _ time.Duration) error {
	blob, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[table+"/"+key] = blob
	m.fresh[table+"/"+key] = true
	return nil
}

func (m *memCache) GetIfFresh(table, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.fresh[table+"/"+key] {
		return false, nil
	}
	blob, ok := m.rows[table+"/"+key]
	if !ok {
		return false, nil
	}
	return true, msgpack.Unmarshal(blob, dst)
}

func (m *memCache) Get(table, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.rows[table+"/"+key]
	if !ok {
		return false, nil
	}
	return true, msgpack.Unmarshal(blob, dst)
}

func (m *memCache) expireAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.fresh {
		m.fresh[k] = false
	}
}

const navJSON = `{
	"meta": {
		"fund_house": "Test House",
		"scheme_type": "Open Ended",
		"scheme_category": "Equity - Large Cap",
		"scheme_code": 100001,
		"scheme_name": "Test Fund"
	},
	"data": [
		{"date": "03-01-2022", "nav": "102.50"},
		{"date": "02-01-2022", "nav": "101.00"},
		{"date": "01-01-2022", "nav": "100.00"},
		{"date": "01-01-2022", "nav": "99.00"},
		{"date": "bad-date", "nav": "50.00"},
		{"date": "04-01-2022", "nav": "not-a-number"},
		{"date": "05-01-2022", "nav": "-3.00"}
	]
}`

func newNAVServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, navJSON)
	}))
}

func newTestClient(baseURL string, cache Cache) *Client {
	return NewClient(Config{BaseURL: baseURL, Cache: cache}, zerolog.Nop())
}

func TestGetPriceSeries_ParsesAndNormalizes(t *testing.T) {
	srv := newNAVServer(t, nil)
	defer srv.Close()

	series, err := newTestClient(srv.URL, nil).GetPriceSeries(
		context.Background(), "100001", date(2022, 1, 1), date(2022, 2, 1))
	require.NoError(t, err)

	// Malformed rows dropped, duplicate date deduped, sorted ascending.
	require.Len(t, series, 3)
	assert.Equal(t, date(2022, 1, 1), series[0].Date)
	assert.Equal(t, 100.0, series[0].NAV)
	assert.Equal(t, date(2022, 1, 3), series[2].Date)
	assert.Equal(t, 102.5, series[2].NAV)
}

func TestGetPriceSeries_CacheHitSkipsProvider(t *testing.T) {
	hits := 0
	srv := newNAVServer(t, &hits)
	defer srv.Close()

	cache := newMemCache()
	client := newTestClient(srv.URL, cache)
	ctx := context.Background()
	start, end := date(2022, 1, 1), date(2022, 2, 1)

	first, err := client.GetPriceSeries(ctx, "100001", start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	second, err := client.GetPriceSeries(ctx, "100001", start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, first, second)
}

func TestGetPriceSeries_StaleCacheOnProviderFailure(t *testing.T) {
	srv := newNAVServer(t, nil)

	cache := newMemCache()
	client := newTestClient(srv.URL, cache)
	ctx := context.Background()
	start, end := date(2022, 1, 1), date(2022, 2, 1)

	warm, err := client.GetPriceSeries(ctx, "100001", start, end)
	require.NoError(t, err)
	require.Len(t, warm, 3)

	srv.Close()
	cache.expireAll()

	stale, err := client.GetPriceSeries(ctx, "100001", start, end)
	require.NoError(t, err)
	assert.Equal(t, warm, stale)
}

func TestGetPriceSeries_SyntheticFallback(t *testing.T) {
	srv := newNAVServer(t, nil)
	srv.Close() // provider down, empty cache

	series, err := newTestClient(srv.URL, nil).GetPriceSeries(
		context.Background(), "100001", date(2022, 1, 1), date(2022, 6, 1))
	require.NoError(t, err)
	assert.NotEmpty(t, series)
}

func TestGetPriceSeries_WindowFallbackToRecent(t *testing.T) {
	srv := newNAVServer(t, nil)
	defer srv.Close()

	// Requested window is after every observation: the client returns the
	// most recent observations at or before the window end instead.
	series, err := newTestClient(srv.URL, nil).GetPriceSeries(
		context.Background(), "100001", date(2023, 1, 1), date(2023, 6, 1))
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, date(2022, 1, 3), series[len(series)-1].Date)
}

func TestGetFundInfo(t *testing.T) {
	srv := newNAVServer(t, nil)
	defer srv.Close()

	info, err := newTestClient(srv.URL, nil).GetFundInfo(context.Background(), "100001")
	require.NoError(t, err)

	assert.Equal(t, "100001", info.SchemeCode)
	assert.Equal(t, "Test House", info.FundHouse)
	assert.Equal(t, "Test House - Test Fund", info.FundName)
	assert.Equal(t, "Equity - Large Cap", info.SchemeCategory)
	assert.NotEmpty(t, info.NAVData)
}

func TestListFunds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"schemeCode": 100001, "schemeName": "Fund One"},
			{"schemeCode": 100002, "schemeName": "Fund Two"},
			{"schemeCode": 0, "schemeName": "Broken"},
			{"schemeCode": 100003, "schemeName": ""}
		]`)
	}))
	defer srv.Close()

	funds, err := newTestClient(srv.URL, nil).ListFunds(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, funds, 2)
	assert.Equal(t, domain.Fund{SchemeCode: "100001", FundName: "Fund One"}, funds[0])

	capped, err := newTestClient(srv.URL, nil).ListFunds(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestNormalize(t *testing.T) {
	series := domain.PriceSeries{
		{Date: date(2022, 1, 3), NAV: 3},
		{Date: date(2022, 1, 1), NAV: 1},
		{Date: date(2022, 1, 1), NAV: 99},
		{Date: date(2022, 1, 2), NAV: 2},
	}
	got := Normalize(series)
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].NAV) // first occurrence wins
	assert.Equal(t, 2.0, got[1].NAV)
	assert.Equal(t, 3.0, got[2].NAV)
}

func TestGenerateSyntheticSeries_Deterministic(t *testing.T) {
	start, end := date(2020, 1, 1), date(2023, 1, 1)

	a := GenerateSyntheticSeries("122639", start, end)
	b := GenerateSyntheticSeries("122639", start, end)
	assert.Equal(t, a, b)

	other := GenerateSyntheticSeries("120503", start, end)
	assert.NotEqual(t, a, other)
}

func TestGenerateSyntheticSeries_ShapeAndBounds(t *testing.T) {
	start, end := date(2020, 1, 1), date(2021, 1, 1)
	series := GenerateSyntheticSeries("100001", start, end)

	require.Len(t, series, 13) // first-of-month points, both boundary months
	for i, p := range series {
		assert.Greater(t, p.NAV, 0.0)
		assert.Equal(t, 1, p.Date.Day())
		if i > 0 {
			assert.True(t, series[i-1].Date.Before(p.Date))
		}
	}
	assert.Empty(t, GenerateSyntheticSeries("100001", end, start))
}
