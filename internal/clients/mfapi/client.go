// Package mfapi provides NAV history fetching from api.mfapi.in with
// persistent caching and a deterministic synthetic fallback for offline use.
package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/clientdata"
	"github.com/shashank1310/SIPSimulator/internal/domain"
)

const (
	// navDateFormat is the dd-mm-yyyy format used by the provider.
	navDateFormat = "02-01-2006"

	// recentFallbackSize limits the series returned when the requested window
	// contains no observations but the provider has older data. The most
	// recent observations let the simulator apply its backward-match policy.
	recentFallbackSize = 100
)

// Cache is the capability the client needs from a cache implementation.
// clientdata.Repository satisfies it; tests inject a no-op or in-memory cache.
type Cache interface {
	Store(table, key string, v interface{}, ttl time.Duration) error
	GetIfFresh(table, key string, dst interface{}) (bool, error)
	Get(table, key string, dst interface{}) (bool, error)
}

// NopCache is a Cache that stores nothing and never hits.
type NopCache struct{}

func (NopCache) Store(string, string, interface{}, time.Duration) error { return nil }
func (NopCache) GetIfFresh(string, string, interface{}) (bool, error)  { return false, nil }
func (NopCache) Get(string, string, interface{}) (bool, error)         { return false, nil }

// Client fetches NAV histories from api.mfapi.in.
type Client struct {
	baseURL string
	client  *http.Client
	cache   Cache
	navTTL  time.Duration
	listTTL time.Duration
	log     zerolog.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	NAVTTL  time.Duration
	ListTTL time.Duration // TTL for the cached full fund list
	Cache   Cache         // optional; nil disables caching
}

// NewClient creates a new mfapi client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mfapi.in"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.NAVTTL == 0 {
		cfg.NAVTTL = clientdata.TTLNAVHistory
	}
	if cfg.ListTTL == 0 {
		cfg.ListTTL = clientdata.TTLFundList
	}
	var cache Cache = cfg.Cache
	if cache == nil {
		cache = NopCache{}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		navTTL:  cfg.NAVTTL,
		listTTL: cfg.ListTTL,
		log:     log.With().Str("client", "mfapi").Logger(),
	}
}

// cachedSeries is the structure stored in the nav_history cache table.
type cachedSeries struct {
	Points []cachedPoint `msgpack:"points"`
}

type cachedPoint struct {
	Date int64   `msgpack:"d"` // unix seconds, UTC midnight
	NAV  float64 `msgpack:"n"`
}

func toCached(series domain.PriceSeries) cachedSeries {
	out := cachedSeries{Points: make([]cachedPoint, 0, len(series))}
	for _, p := range series {
		out.Points = append(out.Points, cachedPoint{Date: p.Date.Unix(), NAV: p.NAV})
	}
	return out
}

func fromCached(c cachedSeries) domain.PriceSeries {
	out := make(domain.PriceSeries, 0, len(c.Points))
	for _, p := range c.Points {
		out = append(out, domain.PricePoint{Date: time.Unix(p.Date, 0).UTC(), NAV: p.NAV})
	}
	return out
}

func seriesCacheKey(schemeCode string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s", schemeCode, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// navResponse mirrors the provider's JSON shape. NAV values are strings.
type navResponse struct {
	Meta struct {
		FundHouse      string `json:"fund_house"`
		SchemeType     string `json:"scheme_type"`
		SchemeCategory string `json:"scheme_category"`
		SchemeCode     int    `json:"scheme_code"`
		SchemeName     string `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
}

// GetPriceSeries returns NAV observations for the scheme within [start, end].
// Lookup order: fresh cache, live fetch, stale cache, synthetic fallback.
// An empty series (no error) means the provider has no data for the scheme.
func (c *Client) GetPriceSeries(ctx context.Context, schemeCode string, start, end time.Time) (domain.PriceSeries, error) {
	cacheKey := seriesCacheKey(schemeCode, start, end)

	var cached cachedSeries
	if ok, err := c.cache.GetIfFresh("nav_history", cacheKey, &cached); err == nil && ok {
		c.log.Debug().Str("scheme", schemeCode).Msg("NAV cache hit")
		return fromCached(cached), nil
	}

	series, err := c.fetchSeries(ctx, schemeCode, start, end)
	if err != nil {
		// Provider failed - stale data is better than no data.
		if ok, cacheErr := c.cache.Get("nav_history", cacheKey, &cached); cacheErr == nil && ok {
			c.log.Warn().Err(err).Str("scheme", schemeCode).Msg("Provider failed, using stale cached NAV series")
			return fromCached(cached), nil
		}

		c.log.Warn().Err(err).Str("scheme", schemeCode).Msg("Provider failed, generating synthetic NAV series")
		return GenerateSyntheticSeries(schemeCode, start, end), nil
	}

	if err := c.cache.Store("nav_history", cacheKey, toCached(series), c.navTTL); err != nil {
		c.log.Warn().Err(err).Str("scheme", schemeCode).Msg("Failed to cache NAV series")
	}

	return series, nil
}

// fetchSeries performs the live provider request and normalizes the result.
func (c *Client) fetchSeries(ctx context.Context, schemeCode string, start, end time.Time) (domain.PriceSeries, error) {
	var resp navResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mf/%s", c.baseURL, schemeCode), &resp); err != nil {
		return nil, err
	}

	all := make(domain.PriceSeries, 0, len(resp.Data))
	for _, row := range resp.Data {
		date, err := time.Parse(navDateFormat, row.Date)
		if err != nil {
			continue
		}
		nav, err := strconv.ParseFloat(row.NAV, 64)
		if err != nil || nav <= 0 {
			continue
		}
		all = append(all, domain.PricePoint{Date: date.UTC(), NAV: nav})
	}

	all = Normalize(all)
	if len(all) == 0 {
		// Scheme exists but has no usable observations.
		return domain.PriceSeries{}, nil
	}

	windowed := window(all, start, end)
	if len(windowed) > 0 {
		return windowed, nil
	}

	// No observations inside the window: fall back to the most recent
	// observations at or before the window end so the simulator can still
	// apply its backward-match policy.
	before := window(all, time.Time{}, end)
	if len(before) > recentFallbackSize {
		before = before[len(before)-recentFallbackSize:]
	}
	return before, nil
}

// window returns the observations within [start, end]. A zero start means
// "from the beginning"; a zero end means "to the latest observation".
func window(series domain.PriceSeries, start, end time.Time) domain.PriceSeries {
	out := make(domain.PriceSeries, 0, len(series))
	for _, p := range series {
		if !start.IsZero() && p.Date.Before(start) {
			continue
		}
		if !end.IsZero() && p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Normalize sorts observations by date and drops duplicate dates, keeping the
// first occurrence. The result satisfies the PriceSeries invariant.
func Normalize(series domain.PriceSeries) domain.PriceSeries {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	out := series[:0]
	var last time.Time
	for _, p := range series {
		if len(out) > 0 && p.Date.Equal(last) {
			continue
		}
		out = append(out, p)
		last = p.Date
	}
	return out
}

// FundInfo holds fund metadata plus a short trailing NAV window for charts.
type FundInfo struct {
	FundName       string              `json:"fund_name"`
	SchemeCode     string              `json:"scheme_code"`
	FundHouse      string              `json:"fund_house"`
	SchemeType     string              `json:"scheme_type"`
	SchemeCategory string              `json:"scheme_category"`
	NAVData        []domain.PricePoint `json:"nav_data"`
}

// GetFundInfo returns metadata and the last 30 NAV observations for a scheme.
func (c *Client) GetFundInfo(ctx context.Context, schemeCode string) (*FundInfo, error) {
	var cached FundInfo
	if ok, err := c.cache.GetIfFresh("fund_meta", schemeCode, &cached); err == nil && ok {
		return &cached, nil
	}

	var resp navResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mf/%s", c.baseURL, schemeCode), &resp); err != nil {
		if ok, cacheErr := c.cache.Get("fund_meta", schemeCode, &cached); cacheErr == nil && ok {
			c.log.Warn().Err(err).Str("scheme", schemeCode).Msg("Provider failed, using stale fund metadata")
			return &cached, nil
		}
		return nil, fmt.Errorf("failed to fetch fund info for %s: %w", schemeCode, err)
	}

	recent := make([]domain.PricePoint, 0, 30)
	for i, row := range resp.Data {
		if i >= 30 {
			break
		}
		date, err := time.Parse(navDateFormat, row.Date)
		if err != nil {
			continue
		}
		nav, err := strconv.ParseFloat(row.NAV, 64)
		if err != nil {
			continue
		}
		recent = append(recent, domain.PricePoint{Date: date.UTC(), NAV: nav})
	}

	info := &FundInfo{
		FundName:       resp.Meta.FundHouse + " - " + resp.Meta.SchemeName,
		SchemeCode:     strconv.Itoa(resp.Meta.SchemeCode),
		FundHouse:      resp.Meta.FundHouse,
		SchemeType:     resp.Meta.SchemeType,
		SchemeCategory: resp.Meta.SchemeCategory,
		NAVData:        recent,
	}

	if err := c.cache.Store("fund_meta", schemeCode, info, clientdata.TTLFundMeta); err != nil {
		c.log.Warn().Err(err).Str("scheme", schemeCode).Msg("Failed to cache fund metadata")
	}

	return info, nil
}

// listEntry mirrors the provider's full fund list JSON shape.
type listEntry struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

// ListFunds returns the provider's full fund list, cached for a day.
// limit caps the number of entries (0 means no cap).
func (c *Client) ListFunds(ctx context.Context, limit int) ([]domain.Fund, error) {
	var cached []domain.Fund
	if ok, err := c.cache.GetIfFresh("fund_list", "all", &cached); err == nil && ok {
		return capFunds(cached, limit), nil
	}

	var entries []listEntry
	if err := c.getJSON(ctx, c.baseURL+"/mf", &entries); err != nil {
		if ok, cacheErr := c.cache.Get("fund_list", "all", &cached); cacheErr == nil && ok {
			c.log.Warn().Err(err).Msg("Provider failed, using stale fund list")
			return capFunds(cached, limit), nil
		}
		return nil, fmt.Errorf("failed to fetch fund list: %w", err)
	}

	funds := make([]domain.Fund, 0, len(entries))
	for _, e := range entries {
		if e.SchemeCode == 0 || e.SchemeName == "" {
			continue
		}
		funds = append(funds, domain.Fund{
			SchemeCode: strconv.Itoa(e.SchemeCode),
			FundName:   e.SchemeName,
		})
	}

	if err := c.cache.Store("fund_list", "all", funds, c.listTTL); err != nil {
		c.log.Warn().Err(err).Msg("Failed to cache fund list")
	}

	return capFunds(funds, limit), nil
}

func capFunds(funds []domain.Fund, limit int) []domain.Fund {
	if limit > 0 && len(funds) > limit {
		return funds[:limit]
	}
	return funds
}

func (c *Client) getJSON(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse provider response: %w", err)
	}
	return nil
}
