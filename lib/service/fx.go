package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/ziflex/lecho/v3"
)

// RateProvider resolves a spot rate between two currency codes.
type RateProvider interface {
	Name() string
	FetchRate(ctx context.Context, from, to string) (float64, error)
}

// httpRateProvider queries a frankfurter-style JSON API:
// GET {base}/latest?from=USD&to=EUR -> {"rates":{"EUR":0.92}}.
// A circuit breaker keeps a dead provider from stalling every conversion.
type httpRateProvider struct {
	name    string
	baseUrl string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newHTTPRateProvider(name, baseUrl string, timeout time.Duration) *httpRateProvider {
	return &httpRateProvider{
		name:    name,
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
		}),
	}
}

func (p *httpRateProvider) Name() string { return p.name }

func (p *httpRateProvider) FetchRate(ctx context.Context, from, to string) (float64, error) {
	rate, err := p.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/latest?from=%s&to=%s", p.baseUrl, from, to)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0.0, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return 0.0, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return 0.0, fmt.Errorf("%s: unexpected status %d", p.name, resp.StatusCode)
		}
		body := struct {
			Rates map[string]float64 `json:"rates"`
		}{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return 0.0, err
		}
		rate, ok := body.Rates[to]
		if !ok {
			return 0.0, fmt.Errorf("%s: no rate for %s/%s", p.name, from, to)
		}
		return rate, nil
	})
	if err != nil {
		return 0, err
	}
	return rate.(float64), nil
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
	ttl       time.Duration
}

// CurrencyConverter resolves spot rates through a tiered lookup: primary
// provider, secondary provider, static fallback table, identity. It never
// fails: an unavailable rate source degrades to a stale or 1:1 rate rather
// than blocking a posting. That tradeoff is logged every time it happens.
type CurrencyConverter struct {
	providers []RateProvider
	fallback  map[string]float64

	mu    sync.Mutex
	cache map[string]cachedRate
	ttl   time.Duration
	// fallback and identity rates are cached much shorter than provider
	// rates, so a recovered provider is consulted again quickly
	fallbackTTL time.Duration

	logger *lecho.Logger
}

// usdPerUnit is the static last-resort table: approximate USD value of one
// unit of each currency, used to derive cross rates when every provider is
// down. Deliberately coarse; its use is a logged degradation.
var usdPerUnit = map[string]float64{
	"USD": 1,
	"EUR": 1.08,
	"GBP": 1.27,
	"CHF": 1.13,
	"CAD": 0.73,
	"AUD": 0.66,
	"JPY": 0.0068,
	"INR": 0.012,
	"CNY": 0.14,
}

func NewCurrencyConverter(c *Config, logger *lecho.Logger) *CurrencyConverter {
	timeout := time.Duration(c.FxRequestTimeout) * time.Second
	providers := []RateProvider{}
	if c.FxPrimaryUrl != "" {
		providers = append(providers, newHTTPRateProvider("fx-primary", c.FxPrimaryUrl, timeout))
	}
	if c.FxSecondaryUrl != "" {
		providers = append(providers, newHTTPRateProvider("fx-secondary", c.FxSecondaryUrl, timeout))
	}
	return &CurrencyConverter{
		providers:   providers,
		fallback:    usdPerUnit,
		cache:       make(map[string]cachedRate),
		ttl:         time.Duration(c.FxCacheTTL) * time.Second,
		fallbackTTL: time.Minute,
		logger:      logger,
	}
}

// Convert returns amount expressed in the target currency, rounded to
// cents. Identity conversions return the amount untouched without an FX
// lookup or cache entry.
func (c *CurrencyConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Mul(c.Rate(ctx, from, to)).Round(2)
}

// Rate resolves the spot rate for a currency pair through the tier chain.
func (c *CurrencyConverter) Rate(ctx context.Context, from, to string) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	key := from + "/" + to

	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && time.Since(entry.fetchedAt) < entry.ttl {
		c.mu.Unlock()
		return entry.rate
	}
	c.mu.Unlock()

	rate, degraded := c.resolve(ctx, from, to)
	ttl := c.ttl
	if degraded {
		ttl = c.fallbackTTL
	}
	c.mu.Lock()
	c.cache[key] = cachedRate{rate: rate, fetchedAt: time.Now(), ttl: ttl}
	c.mu.Unlock()
	return rate
}

// resolve walks the rate tiers. The second return value reports a degraded
// result (static table or identity) that should only be cached briefly.
func (c *CurrencyConverter) resolve(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	for _, provider := range c.providers {
		rate, err := provider.FetchRate(ctx, from, to)
		if err != nil {
			c.logger.Warnf("FX provider %s failed for %s/%s: %v", provider.Name(), from, to, err)
			continue
		}
		if positiveFinite(rate) {
			return decimal.NewFromFloat(rate), false
		}
		c.logger.Warnf("FX provider %s returned unusable rate %v for %s/%s", provider.Name(), rate, from, to)
	}

	if fromUsd, ok := c.fallback[from]; ok {
		if toUsd, ok := c.fallback[to]; ok && positiveFinite(fromUsd/toUsd) {
			c.logger.Warnf("FX using static fallback rate for %s/%s", from, to)
			return decimal.NewFromFloat(fromUsd / toUsd), true
		}
	}

	// availability over accuracy: a posting is never blocked by a dead
	// rate source, the conversion silently becomes 1:1
	c.logger.Errorf("FX exhausted all rate sources for %s/%s, using identity rate", from, to)
	return decimal.NewFromInt(1), true
}

func positiveFinite(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}
