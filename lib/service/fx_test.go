package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/ziflex/lecho/v3"
)

var testLogger = lecho.New(os.Stdout, lecho.WithLevel(log.ERROR))

func rateServer(rate float64, calls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		to := r.URL.Query().Get("to")
		fmt.Fprintf(w, `{"rates":{"%s":%v}}`, to, rate)
	}))
}

func brokenServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
}

func converterFor(primary, secondary string) *CurrencyConverter {
	return NewCurrencyConverter(&Config{
		FxPrimaryUrl:     primary,
		FxSecondaryUrl:   secondary,
		FxCacheTTL:       3600,
		FxRequestTimeout: 2,
	}, testLogger)
}

func TestConvertIdentity(t *testing.T) {
	converter := converterFor("", "")
	amount := dec("123.45")
	assert.True(t, converter.Convert(context.Background(), amount, "USD", "USD").Equal(amount))
}

func TestConvertUsesPrimaryProvider(t *testing.T) {
	server := rateServer(0.5, nil)
	defer server.Close()

	converter := converterFor(server.URL, "")
	converted := converter.Convert(context.Background(), dec("100.00"), "USD", "EUR")
	assert.True(t, converted.Equal(dec("50.00")), "got %s", converted)
}

func TestConvertRoundsToCents(t *testing.T) {
	server := rateServer(0.3333, nil)
	defer server.Close()

	converter := converterFor(server.URL, "")
	converted := converter.Convert(context.Background(), dec("100.00"), "USD", "EUR")
	assert.True(t, converted.Equal(dec("33.33")), "got %s", converted)
}

func TestConvertFallsBackToSecondaryProvider(t *testing.T) {
	primary := brokenServer()
	defer primary.Close()
	secondary := rateServer(2, nil)
	defer secondary.Close()

	converter := converterFor(primary.URL, secondary.URL)
	converted := converter.Convert(context.Background(), dec("10.00"), "GBP", "USD")
	assert.True(t, converted.Equal(dec("20.00")), "got %s", converted)
}

func TestConvertFallsBackToStaticTable(t *testing.T) {
	primary := brokenServer()
	defer primary.Close()

	converter := converterFor(primary.URL, "")
	// static table: EUR 1.08 USD per unit
	converted := converter.Convert(context.Background(), dec("100.00"), "EUR", "USD")
	assert.True(t, converted.Equal(dec("108.00")), "got %s", converted)
}

func TestConvertIdentityAsLastResort(t *testing.T) {
	primary := brokenServer()
	defer primary.Close()

	converter := converterFor(primary.URL, "")
	// a currency missing from the static table degrades to 1:1
	converted := converter.Convert(context.Background(), dec("75.00"), "USD", "NOK")
	assert.True(t, converted.Equal(dec("75.00")), "got %s", converted)
}

func TestRateIsCached(t *testing.T) {
	calls := 0
	server := rateServer(0.9, &calls)
	defer server.Close()

	converter := converterFor(server.URL, "")
	first := converter.Rate(context.Background(), "USD", "EUR")
	second := converter.Rate(context.Background(), "USD", "EUR")
	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, calls)
}

func TestConvertCanceledContextDegradesImmediately(t *testing.T) {
	server := rateServer(0.5, nil)
	defer server.Close()

	converter := converterFor(server.URL, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the provider request fails right away on a dead context, the
	// conversion still resolves from the static table without blocking
	start := time.Now()
	converted := converter.Convert(ctx, dec("100.00"), "EUR", "USD")
	assert.True(t, converted.Equal(dec("108.00")), "got %s", converted)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFallbackRateNotCachedForFullTTL(t *testing.T) {
	healthy := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"rates":{"USD":0.5}}`)
	}))
	defer server.Close()

	converter := converterFor(server.URL, "")
	converter.fallbackTTL = 0

	// provider down: the rate comes from the static table
	first := converter.Rate(context.Background(), "EUR", "USD")
	assert.True(t, first.Equal(dec("1.08")), "got %s", first)

	// a recovered provider is consulted again instead of serving the
	// degraded rate for the provider-rate TTL
	healthy = true
	second := converter.Rate(context.Background(), "EUR", "USD")
	assert.True(t, second.Equal(dec("0.5")), "got %s", second)
}

func TestRateCacheExpires(t *testing.T) {
	calls := 0
	server := rateServer(0.9, &calls)
	defer server.Close()

	converter := converterFor(server.URL, "")
	converter.ttl = time.Millisecond

	converter.Rate(context.Background(), "USD", "EUR")
	time.Sleep(5 * time.Millisecond)
	converter.Rate(context.Background(), "USD", "EUR")
	assert.Equal(t, 2, calls)
}
