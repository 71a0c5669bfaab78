package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/checkout"
	"github.com/noah-isme/toko-cart/internal/config"
	"github.com/noah-isme/toko-cart/internal/events"
	"github.com/noah-isme/toko-cart/internal/obs"
	"github.com/noah-isme/toko-cart/internal/ratelimit"
)

func newTestServer(t *testing.T, client *redis.Client, rateMax int) *httptest.Server {
	t.Helper()
	products, err := catalog.Load("apple, 0.15\nsnickers bar, 0.70\nmars bar, 0.90\n")
	require.NoError(t, err)

	cfg := &config.Config{
		RateLimitWindow:  time.Minute,
		RateLimitMax:     rateMax,
		MaxBodyBytes:     1 << 12,
		IdempotencyTTL:   time.Hour,
		QuoteMaxQuantity: 50,
		SecurityHeaders:  true,
	}
	registry := prometheus.NewRegistry()
	bus := &events.Bus{}
	var quoteLimiter ratelimit.Limiter = ratelimit.NewFixedWindow(nil)
	if client != nil {
		bus.Store = &events.RedisStore{Client: client, Stream: "test:events"}
		quoteLimiter = ratelimit.SlidingWindow{Client: client, Prefix: "test:rl:"}
	}
	svc := &checkout.Service{
		Catalog:     products,
		Validator:   validator.New(),
		Events:      bus,
		Logger:      zerolog.Nop(),
		MaxQuantity: cfg.QuoteMaxQuantity,
	}
	router := newRouter(routerDeps{
		Config:       cfg,
		Logger:       zerolog.Nop(),
		Catalog:      products,
		Quotes:       &checkout.Handler{Svc: svc},
		Redis:        client,
		QuoteLimiter: quoteLimiter,
		ReadLimiter:  ratelimit.NewFixedWindow(nil),
		HTTPMetrics:  obs.NewHTTPMetrics("router_test", nil, registry),
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRouterHealthAndCatalog(t *testing.T) {
	srv := newTestServer(t, nil, 100)

	resp, body := do(t, mustRequest(t, http.MethodGet, srv.URL+"/health/live", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)

	resp, body = do(t, mustRequest(t, http.MethodGet, srv.URL+"/health/ready", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	require.Equal(t, "disabled", status["redis"])
	require.Equal(t, "ok", status["catalog"])

	resp, _ = do(t, mustRequest(t, http.MethodGet, srv.URL+"/api/v1/catalog", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "3", resp.Header.Get("X-Total-Count"))
	require.NotEmpty(t, resp.Header.Get("X-RateLimit-Remaining"))

	resp, body = do(t, mustRequest(t, http.MethodGet, srv.URL+"/metrics", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "router_test_http_requests_total")
}

func TestRouterQuoteWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	srv := newTestServer(t, client, 100)

	body := `{"items":[{"productId":"snickers bar","quantity":2}],"offers":[{"kind":"buy_x_get_y","product":"snickers bar"}]}`
	first := mustRequest(t, http.MethodPost, srv.URL+"/api/v1/quotes", body)
	first.Header.Set("Idempotency-Key", "order-42")
	resp, firstBody := do(t, first)
	require.Equal(t, http.StatusCreated, resp.StatusCode, firstBody)
	require.Contains(t, firstBody, `"grandTotal":"0.7"`)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	replay := mustRequest(t, http.MethodPost, srv.URL+"/api/v1/quotes", body)
	replay.Header.Set("Idempotency-Key", "order-42")
	resp, replayBody := do(t, replay)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	require.Equal(t, firstBody, replayBody)

	resp, _ = do(t, mustRequest(t, http.MethodGet, srv.URL+"/health/ready", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries, err := client.XLen(context.Background(), "test:events").Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), entries)
}

func TestRouterQuoteLimits(t *testing.T) {
	srv := newTestServer(t, nil, 1)
	body := `{"items":[{"productId":"apple","quantity":1}]}`

	resp, _ := do(t, mustRequest(t, http.MethodPost, srv.URL+"/api/v1/quotes", body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, mustRequest(t, http.MethodPost, srv.URL+"/api/v1/quotes", body))
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRouterRejectsLargeBody(t *testing.T) {
	srv := newTestServer(t, nil, 100)
	body := `{"items":[{"productId":"` + strings.Repeat("x", 1<<13) + `","quantity":1}]}`
	resp, _ := do(t, mustRequest(t, http.MethodPost, srv.URL+"/api/v1/quotes", body))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func mustRequest(t *testing.T, method, url, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
