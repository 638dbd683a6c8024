package kagi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL   = "https://kagi.com/api"
	defaultUserAgent = "kagi-go/0.1"

	endpointFastGPT    = "/v0/fastgpt"
	endpointEnrichWeb  = "/v0/enrich/web"
	endpointEnrichNews = "/v0/enrich/news"
	endpointSummarize  = "/v0/summarize"

	// maxErrorBody bounds how much of a failed response is read while
	// looking for an error payload.
	maxErrorBody = 1 << 20 // 1 MiB
)

// Client calls the Kagi HTTP API. Construct one with NewClient; the zero
// value is not usable.
type Client struct {
	token   string
	baseURL string
	ua      string
	http    *http.Client
	log     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (useful for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom http.Client (e.g. with a proxy or custom
// timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.ua = ua }
}

// WithLogger enables debug logging of API calls. Bodies and the token
// are never logged.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient constructs a Client authenticated with the given API token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		ua:      defaultUserAgent,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FastGPT asks the FastGPT model to answer a query, grounded in web
// results that come back as references.
func (c *Client) FastGPT(ctx context.Context, req FastGPTRequest) (*FastGPTResponse, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	payload := struct {
		Query string `json:"query"`
		Cache bool   `json:"cache"`
	}{Query: req.Query, Cache: true}
	if req.Cache != nil {
		payload.Cache = *req.Cache
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &RequestError{Endpoint: endpointFastGPT, Err: err}
	}
	raw, err := c.do(ctx, http.MethodPost, endpointFastGPT, nil, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return parseFastGPT(raw)
}

// EnrichWeb queries the Teclis index for non-commercial web results
// related to the query.
func (c *Client) EnrichWeb(ctx context.Context, q string) (*EnrichResponse, error) {
	return c.enrich(ctx, endpointEnrichWeb, q)
}

// EnrichNews queries the TinyGem index for non-commercial news results
// related to the query.
func (c *Client) EnrichNews(ctx context.Context, q string) (*EnrichResponse, error) {
	return c.enrich(ctx, endpointEnrichNews, q)
}

func (c *Client) enrich(ctx context.Context, endpoint, q string) (*EnrichResponse, error) {
	if strings.TrimSpace(q) == "" {
		return nil, &ValidationError{Err: errors.New("query must not be empty")}
	}
	params := url.Values{"q": {q}}
	raw, err := c.do(ctx, http.MethodGet, endpoint, params, "", nil)
	if err != nil {
		return nil, err
	}
	return parseEnrich(raw)
}

// Summarize produces a summary of a document or of raw text. Exactly one
// of req.URL and req.Text must be set.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	form, err := query.Values(req)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	raw, err := c.do(ctx, http.MethodPost, endpointSummarize, nil, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	return parseSummarize(raw)
}

// do performs one authenticated round trip and returns the raw body of a
// successful response. Any failure comes back as a *RequestError naming
// the endpoint.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, contentType string, body io.Reader) ([]byte, error) {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("User-Agent", c.ua)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()
	c.log.Debug("api call",
		"method", method,
		"endpoint", endpoint,
		"status", res.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		reqErr := &RequestError{Endpoint: endpoint, Status: res.StatusCode}
		// Failures carry {"error": [{"code": ..., "msg": ...}]} when the
		// service got far enough to produce one.
		raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if first := gjson.GetBytes(raw, "error.0"); first.Exists() {
			reqErr.Code = int(first.Get("code").Int())
			reqErr.Message = first.Get("msg").String()
		}
		return nil, reqErr
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Status: res.StatusCode, Err: err}
	}
	return raw, nil
}
