package calendarApi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const requestIDHeader = "X-Request-Id"

// Client talks to the event calendar backend. It owns the admin session token
// and the holiday cache; create one per application and share it.
type Client struct {
	cfg        Config
	httpClient *resty.Client
	tokens     *TokenStore
	cache      *HolidayCache
	logger     zerolog.Logger
	now        func() time.Time

	// retryStep is the linear backoff step of the schedule list fetch
	retryStep time.Duration
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient makes resty send through hc
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = resty.NewWithClient(hc)
	}
}

// WithClock replaces time.Now for the client and its cache
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithCache shares an existing holiday cache
func WithCache(cache *HolidayCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	endpoint, err := cfg.endpoint()
	if err != nil {
		return nil, eris.Wrap(err, "invalid calendar api address")
	}

	c := &Client{
		cfg:       cfg,
		tokens:    &TokenStore{},
		logger:    log.With().Str("component", "calendar").Logger(),
		now:       time.Now,
		retryStep: scheduleRetryStep,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = resty.New()
	}
	if c.cache == nil {
		c.cache, err = NewHolidayCache(cfg.CacheSize, cfg.CacheTTL, c.now)
		if err != nil {
			return nil, err
		}
	}

	c.httpClient.
		SetBaseURL(endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetLogger(restyLogger{c.logger})

	c.httpClient.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		c.logger.Debug().Str("method", r.Method).Str("url", r.URL).Msg("api request")
		return nil
	})
	c.httpClient.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		c.logger.Debug().
			Str("method", r.Request.Method).
			Str("url", r.Request.URL).
			Int("status", r.StatusCode()).
			Dur("took", r.Time()).
			Msg("api response")
		return nil
	})

	return c, nil
}

func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) Cache() *HolidayCache {
	return c.cache
}

func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// IsAdminAuthenticated reports whether an admin token is held. It turns false
// after a logout or after any request answered with 401.
func (c *Client) IsAdminAuthenticated() bool {
	return c.tokens.Has()
}

// request prepares a call carrying the session token and a fresh request id
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())

	if token := c.tokens.Get(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// execute sends req and returns the response body. Every failure comes back as *APIError.
func (c *Client) execute(req *resty.Request, method string, path string) ([]byte, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Msg("api request failed")
		return nil, transportError(err)
	}

	if resp.IsError() {
		apiErr := responseError(resp.StatusCode(), resp.Body())
		if apiErr.Kind == KindUnauthorized && c.tokens.Has() {
			c.tokens.Clear()
			c.logger.Warn().Msg("admin token rejected, session cleared")
		}
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", apiErr.Status).
			Str("kind", apiErr.Kind.String()).
			Msg("api request rejected")
		return nil, apiErr
	}

	return resp.Body(), nil
}

// decode unmarshals the JSON found at res into v
func decode(res gjson.Result, v any) error {
	if !res.Exists() {
		return eris.New("response didn't contain any result")
	}
	if err := json.Unmarshal([]byte(res.Raw), v); err != nil {
		return eris.Wrap(err, "response format incorrect")
	}
	return nil
}

// pickObject returns the "data" envelope when present, the document otherwise
func pickObject(body []byte) gjson.Result {
	root := gjson.ParseBytes(body)
	if data := root.Get("data"); data.Exists() && data.IsObject() {
		return data
	}
	return root
}

// pickArray returns the document when it is an array itself, otherwise the
// first array found under one of paths
func pickArray(body []byte, paths ...string) gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root
	}
	for _, path := range paths {
		if res := root.Get(path); res.IsArray() {
			return res
		}
	}
	return gjson.Result{}
}

// decodeList decodes an array wherever the backend put it, an answer without
// any array is an empty list
func decodeList[T any](body []byte, paths ...string) ([]T, error) {
	res := pickArray(body, paths...)
	if !res.Exists() {
		return []T{}, nil
	}
	var list []T
	if err := decode(res, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msg(fmt.Sprintf(format, v...))
}
