// Package api is the HTTP client for the remote coaching service: plan
// generation, exercise video search and per-session follow-up questions.
// Every failure is returned as a ValidationError, TransportError or
// MalformedResponseError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/zjrosen/fitcoach/internal/config"
	"github.com/zjrosen/fitcoach/internal/log"
	"github.com/zjrosen/fitcoach/internal/tracing"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 * 1024 * 1024

// Routes on the coaching service.
const (
	RouteGeneratePlan = "/generate-workout"
	RouteSearchVideos = "/youtube-search"
	RouteUserConcern  = "/user-concerns/"
)

// Client talks to the coaching service. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout bounds each call. Zero means no client-side deadline.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.timeout = d
	}
}

// WithRateLimit throttles outgoing calls. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(client *Client) {
		if rps <= 0 {
			client.limiter = nil
			return
		}
		client.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithTracer records a client span per call.
func WithTracer(t trace.Tracer) Option {
	return func(client *Client) {
		if t != nil {
			client.tracer = t
		}
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    60 * time.Second,
		tracer:     noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the api config section.
func NewFromConfig(cfg config.APIConfig, tracer trace.Tracer) *Client {
	return New(cfg.BaseURL,
		WithTimeout(cfg.Timeout),
		WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		WithTracer(tracer),
	)
}

// GeneratePlan submits a profile and returns the generated plan and the
// server-assigned session id.
func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) (PlanResponse, error) {
	const op = "generate plan"

	ctx, span := tracing.StartCall(ctx, c.tracer, tracing.SpanGeneratePlan,
		attribute.String(tracing.AttrHTTPRoute, RouteGeneratePlan))

	var resp PlanResponse
	err := c.post(ctx, span, op, RouteGeneratePlan, req, &resp)
	if err == nil && resp.SessionID == "" {
		err = &MalformedResponseError{Op: op, Reason: "missing session_id"}
	}
	if err == nil {
		span.SetAttributes(attribute.String(tracing.AttrSessionID, resp.SessionID))
	}
	tracing.EndCall(span, err, ErrorType(err))
	return resp, err
}

// SearchVideos runs a video search and returns results in ranked order.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int) ([]Video, error) {
	const op = "search videos"

	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}

	ctx, span := tracing.StartCall(ctx, c.tracer, tracing.SpanSearchVideos,
		attribute.String(tracing.AttrHTTPRoute, RouteSearchVideos),
		attribute.String(tracing.AttrVideoQuery, query))

	var resp videoSearchResponse
	err := c.post(ctx, span, op, RouteSearchVideos, VideoSearchRequest{Query: query, MaxResults: maxResults}, &resp)
	if err == nil && resp.Videos == nil {
		err = &MalformedResponseError{Op: op, Reason: "missing videos"}
	}

	var videos []Video
	if err == nil {
		videos = *resp.Videos
		span.SetAttributes(attribute.Int(tracing.AttrVideoCount, len(videos)))
	}
	tracing.EndCall(span, err, ErrorType(err))
	return videos, err
}

// SendConcern posts a follow-up question for a session and returns the
// assistant's reply.
func (c *Client) SendConcern(ctx context.Context, sessionID, concern string) (string, error) {
	const op = "send concern"

	if sessionID == "" {
		return "", &ValidationError{Field: "session_id", Reason: "is required"}
	}
	if strings.TrimSpace(concern) == "" {
		return "", &ValidationError{Field: "concern", Reason: "must not be empty"}
	}

	route := RouteUserConcern + url.PathEscape(sessionID)
	ctx, span := tracing.StartCall(ctx, c.tracer, tracing.SpanSendConcern,
		attribute.String(tracing.AttrHTTPRoute, RouteUserConcern+"{session_id}"),
		attribute.String(tracing.AttrSessionID, sessionID))

	var resp concernResponse
	err := c.post(ctx, span, op, route, ConcernRequest{Concern: concern}, &resp)
	if err == nil && (resp.Response == nil || *resp.Response == "") {
		err = &MalformedResponseError{Op: op, Reason: "missing response"}
	}

	reply := ""
	if err == nil {
		reply = *resp.Response
	}
	tracing.EndCall(span, err, ErrorType(err))
	return reply, err
}

// post sends body as JSON and decodes a 2xx JSON response into out.
func (c *Client) post(ctx context.Context, span trace.Span, op, route string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("%s: encoding request: %v", op, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		log.ErrorErr(log.CatAPI, "request failed", err, "op", op, "route", route, "duration", time.Since(start))
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatusCode, resp.StatusCode))
	log.Debug(log.CatAPI, "response", "op", op, "route", route, "status", resp.StatusCode, "duration", time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: op, StatusCode: 0, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", bytes.TrimSpace(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Op: op, Reason: err.Error()}
	}
	return nil
}
