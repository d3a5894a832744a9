// Package api is the HTTP gateway to the Mixingo backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/exercise"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/store"
)

const (
	// DefaultBaseURL is where a local backend listens.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 4 << 20
)

// Operation names recorded in the request log.
const (
	OpWarmupSubmit  = "warmup.submit"
	OpCTMAnalyze    = "ctm.analyze"
	OpExercisesGen  = "exercises.generate"
	OpDemoCTM       = "demo.ctm"
	OpDemoProfile   = "demo.profile"
	OpDemoExercises = "demo.exercises"
)

// Backend endpoints.
const (
	PathWarmupSubmit  = "/api/warmup/submit"
	PathCTMAnalyze    = "/api/ctm/analyze"
	PathExercisesGen  = "/api/exercises/generate"
	PathDemoCTM       = "/api/demo/ctm"
	PathDemoProfile   = "/api/demo/profile"
	PathDemoExercises = "/api/demo/exercises"
)

// WarmupResult is the backend's answer to a warm-up submission.
type WarmupResult struct {
	UserID  string          `json:"user_id"`
	Signals session.Signals `json:"signals"`
}

type warmupRequest struct {
	UserID  string                 `json:"user_id"`
	Answers []session.WarmupAnswer `json:"answers"`
}

type analyzeRequest struct {
	UserID string `json:"user_id"`
}

type exercisesRequest struct {
	ModuleID string `json:"module_id"`
	UserID   string `json:"user_id,omitempty"`
}

// Client talks to one backend. Calls are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	events     store.EventRepo
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithEventRepo records every exchange in repo.
func WithEventRepo(repo store.EventRepo) Option {
	return func(c *Client) { c.events = repo }
}

// New creates a Client targeting baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// SubmitWarmup sends warm-up answers. An empty userID asks the backend to
// assign one.
func (c *Client) SubmitWarmup(ctx context.Context, userID string, answers []session.WarmupAnswer) (*WarmupResult, error) {
	if answers == nil {
		answers = []session.WarmupAnswer{}
	}
	var out WarmupResult
	err := c.do(ctx, OpWarmupSubmit, http.MethodPost, PathWarmupSubmit,
		warmupRequest{UserID: userID, Answers: answers}, WarmupSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeCTM requests the transfer map for userID.
func (c *Client) AnalyzeCTM(ctx context.Context, userID string) (*ctm.Analysis, error) {
	var out ctm.Analysis
	if err := c.do(ctx, OpCTMAnalyze, http.MethodPost, PathCTMAnalyze,
		analyzeRequest{UserID: userID}, AnalysisSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateExercises requests exercises for moduleID. userID is only sent
// when non-empty.
func (c *Client) GenerateExercises(ctx context.Context, moduleID, userID string) (*exercise.Set, error) {
	var out exercise.Set
	if err := c.do(ctx, OpExercisesGen, http.MethodPost, PathExercisesGen,
		exercisesRequest{ModuleID: moduleID, UserID: userID}, ExerciseSetSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DemoCTM fetches the backend's sample analysis.
func (c *Client) DemoCTM(ctx context.Context) (*ctm.Analysis, error) {
	var out ctm.Analysis
	if err := c.do(ctx, OpDemoCTM, http.MethodGet, PathDemoCTM, nil, AnalysisSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DemoProfile fetches the backend's sample learner profile.
func (c *Client) DemoProfile(ctx context.Context) (*session.Profile, error) {
	var out session.Profile
	if err := c.do(ctx, OpDemoProfile, http.MethodGet, PathDemoProfile, nil, ProfileSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DemoExercises fetches the backend's sample exercise set.
func (c *Client) DemoExercises(ctx context.Context) (*exercise.Set, error) {
	var out exercise.Set
	if err := c.do(ctx, OpDemoExercises, http.MethodGet, PathDemoExercises, nil, ExerciseSetSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one exchange and decodes a validated 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, in any, schema *Schema, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = b
	}

	var body io.Reader
	if reqBody != nil {
		body = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	ex := store.RequestEventData{
		Operation: op,
		Method:    method,
		Path:      path,
		Request:   string(reqBody),
	}
	start := time.Now()
	err = c.exchange(req, op, schema, out, &ex)
	ex.LatencyMs = time.Since(start).Milliseconds()
	ex.Success = err == nil
	if err != nil {
		ex.ErrorMessage = err.Error()
	}
	c.record(ctx, ex)
	return err
}

func (c *Client) exchange(req *http.Request, op string, schema *Schema, out any, ex *store.RequestEventData) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	ex.Status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	ex.Response = string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return decodeValidated(op, schema, raw, out)
}

// record logs the exchange but never fails the request.
func (c *Client) record(ctx context.Context, ex store.RequestEventData) {
	slog.Debug("api exchange",
		"op", ex.Operation,
		"status", ex.Status,
		"latency_ms", ex.LatencyMs,
		"success", ex.Success,
	)
	if c.events == nil {
		return
	}
	// The request context may already be done; the log write gets its own.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := c.events.AppendRequest(logCtx, ex); err != nil {
		slog.Warn("failed to log request event", "op", ex.Operation, "error", err)
	}
}
