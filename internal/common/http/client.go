// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "application-admin/internal/common/errors"
	"application-admin/internal/common/metrics"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// Options configures a Client. Only BaseURL is required.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	Signer     RequestSigner
	Tracer     trace.Tracer
	HTTPClient *http.Client
}

// Client sends JSON requests to the dashboard backend.
type Client struct {
	baseURL    string
	userAgent  string
	signer     RequestSigner
	tracer     trace.Tracer
	httpClient *http.Client
}

// Request describes one backend call. Operation names the span and metric labels.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      interface{}
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	signer := opts.Signer
	if signer == nil {
		signer = NoopSigner{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("application-admin/http")
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		signer:     signer,
		tracer:     tracer,
		httpClient: httpClient,
	}
}

// DoJSON sends the request and decodes a 2xx body into out (when out is non-nil).
// It returns the response status code (0 on transport failure). Any non-2xx status
// or transport failure is reported as a NetworkOrServer StandardError.
func (c *Client) DoJSON(ctx context.Context, r Request, out interface{}) (int, error) {
	ctx, span := c.tracer.Start(ctx, "applications."+r.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.Path),
		),
	)
	defer span.End()

	start := time.Now()
	status, err := c.do(ctx, r, out)

	metrics.APIRequestsTotal.WithLabelValues(r.Operation, metrics.Outcome(err)).Inc()
	metrics.APIRequestDuration.WithLabelValues(r.Operation).Observe(time.Since(start).Seconds())

	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return status, err
}

func (c *Client) do(ctx context.Context, r Request, out interface{}) (int, error) {
	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return 0, apperrors.NewNetworkOrServerError(r.Operation, 0, fmt.Errorf("marshal body: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.buildURL(r.Path, r.Query), body)
	if err != nil {
		return 0, apperrors.NewNetworkOrServerError(r.Operation, 0, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("request.id", requestID))

	if err := c.signer.Sign(req); err != nil {
		return 0, apperrors.NewNetworkOrServerError(r.Operation, 0, fmt.Errorf("sign request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.NewNetworkOrServerError(r.Operation, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, apperrors.NewNetworkOrServerError(r.Operation, resp.StatusCode, errorFromBody(raw)).
			WithMetadata("requestId", requestID)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, apperrors.NewNetworkOrServerError(r.Operation, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	return resp.StatusCode, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// errorFromBody pulls the backend's message out of an error envelope when present.
func errorFromBody(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return apperrors.New(envelope.Message)
	}
	return apperrors.New(strings.TrimSpace(string(raw)))
}
