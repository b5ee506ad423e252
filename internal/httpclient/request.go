package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Request is the interface for building and executing HTTP requests.
type Request interface {
	Get(ctx context.Context, url string) (*Response, error)
	Post(ctx context.Context, url string) (*Response, error)

	SetBody(body interface{}) Request
	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	SetQueryParams(params map[string]string) Request
	SetResult(result interface{}) Request
}

// Response wraps http.Response with additional helpers.
type Response struct {
	*http.Response
	body   []byte
	result interface{}
}

// Body returns the response body as bytes.
func (r *Response) Body() []byte {
	return r.body
}

// String returns the response body as string.
func (r *Response) String() string {
	return string(r.body)
}

// IsError returns true if the status code indicates an error (>= 400).
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// IsSuccess returns true if the status code indicates success (< 400).
func (r *Response) IsSuccess() bool {
	return r.StatusCode < 400
}

// Result returns the unmarshaled result.
func (r *Response) Result() interface{} {
	return r.result
}

type requestBuilder struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	venueName      string
	tracer         trace.Tracer
	baseURL        string
	headers        map[string]string
	queryParams    url.Values
	body           interface{}
	result         interface{}
	errorHandler   ResponseErrorHandler
	labels         []*Label
}

func (r *requestBuilder) Get(ctx context.Context, url string) (*Response, error) {
	return r.execute(ctx, http.MethodGet, url)
}

func (r *requestBuilder) Post(ctx context.Context, url string) (*Response, error) {
	return r.execute(ctx, http.MethodPost, url)
}

// SetBody sets the request body. Structs and maps are JSON encoded.
func (r *requestBuilder) SetBody(body interface{}) Request {
	r.body = body
	return r
}

func (r *requestBuilder) SetHeader(key, value string) Request {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

func (r *requestBuilder) SetQueryParam(key, value string) Request {
	if r.queryParams == nil {
		r.queryParams = make(url.Values)
	}
	r.queryParams.Set(key, value)
	return r
}

func (r *requestBuilder) SetQueryParams(params map[string]string) Request {
	for k, v := range params {
		r.SetQueryParam(k, v)
	}
	return r
}

// SetResult sets the target struct for JSON unmarshaling of the response body.
func (r *requestBuilder) SetResult(result interface{}) Request {
	r.result = result
	return r
}

func (r *requestBuilder) execute(ctx context.Context, method, rawURL string) (*Response, error) {
	ctx, span := r.tracer.Start(ctx, "http.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", rawURL),
			attribute.String("venue", r.venueName),
		),
	)
	defer span.End()

	fullURL := rawURL
	if r.baseURL != "" && !strings.HasPrefix(rawURL, "http") {
		fullURL = strings.TrimSuffix(r.baseURL, "/") + "/" + strings.TrimPrefix(rawURL, "/")
	}

	if len(r.queryParams) > 0 {
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}
		fullURL = fullURL + separator + r.queryParams.Encode()
	}

	var bodyReader io.Reader
	if r.body != nil {
		switch b := r.body.(type) {
		case []byte:
			bodyReader = bytes.NewReader(b)
		case string:
			bodyReader = strings.NewReader(b)
		case io.Reader:
			bodyReader = b
		default:
			jsonBody, err := json.Marshal(b)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to marshal body")
				return nil, fmt.Errorf("failed to marshal body: %w", err)
			}
			bodyReader = bytes.NewReader(jsonBody)
			if r.headers == nil {
				r.headers = make(map[string]string)
			}
			if _, ok := r.headers["Content-Type"]; !ok {
				r.headers["Content-Type"] = "application/json"
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.recordError(ctx, span, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		Response: resp,
		body:     body,
	}

	if r.result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, r.result); err != nil {
			span.RecordError(err)
		} else {
			response.result = r.result
		}
	}

	if resp.StatusCode >= 400 {
		span.SetAttributes(
			attribute.Int("http.status_code", resp.StatusCode),
			attribute.String("http.error.status", resp.Status),
		)
	}

	if r.errorHandler != nil {
		if handlerErr := r.errorHandler(resp.StatusCode, body); handlerErr != nil {
			r.recordMetrics(ctx, false)
			span.SetStatus(codes.Error, handlerErr.Error())
			return response, handlerErr
		}
	}

	r.recordMetrics(ctx, !response.IsError())

	return response, nil
}

func (r *requestBuilder) recordError(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)

	var netErr net.Error
	if errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.Bool("context.cancelled", true))
	}
	if errors.As(err, &netErr) && netErr.Timeout() {
		span.SetAttributes(attribute.Bool("request.timeout", true))
	}

	span.SetStatus(codes.Error, err.Error())
	r.recordMetrics(ctx, false)
}

func (r *requestBuilder) recordMetrics(ctx context.Context, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("venue", r.venueName),
		attribute.Bool("success", success),
	}

	for _, label := range r.labels {
		attrs = append(attrs, attribute.String(label.Key, label.Value))
	}

	r.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
