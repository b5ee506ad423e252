package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultDialKeepAlive         = 10 * time.Second
	defaultRequestTimeout        = 10 * time.Second
	defaultMaxIdleConns          = 0
	defaultMaxConnsPerHost       = 5
	defaultIdleConnTimeout       = 2 * time.Minute
	defaultExpectContinueTimeout = 100 * time.Millisecond

	metricRequestCounter = "http_client_requests_total"
)

// Client is the interface for making HTTP requests to market-data venues.
type Client interface {
	// NewRequest creates a new request with default options.
	NewRequest() Request
	// NewRequestWithOptions creates a new request with custom options.
	NewRequestWithOptions(opts ...RequestOption) Request
	// Do executes a request and returns the response.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// InstrumentedClient wraps http.Client with OTEL instrumentation.
type InstrumentedClient struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	venueName      string
	tracer         trace.Tracer
	baseURL        string
	defaultHeaders map[string]string
}

// NewInstrumentedClient creates a new instrumented HTTP client.
func NewInstrumentedClient(opts ...ClientOption) (Client, error) {
	options := NewClientOptions(opts...)

	httpClient := options.client
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultRequestTimeout,
		}
	}

	if options.roundTripper != nil {
		httpClient.Transport = options.roundTripper
	} else if httpClient.Transport == nil {
		httpClient.Transport = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxConnsPerHost:       defaultMaxConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ExpectContinueTimeout: defaultExpectContinueTimeout,
			DisableKeepAlives:     false,
		}
	}

	if options.requestTimeout != nil {
		httpClient.Timeout = *options.requestTimeout
	}

	httpClient.Transport = otelhttp.NewTransport(
		httpClient.Transport,
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	)

	venueName := options.venueName
	if venueName == "" {
		venueName = "default"
	}

	meterProvider := options.meterProvider
	if meterProvider == nil {
		meterProvider = otel.GetMeterProvider()
	}

	meter := meterProvider.Meter(
		"instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("venue", venueName)),
	)

	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	tracer := options.tracer
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer("instrumented_http_client")
	}

	return &InstrumentedClient{
		client:         httpClient,
		requestCounter: requestCounter,
		venueName:      venueName,
		tracer:         tracer,
		baseURL:        options.baseURL,
		defaultHeaders: options.headers,
	}, nil
}

// NewRequest creates a new request builder with default options.
func (c *InstrumentedClient) NewRequest() Request {
	return c.NewRequestWithOptions()
}

// NewRequestWithOptions creates a new request builder with custom options.
func (c *InstrumentedClient) NewRequestWithOptions(opts ...RequestOption) Request {
	reqOpts := NewRequestOptions(opts...)

	return &requestBuilder{
		client:         c.client,
		requestCounter: c.requestCounter,
		venueName:      c.venueName,
		tracer:         c.tracer,
		baseURL:        c.baseURL,
		headers:        copyHeaders(c.defaultHeaders),
		errorHandler:   reqOpts.responseErrorHandler,
		labels:         reqOpts.labels,
	}
}

// Do executes an http.Request directly.
func (c *InstrumentedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(ctx))
}

func copyHeaders(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
