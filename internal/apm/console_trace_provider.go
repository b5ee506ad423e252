package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ConsoleTraceProvider writes spans to stdout. Used for local debugging of
// discovery passes when no collector is running.
type ConsoleTraceProvider struct {
	tp *sdktrace.TracerProvider
}

func NewEmptyTraceProvider() TraceProvider {
	return ConsoleTraceProvider{}
}

func NewConsoleTraceProvider() TraceProvider {
	exporter, _ := stdouttrace.New(stdouttrace.WithPrettyPrint())
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return ConsoleTraceProvider{tp}
}

func (ctp ConsoleTraceProvider) Stop() error {
	if ctp.tp == nil {
		return nil
	}
	return ctp.tp.Shutdown(context.Background())
}
