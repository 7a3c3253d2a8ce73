package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/config"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// DBSystem is reported as db.type on every store span
const DBSystem = "postgresql"

// InitTracer builds a Jaeger tracer reporting to cfg.JaegerEndpoint and
// installs it as the global tracer. A SampleRate below 1 switches to
// probabilistic sampling.
func InitTracer(cfg config.TracingConfig) (opentracing.Tracer, io.Closer, error) {
	sampler := &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1}
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		sampler = &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeProbabilistic, Param: cfg.SampleRate}
	}

	jc := &jaegercfg.Configuration{
		ServiceName: cfg.ServiceName,
		Sampler:     sampler,
		Reporter:    &jaegercfg.ReporterConfig{CollectorEndpoint: cfg.JaegerEndpoint},
	}

	tracer, closer, err := jc.NewTracer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, closer, nil
}

// StartDBSpan opens a client span named db.<operation> under whatever span
// ctx already carries, usually the request span.
func StartDBSpan(ctx context.Context, operation string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "db."+operation, ext.SpanKindRPCClient)
	ext.DBType.Set(span, DBSystem)
	span.SetTag("db.operation", operation)
	return span, ctx
}

// FinishDBSpan closes a span opened by StartDBSpan. Errors matching one of
// expected are normal outcomes (a missing row) and do not mark the span.
func FinishDBSpan(span opentracing.Span, err error, expected ...error) {
	if span == nil {
		return
	}
	if err != nil && !matchesAny(err, expected) {
		ext.Error.Set(span, true)
		span.LogKV("event", "error", "error.object", err.Error())
	}
	span.Finish()
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
