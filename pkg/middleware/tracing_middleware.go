package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware creates a root span for each mutating HTTP request.
// Provider, store and publisher calls made while handling it become child spans.
type TracingMiddleware struct {
	tracerProvider trace.TracerProvider
	logger         *logrus.Logger
	propagator     propagation.TextMapPropagator
}

// NewTracingMiddleware creates a new tracing middleware
func NewTracingMiddleware(tracerProvider trace.TracerProvider, logger *logrus.Logger) *TracingMiddleware {
	return &TracingMiddleware{
		tracerProvider: tracerProvider,
		logger:         logger,
		propagator:     otel.GetTextMapPropagator(),
	}
}

// Middleware returns the echo middleware function.
// Only write operations (POST, PUT, DELETE, PATCH) are traced.
func (m *TracingMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !isWriteOperation(req.Method) {
				return next(c)
			}

			// Continue a trace started upstream, if any
			ctx := m.propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			spanName := req.Method + " " + c.Path()
			if c.Path() == "" {
				spanName = req.Method + " " + req.URL.Path
			}

			var span trace.Span
			ctx, span = m.tracerProvider.Tracer("http.request").Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(req.Method),
					semconv.URLFullKey.String(req.URL.String()),
					semconv.HTTPRouteKey.String(c.Path()),
					semconv.UserAgentOriginalKey.String(req.UserAgent()),
					semconv.HTTPRequestBodySizeKey.Int64(req.ContentLength),
				),
			)
			defer span.End()

			if ip := c.RealIP(); ip != "" {
				span.SetAttributes(semconv.ClientAddressKey.String(ip))
			}

			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			status := StatusOf(c, err)
			span.SetAttributes(
				semconv.HTTPResponseStatusCodeKey.Int(status),
				semconv.HTTPResponseBodySizeKey.Int64(c.Response().Size),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			if err != nil {
				span.RecordError(err)
			}

			return err
		}
	}
}

// SpanContext returns the span context of the current request, if it is being traced
func SpanContext(ctx context.Context) trace.SpanContext {
	return trace.SpanFromContext(ctx).SpanContext()
}

func isWriteOperation(method string) bool {
	return method == http.MethodPost ||
		method == http.MethodPut ||
		method == http.MethodDelete ||
		method == http.MethodPatch
}
