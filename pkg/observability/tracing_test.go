package observability

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSetupDisabledIsNoop(t *testing.T) {
	tp, shutdown, err := Setup(context.Background(), Config{Enabled: false}, quietLogger())
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupEnabledWithoutExporterRecords(t *testing.T) {
	tp, shutdown, err := Setup(context.Background(), Config{Enabled: true, ServiceName: "svc", Environment: "test"}, quietLogger())
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}
