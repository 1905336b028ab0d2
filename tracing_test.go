package sywclient_test

import (
	"context"
	"testing"

	. "github.com/ThalesGroup/sywclient"
	"github.com/ThalesGroup/sywclient/clientserver"
	"github.com/ThalesGroup/sywclient/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	cs := clientserver.NewServer(nil)
	defer cs.Close()
	cs.Respond(200, `{}`)

	c := cs.Client(
		OfflineToken("tok", "h"),
		HTTPClient(httpclient.Tracing(otelhttp.WithTracerProvider(tp))),
	)

	_, _, err := c.Get(context.Background(), "/users/get", nil)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "GET")
}
