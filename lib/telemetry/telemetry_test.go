package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShutdownWithoutSetup(t *testing.T) {
	require.NoError(t, Telemetry{}.Shutdown(context.Background()))
}

func TestSetupHttp(t *testing.T) {
	var mutex sync.Mutex
	paths := map[string]int{}
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		paths[r.URL.Path]++
		mutex.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	tel, err := Setup(context.Background(), "telemetry-test", Config{
		Otlp: OtlpConfig{
			Traces:  OtlpConnConfig{HttpEndpoint: collector.URL + "/v1/traces"},
			Metrics: OtlpConnConfig{HttpEndpoint: collector.URL + "/v1/metrics"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.NotNil(t, tel.MeterProvider)

	_, span := tel.TracerProvider.Tracer("test").Start(context.Background(), "span")
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))

	mutex.Lock()
	defer mutex.Unlock()
	require.Positive(t, paths["/v1/traces"])
}

func TestUseGrpc(t *testing.T) {
	require.True(t, OtlpConnConfig{GrpcEndpoint: "http://localhost:4317"}.useGrpc())
	require.False(t, OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}.useGrpc())
}
