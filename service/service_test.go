package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthzHandle(t *testing.T) {
	h := &HealthzServer{}
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestService_StartStop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bold.html"), []byte("<html>bold</html>"), 0644))

	svc := New(Config{
		HealthzAddr: "127.0.0.1:0",
		Metrics: opmetrics.CLIConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1",
			ListenPort: 0,
		},
		AssetsAddr: "127.0.0.1:0",
		AssetsDir:  dir,
	}, log.New())

	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))
	t.Cleanup(func() { _ = svc.Stop(ctx) })

	t.Run("healthz", func(t *testing.T) {
		resp, body := get(t, "http://"+svc.Healthz.Addr().String()+"/healthz", http.Header{"Origin": {"http://example.test"}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK", body)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("metrics", func(t *testing.T) {
		resp, body := get(t, "http://"+svc.Metrics.Addr().String()+"/metrics", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "go_goroutines")
		assert.Contains(t, body, "process_")
	})

	t.Run("assets", func(t *testing.T) {
		assert.Equal(t, "http://"+svc.Assets.Addr().String()+"/", svc.AssetsURL())

		resp, body := get(t, svc.AssetsURL()+"bold.html", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "<html>bold</html>", body)

		resp, _ = get(t, svc.AssetsURL()+"missing.html", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	require.NoError(t, svc.Stop(ctx))
	assert.Nil(t, svc.Healthz)
	assert.Equal(t, "", svc.AssetsURL())
	require.NoError(t, svc.Stop(ctx))
}

func TestService_DisabledEndpoints(t *testing.T) {
	svc := New(Config{}, nil)
	require.NoError(t, svc.Start(context.Background()))
	assert.Nil(t, svc.Healthz)
	assert.Nil(t, svc.Metrics)
	assert.Nil(t, svc.Assets)
	require.NoError(t, svc.Stop(context.Background()))
}

func TestService_MetricsServesRegistry(t *testing.T) {
	registry := opmetrics.NewRegistry()
	runs := prometheus.NewCounter(prometheus.CounterOpts{Name: "qunit_runs_seen_total"})
	registry.MustRegister(runs)
	runs.Add(3)

	svc := New(Config{
		Metrics:  opmetrics.CLIConfig{Enabled: true, ListenAddr: "127.0.0.1"},
		Registry: registry,
	}, log.New())
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop(context.Background()) //nolint:errcheck

	require.NotNil(t, svc.Metrics)
	_, body := get(t, "http://"+svc.Metrics.Addr().String()+"/metrics", nil)
	assert.Contains(t, body, "qunit_runs_seen_total 3")
}

func TestService_MetricsDisabled(t *testing.T) {
	svc := New(Config{
		Metrics: opmetrics.CLIConfig{ListenAddr: "127.0.0.1", ListenPort: 7300},
	}, log.New())
	require.NoError(t, svc.Start(context.Background()))
	assert.Nil(t, svc.Metrics)
	require.NoError(t, svc.Stop(context.Background()))
}

func TestService_StartFailureStopsStartedEndpoints(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	port := taken.Addr().(*net.TCPAddr).Port
	svc := New(Config{
		HealthzAddr: "127.0.0.1:0",
		Metrics: opmetrics.CLIConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1",
			ListenPort: port,
		},
	}, log.New())

	err = svc.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics")
	assert.Nil(t, svc.Healthz, "healthz must be shut down after a failed start")
}

func TestAssetsServer_InvalidDir(t *testing.T) {
	_, err := StartAssetsServer("127.0.0.1:0", filepath.Join(t.TempDir(), "missing"), "", log.New())
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = StartAssetsServer("127.0.0.1:0", file, "", log.New())
	require.Error(t, err)
}

func TestAssetsServer_URL(t *testing.T) {
	a, err := StartAssetsServer("0.0.0.0:0", t.TempDir(), "", log.New())
	require.NoError(t, err)
	defer a.Stop(context.Background()) //nolint:errcheck

	_, port, err := net.SplitHostPort(a.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:"+port+"/", a.URL())

	a.advertiseURL = "http://runner.internal:9000/unit/"
	assert.Equal(t, "http://runner.internal:9000/unit/", a.URL())
}
