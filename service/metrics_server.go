package service

import (
	"github.com/ethereum-optimism/optimism/op-service/httputil"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
)

type MetricsServer struct {
	*httputil.HTTPServer
}

// StartMetricsServer exposes registry on /metrics at host:port
func StartMetricsServer(registry *prometheus.Registry, host string, port int, logger log.Logger) (*MetricsServer, error) {
	srv, err := opmetrics.StartServer(registry, host, port)
	if err != nil {
		return nil, err
	}
	logger.Info("started metrics server", "endpoint", srv.Addr().String())
	return &MetricsServer{HTTPServer: srv}, nil
}
