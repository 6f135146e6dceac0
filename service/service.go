package service

import (
	"context"
	"errors"
	"fmt"

	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alohaeditor/qunit-acceptor/metrics"
)

const (
	DefaultHealthzAddr = "0.0.0.0:8080"
)

// Config selects the HTTP endpoints to run. An empty address disables the
// endpoint; metrics run only when Metrics.Enabled is set.
type Config struct {
	HealthzAddr string

	Metrics opmetrics.CLIConfig
	// Registry served on /metrics; defaults to metrics.Registry
	Registry *prometheus.Registry

	AssetsAddr         string
	AssetsDir          string
	AssetsAdvertiseURL string
}

// Service owns the HTTP endpoints running next to the suite
type Service struct {
	cfg     Config
	log     log.Logger
	Healthz *HealthzServer
	Metrics *MetricsServer
	Assets  *AssetsServer
}

func New(cfg Config, logger log.Logger) *Service {
	if logger == nil {
		logger = log.New()
	}
	return &Service{cfg: cfg, log: logger}
}

// Start binds every configured endpoint. Endpoints started before a failure
// are shut down again.
func (s *Service) Start(ctx context.Context) error {
	s.log.Info("service starting")

	if s.cfg.HealthzAddr != "" {
		srv, err := StartHealthzServer(s.cfg.HealthzAddr, s.log)
		if err != nil {
			return s.abort(ctx, "healthz", err)
		}
		s.Healthz = srv
	}

	if s.cfg.Metrics.Enabled {
		registry := s.cfg.Registry
		if registry == nil {
			registry = metrics.Registry
		}
		srv, err := StartMetricsServer(registry, s.cfg.Metrics.ListenAddr, s.cfg.Metrics.ListenPort, s.log)
		if err != nil {
			return s.abort(ctx, "metrics", err)
		}
		s.Metrics = srv
	}

	if s.cfg.AssetsAddr != "" {
		srv, err := StartAssetsServer(s.cfg.AssetsAddr, s.cfg.AssetsDir, s.cfg.AssetsAdvertiseURL, s.log)
		if err != nil {
			return s.abort(ctx, "assets", err)
		}
		s.Assets = srv
		s.log.Info("serving unit test assets", "dir", s.cfg.AssetsDir, "url", srv.URL())
	}

	s.log.Info("service started")
	return nil
}

func (s *Service) abort(ctx context.Context, name string, err error) error {
	metrics.RecordErrorDetails("service."+name, err)
	return errors.Join(fmt.Errorf("starting %s server: %w", name, err), s.Stop(ctx))
}

// AssetsURL returns the assets base URL, or "" when the assets server is off
func (s *Service) AssetsURL() string {
	if s.Assets == nil {
		return ""
	}
	return s.Assets.URL()
}

// Stop shuts every running endpoint down
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("service shutting down")

	var errs []error
	if s.Healthz != nil {
		errs = append(errs, s.Healthz.Stop(ctx))
		s.Healthz = nil
		s.log.Info("healthz stopped")
	}
	if s.Metrics != nil {
		errs = append(errs, s.Metrics.Stop(ctx))
		s.Metrics = nil
		s.log.Info("metrics stopped")
	}
	if s.Assets != nil {
		errs = append(errs, s.Assets.Stop(ctx))
		s.Assets = nil
		s.log.Info("assets stopped")
	}

	s.log.Info("service stopped")
	return errors.Join(errs...)
}
