package service

import (
	"net/http"

	"github.com/ethereum-optimism/optimism/op-service/httputil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"
)

// withCORS allows any origin; module pages may be opened from another host
func withCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	return c.Handler(handler)
}

type HealthzServer struct {
	*httputil.HTTPServer
	log log.Logger
}

// StartHealthzServer serves /healthz on addr
func StartHealthzServer(addr string, logger log.Logger) (*HealthzServer, error) {
	h := &HealthzServer{log: logger}
	hdlr := http.NewServeMux()
	hdlr.HandleFunc("/healthz", h.Handle)

	srv, err := httputil.StartHTTPServer(addr, withCORS(hdlr))
	if err != nil {
		return nil, err
	}
	h.HTTPServer = srv
	logger.Info("started healthz server", "addr", srv.Addr().String())
	return h, nil
}

func (h *HealthzServer) Handle(w http.ResponseWriter, r *http.Request) {
	if h.log != nil {
		h.log.Trace("Received health check request", "path", r.URL.Path)
	}
	w.Write([]byte("OK")) //nolint:errcheck
}
