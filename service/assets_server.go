package service

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/ethereum-optimism/optimism/op-service/httputil"
	"github.com/ethereum/go-ethereum/log"
)

// AssetsServer serves the unit-test directory over HTTP so a remote browser
// can load module pages that only exist on this machine.
type AssetsServer struct {
	*httputil.HTTPServer
	dir          string
	advertiseURL string
}

// StartAssetsServer serves dir on addr. advertiseURL is the base URL the
// browser should use; when empty it is derived from the bound address.
func StartAssetsServer(addr string, dir string, advertiseURL string, logger log.Logger) (*AssetsServer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets directory %s is not a directory", dir)
	}

	srv, err := httputil.StartHTTPServer(addr, withCORS(http.FileServer(http.Dir(dir))))
	if err != nil {
		return nil, err
	}
	logger.Info("started assets server", "addr", srv.Addr().String())
	return &AssetsServer{
		HTTPServer:   srv,
		dir:          dir,
		advertiseURL: advertiseURL,
	}, nil
}

// URL is the base URL module pages are loaded from
func (a *AssetsServer) URL() string {
	if a.advertiseURL != "" {
		return a.advertiseURL
	}
	addr := a.Addr().String()
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// Dir returns the served directory
func (a *AssetsServer) Dir() string {
	return a.dir
}
