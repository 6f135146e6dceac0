// Package qunit runs QUnit module pages in a WebDriver browser session.
//
// A Harness opens one browser session per suite. Modules registered on the
// suite are executed one after the other: the module page is loaded and the
// QUnit result banner is polled until the page reports its final counts.
package qunit

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/alohaeditor/qunit-acceptor/suite"
)

var _ suite.Harness[*Suite] = (*Harness)(nil)

// Config holds configuration for creating a new harness
type Config struct {
	Log  log.Logger
	Dial Dialer // defaults to RemoteDialer

	// PageBase replaces basePath when module pages are served from elsewhere,
	// e.g. the assets server.
	PageBase      string
	PagePattern   string
	ModuleTimeout time.Duration
	PollInterval  time.Duration
}

// Harness creates suites backed by WebDriver sessions
type Harness struct {
	cfg Config
}

// NewHarness creates a new harness, filling in defaults
func NewHarness(cfg Config) *Harness {
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.Dial == nil {
		cfg.Dial = RemoteDialer(DialOptions{})
	}
	if cfg.PagePattern == "" {
		cfg.PagePattern = DefaultPagePattern
	}
	if cfg.ModuleTimeout <= 0 {
		cfg.ModuleTimeout = DefaultModuleTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Harness{cfg: cfg}
}

// NewSuite opens a browser session for the configuration record. Dial errors,
// such as an unreachable hub, are returned unchanged.
func (h *Harness) NewSuite(ctx context.Context, settings suite.Settings) (*Suite, error) {
	h.cfg.Log.Debug("Opening browser session",
		"hub", settings[suite.KeyHubLocation],
		"browser", settings[suite.KeyBrowser],
		"platform", settings[suite.KeyPlatform])

	browser, err := h.cfg.Dial(ctx, settings)
	if err != nil {
		return nil, err
	}

	pageBase := h.cfg.PageBase
	if pageBase == "" {
		pageBase = settings[suite.KeyBasePath]
	}

	return &Suite{
		cfg:      h.cfg,
		settings: settings.Clone(),
		pageBase: pageBase,
		browser:  browser,
	}, nil
}
