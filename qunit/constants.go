package qunit

import "time"

const (
	// DefaultPagePattern maps a module name to its page, relative to the base path
	DefaultPagePattern = "%s.html"

	// DefaultModuleTimeout bounds how long a module page may take to report.
	// Module pages wait up to 60s for the editor to initialize on their own.
	DefaultModuleTimeout = 2 * time.Minute

	// DefaultPollInterval is the delay between two reads of the QUnit banner
	DefaultPollInterval = 500 * time.Millisecond

	// chromedriver services started by the selenium package listen under /wd/hub
	chromeDriverURLPattern = "http://localhost:%d/wd/hub"
)
