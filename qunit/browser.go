package qunit

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"github.com/alohaeditor/qunit-acceptor/suite"
)

// Browser is the part of a WebDriver session the harness drives.
// selenium.WebDriver satisfies it.
type Browser interface {
	Get(url string) error
	ExecuteScript(script string, args []interface{}) (interface{}, error)
	Quit() error
}

var _ Browser = (selenium.WebDriver)(nil)

// Dialer opens a browser session for a configuration record
type Dialer func(ctx context.Context, settings suite.Settings) (Browser, error)

// DialOptions tune the capabilities requested from the hub
type DialOptions struct {
	Headless    bool
	BrowserArgs []string
}

// Capabilities builds the WebDriver capabilities for a configuration record
func Capabilities(settings suite.Settings, opts DialOptions) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": settings[suite.KeyBrowser]}
	if platform := settings[suite.KeyPlatform]; platform != "" {
		caps["platform"] = platform
	}

	if settings[suite.KeyBrowser] == "chrome" {
		args := append([]string(nil), opts.BrowserArgs...)
		if opts.Headless {
			args = append(args, "--headless", "--no-sandbox")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	}
	return caps
}

// RemoteDialer opens sessions on the hub named by hub_location
func RemoteDialer(opts DialOptions) Dialer {
	return func(ctx context.Context, settings suite.Settings) (Browser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return selenium.NewRemote(Capabilities(settings, opts), settings[suite.KeyHubLocation])
	}
}

// LocalDialer starts the chromedriver binary named by webdriver.chrome.driver
// and opens the session on it instead of on the hub.
func LocalDialer(opts DialOptions) Dialer {
	return func(ctx context.Context, settings suite.Settings) (Browser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		port, err := pickUnusedPort()
		if err != nil {
			return nil, fmt.Errorf("failed to pick a port for chromedriver: %w", err)
		}

		service, err := selenium.NewChromeDriverService(settings[suite.KeyChromeDriver], port)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver %q: %w", settings[suite.KeyChromeDriver], err)
		}

		wd, err := selenium.NewRemote(Capabilities(settings, opts), fmt.Sprintf(chromeDriverURLPattern, port))
		if err != nil {
			return nil, errors.Join(err, service.Stop())
		}
		return &localBrowser{WebDriver: wd, service: service}, nil
	}
}

// localBrowser stops the driver service together with the session
type localBrowser struct {
	selenium.WebDriver
	service *selenium.Service
}

func (b *localBrowser) Quit() error {
	return errors.Join(b.WebDriver.Quit(), b.service.Stop())
}

func pickUnusedPort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}
