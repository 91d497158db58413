package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/webagent"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// replaced by a fresh one.
const DefaultMaxPages = 75

// browserPool owns a single headless Chrome and replaces it after maxPages
// pages, since Chrome's memory use only grows under sustained load.
// A browser is closed once it is both retired and idle.
type browserPool struct {
	mu       sync.Mutex
	current  *instance
	maxPages int
	closed   bool
}

type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	active   int
	retired  bool
}

func newBrowserPool(maxPages int) (*browserPool, error) {
	inst, err := launch()
	if err != nil {
		return nil, err
	}
	return &browserPool{current: inst, maxPages: maxPages}, nil
}

// acquire returns a browser for one page and a release func that must be
// called when the page is closed.
func (p *browserPool) acquire() (*rod.Browser, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, nil, webagent.Errorf(webagent.EINVALID, "fetcher closed")
	}

	if p.maxPages > 0 && p.current.pages >= p.maxPages {
		// Keep the old browser when a fresh one cannot be launched.
		if inst, err := launch(); err == nil {
			old := p.current
			old.retired = true
			if old.active == 0 {
				old.close()
			}
			p.current = inst
		}
	}

	inst := p.current
	inst.pages++
	inst.active++

	release := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		inst.active--
		if inst.retired && inst.active == 0 {
			inst.close()
		}
	}
	return inst.browser, release, nil
}

func (p *browserPool) launcherPID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.launcher.PID()
}

func (p *browserPool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.current.close()
}

// launch starts a browser with flags that keep background tabs from being
// throttled.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

func (i *instance) close() error {
	err := i.browser.Close()
	i.launcher.Kill()
	return err
}
