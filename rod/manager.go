package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/doccrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of pages a browser renders before it is
// replaced by a fresh one.
const DefaultRecycleAfter = 75

// instance is one running browser and the launcher process behind it.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher

	opened  int // pages ever opened
	open    int // pages not yet released
	retired bool
}

func (i *instance) close() error {
	var err error
	if i.browser != nil {
		err = i.browser.Close()
	}
	if i.launcher != nil {
		i.launcher.Kill()
	}
	return err
}

// BrowserManager hands out a shared headless browser and swaps it for a
// fresh one every few pages, because Chrome's memory baseline keeps growing
// even when pages are closed. A retired browser stays alive until its last
// page is released, so concurrent renders are never cut off by a swap.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu           sync.Mutex
	current      *instance
	recycleAfter int
	closed       bool

	launch func() (*instance, error)
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter replaces the browser after n pages.
func WithRecycleAfter(n int) ManagerOption {
	return func(m *BrowserManager) {
		m.recycleAfter = n
	}
}

// NewBrowserManager launches a headless browser. Close must be called when
// the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	return newBrowserManager(launchHeadless, opts...)
}

func newBrowserManager(launch func() (*instance, error), opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{
		recycleAfter: DefaultRecycleAfter,
		launch:       launch,
	}
	for _, opt := range opts {
		opt(m)
	}

	inst, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.current = inst
	return m, nil
}

// Acquire returns the browser to open one page on. The release function
// must be called once the page is closed; extra calls are ignored.
func (m *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, doccrawl.Errorf(doccrawl.EINVALID, "browser manager is closed")
	}
	if m.recycleAfter > 0 && m.current.opened >= m.recycleAfter {
		m.recycle()
	}

	inst := m.current
	inst.opened++
	inst.open++

	var once sync.Once
	release := func() {
		once.Do(func() { m.release(inst) })
	}
	return inst.browser, release, nil
}

func (m *BrowserManager) release(inst *instance) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst.open--
	if inst.retired && inst.open == 0 {
		_ = inst.close()
	}
}

// recycle puts a fresh browser in service. When the launch fails the
// current browser keeps serving and its page count starts over, so the
// next attempt comes a full cycle later. Must be called with mu held.
func (m *BrowserManager) recycle() {
	next, err := m.launch()
	if err != nil {
		m.current.opened = 0
		return
	}

	old := m.current
	m.current = next
	old.retired = true
	if old.open == 0 {
		_ = old.close()
	}
}

// Close shuts down the browser in service. Close is safe to call multiple
// times.
func (m *BrowserManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.current.close()
}

// LauncherPID returns the process ID of the browser in service, or 0.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.launcher == nil {
		return 0
	}
	return m.current.launcher.PID()
}

// launchHeadless starts Chrome with background throttling disabled, so
// pages waiting in other tabs keep running their scripts.
func launchHeadless() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	return &instance{browser: browser, launcher: l}, nil
}
