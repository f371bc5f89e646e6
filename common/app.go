package common

import (
	"fmt"
	"sync"

	"github.com/reecen9696/casino-rollup/common/console"
	"github.com/reecen9696/casino-rollup/common/mlog"
)

// App is a process the sequencer runs for its lifetime: the HTTP server and
// the settlement coordinator both implement it and run as sibling goroutines
// under a single Launcher.
type App interface {
	Run(launcher *Launcher) error
}

// LauncherOption configures a Launcher before it starts.
type LauncherOption func(l *Launcher)

// WithLogger attaches a logger to the launcher.
func WithLogger(logger mlog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.Logger = logger
	}
}

// RunApp registers an App with the launcher under name.
func RunApp(name string, app App) LauncherOption {
	return func(l *Launcher) {
		l.Add(name, app)
	}
}

// Launcher runs a fixed set of Apps concurrently and blocks until all of
// them return.
type Launcher struct {
	Logger mlog.Logger
	apps   map[string]App
	wg     *sync.WaitGroup
}

// Add registers an App under name.
func (l *Launcher) Add(name string, a App) *Launcher {
	l.apps[name] = a
	return l
}

// Run starts every registered App in its own goroutine and waits for all of
// them to return. One App exiting does not stop the others; each error is
// logged rather than propagated, since an early exit of the HTTP server
// should not silently kill the coordinator mid-batch, or vice versa.
func (l *Launcher) Run() {
	count := len(l.apps)
	l.wg.Add(count)

	fmt.Println(console.Title("Launcher Run"))
	l.Logger.Infof("Starting %d app(s)", count)

	for name, app := range l.apps {
		go func(name string, app App) {
			defer l.wg.Done()

			l.Logger.Infof("Launcher: app (%s) starting", name)

			if err := app.Run(l); err != nil {
				l.Logger.Errorf("Launcher: app (%s) error: %s", name, err)
			}

			l.Logger.Infof("Launcher: app (%s) finished", name)
		}(name, app)
	}

	l.wg.Wait()
	l.Logger.Info("Launcher: terminated")
}

// NewLauncher builds a Launcher with a no-op logger by default; pass
// WithLogger to override it.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{
		apps: make(map[string]App),
		wg:   new(sync.WaitGroup),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.Logger == nil {
		l.Logger = &mlog.NoneLogger{}
	}

	return l
}
