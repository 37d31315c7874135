package launcher

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/qtui/internal/debuglog"
	"github.com/pders01/qtui/internal/validation"
)

//go:embed openers.toml
var openersTOML []byte

// OpenersConfig maps GOOS to candidate opener commands.
type OpenersConfig struct {
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	Openers [][]string `toml:"openers"`
}

// Launcher opens web pages (the Quasarr UI, the CAPTCHA page) in the
// user's browser.
type Launcher struct {
	goos     string
	openers  [][]string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
	getenv   func(string) string
}

type Option func(*Launcher)

// WithPlatform pretends to run on goos.
func WithPlatform(goos string) Option {
	return func(l *Launcher) { l.goos = goos }
}

// WithExec replaces command lookup and start, for tests.
func WithExec(lookPath func(string) (string, error), start func(*exec.Cmd) error) Option {
	return func(l *Launcher) {
		if lookPath != nil {
			l.lookPath = lookPath
		}
		if start != nil {
			l.start = start
		}
	}
}

// WithEnv replaces os.Getenv, for tests.
func WithEnv(getenv func(string) string) Option {
	return func(l *Launcher) { l.getenv = getenv }
}

func New(opts ...Option) (*Launcher, error) {
	var cfg OpenersConfig
	if err := toml.Unmarshal(openersTOML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}

	l := &Launcher{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startDetached,
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.openers = cfg.Platforms[l.goos].Openers
	return l, nil
}

// Open starts the browser on url and returns without waiting for it.
func (l *Launcher) Open(url string) error {
	if !validation.IsWebURL(url) {
		return fmt.Errorf("refusing to open %q", url)
	}

	argv := l.command()
	if len(argv) == 0 {
		return fmt.Errorf("no application found to open URL on %s", l.goos)
	}

	args := append(append([]string(nil), argv[1:]...), url)
	cmd := exec.Command(argv[0], args...)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	debuglog.Debugf("opened %s with %s", url, argv[0])
	return nil
}

// command picks $BROWSER when it resolves, else the first installed
// opener for the platform.
func (l *Launcher) command() []string {
	if browser := strings.Fields(l.getenv("BROWSER")); len(browser) > 0 {
		if _, err := l.lookPath(browser[0]); err == nil {
			return browser
		}
	}
	for _, argv := range l.openers {
		if len(argv) == 0 {
			continue
		}
		if _, err := l.lookPath(argv[0]); err == nil {
			return argv
		}
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
