package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pders01/qtui/internal/api"
	"github.com/pders01/qtui/internal/config"
	"github.com/pders01/qtui/internal/debuglog"
	"github.com/pders01/qtui/internal/launcher"
	"github.com/pders01/qtui/internal/quasarr"
	"github.com/pders01/qtui/internal/tui"
	"github.com/pders01/qtui/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

const defaultURL = "http://localhost:8080"

// Fixed ids for the headless self-tests.
const (
	selfTestMovie   = "tt0133093"
	selfTestTV      = "tt0944947"
	selfTestSeason  = "1"
	selfTestEpisode = "1"
	selfTestDoc     = "Planet Earth"
)

// Swapped out in tests, which never run on a terminal.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPassword    = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// exitError carries the process exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(format string, args ...any) error {
	return &exitError{code: 1, err: fmt.Errorf(format, args...)}
}

type options struct {
	url        string
	key        string
	configPath string
	logLevel   string
	testMovie  bool
	testTV     bool
	testDoc    bool
}

func (o options) selfTest() bool {
	return o.testMovie || o.testTV || o.testDoc
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "qtui",
		Short:         "Terminal client for Quasarr",
		Long:          "qtui browses Quasarr feeds, searches releases and manages the download queue from the terminal.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.Flags()
	flags.StringVar(&opts.url, "url", defaultURL, "Quasarr base URL")
	flags.StringVar(&opts.key, "key", "", "API key (else $"+config.APIKeyEnv+", else prompt)")
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Debug log level: debug, info, warn, error, off")
	flags.BoolVar(&opts.testMovie, "test-movie", false, "Search the movie "+selfTestMovie+" and exit")
	flags.BoolVar(&opts.testTV, "test-tv", false, "Search the show "+selfTestTV+" S1E1 and exit")
	flags.BoolVar(&opts.testDoc, "test-doc", false, "Search the documentary '"+selfTestDoc+"' and exit")

	root.AddCommand(newVersionCmd(stdout), newConfigCmd(stdout))
	return root
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(stdout, tui.BannerString(Version))
			fmt.Fprintf(stdout, "%s %s\n", tui.AppName, Version)
		},
	}
}

func newConfigCmd(stdout io.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "generate [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			path, err := validation.ConfigFilePath(path)
			if err != nil {
				return fail("invalid config path: %w", err)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fail("generating config: %w", err)
			}
			fmt.Fprintf(stdout, "Generated default configuration at: %s\n", path)
			return nil
		},
	})
	return configCmd
}

func run(cmd *cobra.Command, opts options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fail("loading config: %w", err)
	}
	if cmd.Flags().Changed("url") {
		cfg.Server.URL = opts.url
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), debuglog.Options{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		fmt.Fprintf(stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer debuglog.Close()

	baseURL, err := validation.NewServerURLValidator().ValidateAndNormalize(cfg.Server.URL)
	if err != nil {
		return fail("invalid --url: %w", err)
	}

	key := cfg.Server.APIKey
	if cmd.Flags().Changed("key") {
		key = opts.key
	}
	key = strings.TrimSpace(key)
	if key == "" && stdinIsTerminal() {
		key, err = promptKey(stderr)
		if err != nil {
			return fail("reading API key: %w", err)
		}
	}
	if key == "" {
		return fail("missing API key: pass --key or set %s", config.APIKeyEnv)
	}

	client := api.NewClient(baseURL, key, api.WithTimeouts(cfg.Server.GetTimeout, cfg.Server.DeleteTimeout))
	service := quasarr.NewService(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.selfTest() {
		return selfTest(ctx, service, opts, stdout)
	}

	if !stdinIsTerminal() {
		return fail("stdin is not a terminal; use a --test-* flag for headless checks")
	}

	var opener tui.Opener
	if l, err := launcher.New(); err == nil {
		opener = l
	} else {
		debuglog.Warnf("browser launcher unavailable: %v", err)
	}

	debuglog.Infof("starting against %s", baseURL)
	app := tui.NewApp(service, cfg, opener, tui.ProgramRunner{
		Options: []tea.ProgramOption{tea.WithAltScreen()},
	})
	if err := app.Run(ctx); err != nil && !tui.IsInterrupted(err) {
		return fail("%w", err)
	}
	return nil
}

func promptKey(stderr io.Writer) (string, error) {
	fmt.Fprint(stderr, "Quasarr API key: ")
	raw, err := readPassword()
	fmt.Fprintln(stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// selfTest runs the requested searches and fails if any comes back empty.
func selfTest(ctx context.Context, service *quasarr.Service, opts options, stdout io.Writer) error {
	type check struct {
		name   string
		search func() []api.FeedItem
	}
	var checks []check
	if opts.testMovie {
		checks = append(checks, check{"movie " + selfTestMovie, func() []api.FeedItem {
			return service.SearchMovie(ctx, selfTestMovie)
		}})
	}
	if opts.testTV {
		checks = append(checks, check{"tv " + selfTestTV, func() []api.FeedItem {
			return service.SearchTV(ctx, selfTestTV, selfTestSeason, selfTestEpisode)
		}})
	}
	if opts.testDoc {
		checks = append(checks, check{"doc " + selfTestDoc, func() []api.FeedItem {
			return service.SearchDoc(ctx, selfTestDoc)
		}})
	}

	var empty []string
	for _, c := range checks {
		n := len(c.search())
		fmt.Fprintf(stdout, "%s: %d results\n", c.name, n)
		if n == 0 {
			empty = append(empty, c.name)
		}
	}
	if len(empty) > 0 {
		return fail("self-test returned nothing for %s", strings.Join(empty, ", "))
	}
	return nil
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
