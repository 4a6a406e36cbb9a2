// Package cli implements the trustgraph command-line interface.
package cli

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustgraph/internal/config"
	"github.com/matzehuels/trustgraph/pkg/api"
	"github.com/matzehuels/trustgraph/pkg/buildinfo"
	"github.com/matzehuels/trustgraph/pkg/errors"
	"github.com/matzehuels/trustgraph/pkg/observability"
	"github.com/matzehuels/trustgraph/pkg/state"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "trustgraph"

	// defaultDetailConcurrency bounds parallel profile fetches for graph --details.
	defaultDetailConcurrency = 4
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	apiURL     string
	configPath string

	cfg      config.Config
	requests *requestCounter
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		requests: &requestCounter{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "TrustGraph browses a verified professional network",
		Long: `TrustGraph is a client for a verified professional network: people, the
relationships between them, and the verifications backing each profile.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.apiURL, "api-url", "", "backend address (overrides environment and config file)")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/trustgraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.healthCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.profileCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup resolves configuration and logging before any subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(config.Sources{Path: c.configPath, FlagURL: c.apiURL})
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Level()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	observability.SetHTTPHooks(c.requests)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates the Remote Data Client for the resolved backend address.
func (c *CLI) newClient() *api.Client {
	hc := &http.Client{Timeout: c.cfg.Timeout.Duration}
	return api.NewClient(c.cfg.APIURL,
		api.WithHTTPClient(hc),
		api.WithLogger(c.Logger),
		api.WithHeaders(map[string]string{"User-Agent": buildinfo.UserAgent()}),
	)
}

// storeOptions returns the options shared by every store the CLI creates.
func (c *CLI) storeOptions() []state.Option {
	return []state.Option{state.WithLogger(c.Logger)}
}

// =============================================================================
// Errors
// =============================================================================

// commandError is returned by commands: it prints as a user-facing message
// and still unwraps to the underlying error.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }

func (e *commandError) Unwrap() error { return e.err }

// failed describes err from the user's point of view.
func failed(action string, err error) error {
	return &commandError{msg: action + ": " + errors.UserMessage(err), err: err}
}
