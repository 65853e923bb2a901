// Package cli implements the drawerfit command-line interface.
//
// Every command opens a session: the app config, the bin catalog and the
// present layout resolved from the storage file. Mutating commands save the
// present layout back on success. The run command executes a script of
// commands inside one session so undo and redo work across lines.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/drawerfit/internal/editor"
	"github.com/piwi3910/drawerfit/internal/model"
	"github.com/piwi3910/drawerfit/internal/project"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// ShareEnv names the environment variable read when --share is not given.
const ShareEnv = "DRAWERFIT_SHARE"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out io.Writer

	configPath  string
	layoutPath  string
	catalogPath string
	share       string

	sess      *session
	scripting bool
}

// New creates a CLI that prints results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "drawerfit",
		Short:         "drawerfit plans modular bin layouts for drawers",
		Long:          `drawerfit arranges rectangular storage bins inside a drawer: place, move and resize bins, let it pack them for you, and share or print the result.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.drawerfit/config.json)")
	flags.StringVar(&c.layoutPath, "layout", "", "layout storage file (default ~/.drawerfit/layout.json)")
	flags.StringVar(&c.catalogPath, "catalog", "", "bin catalog file (default ~/.drawerfit/catalog.toml)")
	flags.StringVar(&c.share, "share", "", "start from a share link or layout parameter instead of the saved layout (env "+ShareEnv+")")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.editCommands()...)
	root.AddCommand(c.runCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.catalogCommand())

	return root
}

// Execute runs the CLI with args.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// session is the state one invocation works on.
type session struct {
	config      model.AppConfig
	limits      model.Limits
	catalog     *model.Catalog
	catalogPath string
	layoutPath  string
	editor      *editor.Editor
	origin      project.Origin
}

// session loads config, catalog and the present layout once per CLI. A
// valid share link wins over the saved layout; an invalid one is logged and
// ignored.
func (c *CLI) session(ctx context.Context) (*session, error) {
	if c.sess != nil {
		return c.sess, nil
	}
	logger := loggerFromContext(ctx)

	configPath := c.configPath
	if configPath == "" {
		configPath = project.DefaultConfigPath()
	}
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	limits := model.DefaultLimits()
	config.ApplyToLimits(&limits)
	if lvl, err := log.ParseLevel(config.LogLevel); err == nil && logger.GetLevel() > lvl {
		logger.SetLevel(lvl)
	}

	catalogPath := c.catalogPath
	if catalogPath == "" {
		catalogPath = project.CatalogPath(config)
	}
	catalog, err := project.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	layoutPath := c.layoutPath
	if layoutPath == "" {
		layoutPath = project.LayoutPath(config)
	}
	shared := c.share
	if shared == "" {
		shared = os.Getenv(ShareEnv)
	}
	if shared != "" {
		shared = project.ShareParamFromURL(shared)
	}
	state, origin := project.ResolveStartup(project.StartupSources{
		SharedParam: shared,
		StoragePath: layoutPath,
		Default:     config.NewLayout(limits),
	}, catalog, limits, logger)
	logger.Debug("session opened", "origin", origin, "bins", catalog.Len(), "placements", len(state.Placements))

	c.sess = &session{
		config:      config,
		limits:      limits,
		catalog:     catalog,
		catalogPath: catalogPath,
		layoutPath:  layoutPath,
		editor:      editor.New(catalog, limits, state),
		origin:      origin,
	}
	return c.sess, nil
}

// commit saves the present layout unless a script is running; scripts save
// once at the end.
func (c *CLI) commit(ctx context.Context, s *session) error {
	if c.scripting {
		return nil
	}
	return c.save(ctx, s)
}

func (c *CLI) save(ctx context.Context, s *session) error {
	if err := project.SaveLayout(s.layoutPath, s.editor.State()); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("saved layout", "path", s.layoutPath)
	return nil
}

// BlockedError reports an edit that could not be applied. The layout is
// unchanged.
type BlockedError struct {
	Op     string
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s blocked: %s", e.Op, e.Reason)
}
