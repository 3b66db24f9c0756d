// Package cli implements the scopeview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/akowalsk/scopeview/pkg/buildinfo"
	"github.com/akowalsk/scopeview/pkg/errors"
	"github.com/akowalsk/scopeview/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "scopeview"

	// defaultWindowWidth and defaultWindowHeight size the viewer window
	// when no flags override them.
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "scopeview",
		Short:        "Scopeview displays waveform captures with cursors and markers",
		Long:         `Scopeview is an interactive viewer for multi-channel waveform captures. It renders grouped channels on a shared time axis with pan, zoom, dual cursors, named markers, and persistence display.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.markersCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Marker Store Factory
// =============================================================================

// storeFlags holds the marker persistence flags shared by view and markers.
type storeFlags struct {
	backend  string
	stateDir string
	redis    string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "store", "file", "marker store backend (memory, file, redis)")
	cmd.Flags().StringVar(&f.stateDir, "state-dir", "", "directory for the file store (default ~/.local/state/scopeview)")
	cmd.Flags().StringVar(&f.redis, "redis", "localhost:6379", "redis address for the redis store")
}

// newStore builds the marker store selected by the flags.
func (f *storeFlags) newStore(ctx context.Context) (session.Store, error) {
	switch f.backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "file":
		dir := f.stateDir
		if dir == "" {
			var err error
			if dir, err = stateDir(); err != nil {
				return nil, err
			}
		}
		return session.NewFileStore(dir)
	case "redis":
		return session.NewRedisStore(ctx, session.RedisConfig{Addr: f.redis})
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", f.backend)
}

// =============================================================================
// Paths
// =============================================================================

// stateDir returns the state directory using XDG standard (~/.local/state/scopeview/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}
