// Package cli implements the qrmosaic command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qrmosaic/pkg/buildinfo"
	"github.com/matzehuels/qrmosaic/pkg/pipeline"
	"github.com/matzehuels/qrmosaic/pkg/qr"
)

// appName is the application name used for display and file names.
const appName = "qrmosaic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Use:          appName,
		Short:        "QRMosaic encodes text as a sheet of QR symbols and back",
		Long:         `QRMosaic splits text into checksum-protected (and optionally encrypted) fragments, renders each as a QR symbol, and tiles them into one PNG. Decoding scans such a PNG, verifies integrity, and restores the original text.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(moduleSize int) *pipeline.Runner {
	return pipeline.NewRunner(qr.SymbolRenderer{ModuleSize: moduleSize}, qr.ImageScanner{}, c.Logger)
}
