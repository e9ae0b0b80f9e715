// Command storefront serves, inspects and exports the storefront.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are shared by every command.
type globalOptions struct {
	configDir string
	verbose   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.SetColor(os.Getenv("NO_COLOR") == "")
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "A minimal server-rendered storefront",
		Long: `storefront serves a two-page shop: a home page and a product
detail page, rendered on the server and mounted into #app.

Navigation between pages happens over a WebSocket without reloading
the document. The site can also be exported as static HTML to a
directory or an S3 bucket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config-dir", "C", "", "Directory containing storefront.json (default: working directory)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		serveCmd(opts),
		routesCmd(opts),
		exportCmd(opts),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// newLogger returns the process logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
