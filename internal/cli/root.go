// Package cli implements the cookieaudit command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cookieaudit/internal/logging"
)

type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the command tree. Output goes to stdout, logs to stderr.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:           "cookieaudit",
		Short:         "Classify SameSite cookie issues reported by the browser",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&gf.logFormat, "log-format", "text", "log format (text, json)")

	logger := func() (*logrus.Logger, error) {
		return logging.New(stderr, gf.logLevel, gf.logFormat)
	}
	root.AddCommand(
		newClassifyCommand(logger),
		newServeCommand(logger),
		newMigrateCommand(),
	)
	return root
}

// Execute runs the root command against the process streams.
func Execute() {
	cmd := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logrus.New().WithError(err).Error("cookieaudit failed")
		os.Exit(1)
	}
}
