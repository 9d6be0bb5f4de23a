package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with args.
//
// Logging goes to logw:
//   - Default: info level
//   - With --verbose (-v): debug level, including reverse index progress
//
// Command output goes to out. The logger is attached to the command context
// and reachable from every command via loggerFromContext.
func Execute(ctx context.Context, args []string, out, logw io.Writer) error {
	var verbose bool

	c := New(logw, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(logw)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
