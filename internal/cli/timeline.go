package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depalyze/pkg/cache"
	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/timeline"
)

// timelineCommand creates the timeline command.
func (c *CLI) timelineCommand() *cobra.Command {
	var boring bool

	cmd := &cobra.Command{
		Use:   "timeline <snapshot> <package>",
		Short: "Print a package's history next to its dependencies and dependents",
		Long: `Print a time-sorted report with three columns: releases of the package's
dependencies and the constraints it declared on them, releases of the package
itself, and releases of its dependents with the constraints they declared.

The package may be given by name or as a package URL (pkg:npm/%40babel/core).
Reports are cached per snapshot content; pass --no-cache to recompute.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ld, err := loadSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			pkg, err := lookupPackage(ld, args[1])
			if err != nil {
				return err
			}

			return c.cachedReport(cmd, ld, "timeline", pkg, []any{boring}, func(w io.Writer) error {
				rows, err := timeline.Rows(ld.store, pkg, timeline.Options{AbortIfBoring: boring})
				if err != nil {
					return err
				}
				_, err = io.WriteString(w, timeline.Report(rows, pkg))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&boring, "boring", false, "fail on packages without dependencies or dependents")
	return cmd
}

// spansCommand creates the spans command.
func (c *CLI) spansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spans <snapshot> <package>",
		Short: "Emit a package's timeline as JSON spans and connections",
		Long: `Emit the bars and links of a timeline chart as JSON: one span per release of
the package and of each dependency, one span per constraint the package
declared, and a connection from each dependency release to the package
release that referenced it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ld, err := loadSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pkg, err := lookupPackage(ld, args[1])
			if err != nil {
				return err
			}

			return c.cachedReport(cmd, ld, "spans", pkg, nil, func(w io.Writer) error {
				tl, err := timeline.Project(ld.store, pkg)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(tl)
			})
		},
	}
}

// cachedReport writes the output of render for (command, pkg) to the
// command's output, serving it from the report cache when possible.
// Uninteresting packages are reported as a warning, not a failure.
func (c *CLI) cachedReport(cmd *cobra.Command, ld *loaded, command, pkg string, opts []any, render func(io.Writer) error) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	w := cmd.OutOrStdout()

	rc, err := c.newCache(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	key := cache.ReportKey(ld.hash, command, pkg, opts...)
	if data, ok, err := rc.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if ok {
		logger.Debug("report served from cache", "command", command, "package", pkg)
		_, err := w.Write(data)
		return err
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, errors.ErrCodeUninteresting) {
			printWarning(cmd.ErrOrStderr(), "%s", errors.UserMessage(err))
			return nil
		}
		return fmt.Errorf("%s %s: %w", command, pkg, err)
	}
	if err := rc.Set(ctx, key, buf.Bytes(), c.Config.Cache.TTL); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
