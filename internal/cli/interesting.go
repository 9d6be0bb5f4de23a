package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depalyze/pkg/errors"
)

// interestingCommand creates the interesting command.
func (c *CLI) interestingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interesting <snapshot>",
		Short: "Find packages under maintenance stress",
		Long: `List packages with diverse, busy upstream dependencies and diverse
downstream dependents that are still releasing, together with whether each
keeps chasing an unaffiliated upstream (downstreamer).

Thresholds come from the [heuristics] section of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ld, err := loadSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			a := c.analyzer(ld)

			prog := newProgress(loggerFromContext(ctx))
			findings, err := a.InterestingPackages()
			if err != nil {
				return err
			}
			prog.with("found", len(findings)).done("Scanned packages")

			w := cmd.OutOrStdout()
			if len(findings) == 0 {
				printInfo(w, "No interesting packages")
				return nil
			}

			rows := make([][]string, 0, len(findings))
			for _, f := range findings {
				chased := "-"
				if dep, ok, err := a.Downstreamer(f.Package); err != nil {
					return err
				} else if ok {
					chased = dep
				}
				rows = append(rows, []string{
					f.Package,
					ld.store.Author(f.Package),
					fmt.Sprint(len(f.Dependencies)),
					fmt.Sprint(len(f.ReverseDependencies)),
					chased,
				})
			}
			fmt.Fprintln(w, renderTable([]string{"Package", "Author", "Upstream", "Downstream", "Chases"}, rows))
			return nil
		},
	}
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <snapshot>",
		Short: "Summarize release cadence across the ecosystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ld, err := loadSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			st := ld.store.Stats()
			printKeyValue(w, "Packages", StyleNumber.Render(fmt.Sprint(st.Packages)))
			printKeyValue(w, "Versions", StyleNumber.Render(fmt.Sprint(st.Versions)))

			freq, err := c.analyzer(ld).AverageUpdateFrequency()
			if errors.IsNotApplicable(err) {
				printWarning(w, "No package has two or more releases")
				return nil
			}
			if err != nil {
				return err
			}
			printKeyValue(w, "Updates/day", StyleNumber.Render(fmt.Sprintf("%.4f", freq)))
			if freq > 0 {
				printKeyValue(w, "Days/update", StyleNumber.Render(fmt.Sprintf("%.1f", 1/freq)))
			}
			return nil
		},
	}
}
