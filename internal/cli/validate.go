package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <snapshot>",
		Short: "Check a snapshot for consistency",
		Long: `Load a snapshot, check that its release and dependency tables describe the
same packages and that every name, constraint and date is well formed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ld, err := loadSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			st := ld.store.Stats()
			printSuccess(w, "Snapshot is valid")
			printKeyValue(w, "Packages", StyleNumber.Render(fmt.Sprint(st.Packages)))
			printKeyValue(w, "Versions", StyleNumber.Render(fmt.Sprint(st.Versions)))
			printKeyValue(w, "Declarations", StyleNumber.Render(fmt.Sprint(st.Declarations)))
			printKeyValue(w, "End of time", ld.store.EndOfTime().Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
