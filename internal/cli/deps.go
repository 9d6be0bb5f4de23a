package cli

import (
	"github.com/spf13/cobra"
)

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <snapshot> <package>",
		Short: "List a package's dependencies and dependents",
		Long: `List every dependency the package ever declared, the dependencies of its
latest release that are known packages, their transitive closure, and every
package that ever depended on it.`,
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
			s := ld.store

			ever, err := s.Dependencies(pkg)
			if err != nil {
				return err
			}
			present, err := s.PresentDependencies(pkg)
			if err != nil {
				return err
			}
			transitive, err := s.PresentTransitiveDependencies(pkg)
			if err != nil {
				return err
			}
			reverse, err := s.ReverseDependencies(pkg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			latest, _ := s.LatestVersion(pkg)
			printKeyValue(w, "Package", pkg)
			printKeyValue(w, "Latest", latest)
			if author := s.Author(pkg); author != "" {
				printKeyValue(w, "Author", author)
			}
			printList(w, "Dependencies (ever)", ever)
			printList(w, "Dependencies (present)", present)
			printList(w, "Dependencies (transitive)", transitive)
			printList(w, "Dependents", reverse)
			return nil
		},
	}
}
