// ABOUTME: CLI command for listing professors from the configured store.
// ABOUTME: Can export the listing to a YAML fixture usable as an offline store.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/profsearch/internal/storage"
)

var professorsCmd = &cobra.Command{
	Use:   "professors",
	Short: "List professors",
	Long: `List professors in store order.

With --export the listing is written to a YAML file that can be used as
an offline store via store.fixture_path or PROFSEARCH_FIXTURE.`,
	Args: cobra.NoArgs,
	RunE: runProfessors,
}

// Flags
var (
	professorsLimit  int
	professorsOffset int
	professorsExport string
)

func init() {
	rootCmd.AddCommand(professorsCmd)

	professorsCmd.Flags().IntVar(&professorsLimit, "limit", 0, "Maximum number of professors (0 for all)")
	professorsCmd.Flags().IntVar(&professorsOffset, "offset", 0, "Number of professors to skip")
	professorsCmd.Flags().StringVar(&professorsExport, "export", "", "Write the listing to a YAML fixture file")
}

func runProfessors(cmd *cobra.Command, args []string) error {
	if professorsLimit < 0 || professorsOffset < 0 {
		return fmt.Errorf("--limit and --offset must not be negative")
	}

	professors, err := globalSearch.List(cmd.Context(), storage.ListOptions{
		Limit:  professorsLimit,
		Offset: professorsOffset,
	})
	if err != nil {
		return fmt.Errorf("failed to list professors: %w", err)
	}

	if professorsExport != "" {
		out, err := storage.NewFileStore(professorsExport)
		if err != nil {
			return err
		}
		if err := out.WriteProfessors(professors); err != nil {
			return fmt.Errorf("failed to export professors: %w", err)
		}
		fmt.Printf("Exported %d professor(s) to %s\n", len(professors), out.Path())
		return nil
	}

	if len(professors) == 0 {
		fmt.Println("No professors found.")
		return nil
	}

	for _, p := range professors {
		fmt.Printf("--- %s (ID: %s)\n", p.Name, p.ID)
		printProfessorDetails(p)
	}
	return nil
}
