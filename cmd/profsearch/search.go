// ABOUTME: CLI command for ranking professors against a query from the terminal.
// ABOUTME: Runs semantic search by default or fuzzy keyword search with --keyword.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search professors",
	Long: `Rank professors by similarity between the query and their profile
(name, department, university, biography, subjects).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// Flags
var (
	searchLimit   int
	searchKeyword bool
	searchJSON    bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (default from config, 20)")
	searchCmd.Flags().BoolVar(&searchKeyword, "keyword", false, "Use keyword search instead of semantic search")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	search := globalSearch.Semantic
	if searchKeyword {
		search = globalSearch.Keyword
	}

	results, err := search(cmd.Context(), query, searchLimit)
	if err != nil {
		if errors.Is(err, embeddings.ErrEmptyInput) {
			return fmt.Errorf("query %q has no searchable text", query)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []models.RankedProfessor{}
		}
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No professors found.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. %s [%.3f]\n", i+1, r.Name, r.Score)
		printProfessorDetails(&r.Professor)
	}
	return nil
}

func printProfessorDetails(p *models.Professor) {
	var where []string
	for _, f := range []string{p.Department, p.University} {
		if f != "" {
			where = append(where, f)
		}
	}
	if len(where) > 0 {
		fmt.Printf("    %s\n", strings.Join(where, ", "))
	}
	if len(p.Subjects) > 0 {
		fmt.Printf("    Subjects: %s\n", strings.Join(p.Subjects, ", "))
	}
	if p.Bio != "" {
		fmt.Printf("    %s\n", truncate(p.Bio, 100))
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
