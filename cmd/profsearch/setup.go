// ABOUTME: Cobra command for interactive professor store setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate store credentials.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/profsearch/internal/config"
	"github.com/2389-research/profsearch/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Connect the professor store",
	Long:  "Interactive wizard to configure the PostgREST project URL, table, and anon key.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(
		cfg.Store.URL,
		cfg.Store.Table,
		cfg.Store.APIKey,
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	storeURL, table, apiKey := final.Result()
	cfg.Store.URL = storeURL
	cfg.Store.Table = table
	cfg.Store.APIKey = apiKey

	path := configPath
	if path == "" {
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", path)
	return nil
}
