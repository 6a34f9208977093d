// ABOUTME: Cobra command for interactive smilefeed configuration.
// ABOUTME: Launches a bubbletea TUI wizard for the source, start date and batch size.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/config"
	"github.com/harper/smilefeed/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the article source and schedule",
	Long:  "Interactive wizard to configure the CSV source, start date and daily batch size.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	path = config.ExpandPath(path)

	conf, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(tui.SetupResult{
		Source:    conf.Source,
		StartDate: conf.StartDate,
		BatchSize: conf.BatchSize,
	})

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	applySetup(conf, final.Result())

	if err := conf.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", path)
	return nil
}

// applySetup copies the wizard answers into cfg.
func applySetup(cfg *config.Config, r tui.SetupResult) {
	cfg.Source = r.Source
	cfg.StartDate = r.StartDate
	cfg.BatchSize = r.BatchSize
}
