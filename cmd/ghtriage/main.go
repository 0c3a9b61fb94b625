package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghtriage/internal/api"
	"github.com/robby/ghtriage/internal/auth"
	"github.com/robby/ghtriage/internal/config"
	"github.com/robby/ghtriage/internal/logging"
	"github.com/robby/ghtriage/internal/tui"
	"github.com/spf13/cobra"
)

// CLI flags
var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ghtriage",
		Short: "Terminal dashboard for triaging scored GitHub issues",
		Long: `ghtriage is a terminal dashboard for the issue triage API.

It lists an organization's repositories, shows each repository's open issues
ranked by the server-computed priority score, and submits triage actions
(close, comment, label) back through the API. The admin panel triggers the
server's maintenance tasks.

Configuration is read from .ghtriage.yaml (working directory or
$XDG_CONFIG_HOME/ghtriage), GHTRIAGE_* environment variables and flags.

Authentication (optional):
  1. Environment variable: GHTRIAGE_TOKEN (see --token-env)
  2. GitHub CLI token when api.use_gh_token is set`,
		SilenceUsage: true,
		RunE:         run,
	}

	// Define CLI flags
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default .ghtriage.yaml)")
	flags.String("api-url", "", "Base URL of the triage API (default http://localhost:5000)")
	flags.String("org", "", "Organization listed on the index screen (default driftyco)")
	flags.String("route", "", "Start route, e.g. /manage or /driftyco/ionic")
	flags.String("token-env", "", "Environment variable holding the API token")
	flags.String("log-file", "", "Write diagnostic logs to this file")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps flags onto config keys.
var flagKeys = map[string]string{
	"api-url":   "api.base_url",
	"org":       "organization",
	"route":     "start_route",
	"token-env": "api.token_env",
	"log-file":  "log.file",
	"log-level": "log.level",
}

func run(cmd *cobra.Command, args []string) error {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := []api.Option{api.WithLogger(logger)}
	token, err := auth.NewChain(cfg.API.TokenEnv, cfg.API.UseGhToken).GetToken()
	if err != nil {
		logger.Info("running without API token", "reason", err)
	} else {
		opts = append(opts, api.WithToken(token))
	}

	client, err := api.New(cfg.API.BaseURL, opts...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	logger.Info("starting", "api", client.BaseURL(), "org", cfg.Organization, "route", cfg.StartRoute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.NewAppModel(ctx, client, tui.Options{
		Organization:     cfg.Organization,
		MessageTypes:     cfg.MessageTypes,
		TriggerLocations: cfg.TriggerLocations,
	}, logger, cfg.StartRoute)

	// Run Bubble Tea program
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}
