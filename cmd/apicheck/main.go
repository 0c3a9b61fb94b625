// Command apicheck exercises the triage API without the TUI: it lists the
// organization's repositories, then prints the top issues and their score
// breakdowns for one repository.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/robby/ghtriage/internal/api"
	"github.com/robby/ghtriage/internal/auth"
	"github.com/robby/ghtriage/internal/config"
	"github.com/robby/ghtriage/internal/format"
	"github.com/spf13/cobra"
)

// CLI flags
var (
	cfgFile string
	repo    string
	limit   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "apicheck",
		Short: "Print repositories and scored issues from the triage API",
		Args:  cobra.NoArgs,
		Run:   run,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default .ghtriage.yaml)")
	rootCmd.Flags().StringVar(&repo, "repo", "", "Repository to inspect (default: the one with most open issues)")
	rootCmd.Flags().IntVar(&limit, "limit", 5, "Number of issues to print")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts := []api.Option{api.WithLogger(logger)}
	if token, err := auth.NewChain(cfg.API.TokenEnv, cfg.API.UseGhToken).GetToken(); err == nil {
		opts = append(opts, api.WithToken(token))
	}

	client, err := api.New(cfg.API.BaseURL, opts...)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repos, err := client.FetchRepos(ctx, cfg.Organization)
	if err != nil {
		log.Fatal(api.ErrorText(err))
	}

	fmt.Printf("Repos for %s (%d):\n", cfg.Organization, len(repos.Repos))
	busiest := ""
	most := -1
	for _, r := range repos.Repos {
		fmt.Printf("  %-30s issues=%-8s stars=%s\n", r.Name, format.Count(r.OpenIssuesCount), format.Count(r.StargazersCount))
		if r.OpenIssuesCount > most {
			busiest, most = r.Name, r.OpenIssuesCount
		}
	}

	target := repo
	if target == "" {
		target = busiest
	}
	if target == "" {
		return
	}

	issues, err := client.FetchRepoIssues(ctx, cfg.Organization, target)
	if err != nil {
		log.Fatal(api.ErrorText(err))
	}
	if issues.Error != "" {
		fmt.Printf("\nServer error: %s\n", issues.Error)
	}

	fmt.Printf("\nIssues for %s/%s (%d, %s):\n", cfg.Organization, target, len(issues.Issues), issues.RepoURL)
	for i, issue := range issues.Issues {
		if i >= limit {
			break
		}
		fmt.Printf("\n  #%d %s\n", issue.Number, format.Title(issue))
		fmt.Printf("  score=%s rank=%s comments=%d created=%s user=%s\n",
			format.Number(issue.Score), format.Number(issue.Rank), issue.Comments, format.Date(issue.Created), issue.Username)
		for _, line := range strings.Split(format.ScoreBreakdown(issue.ScoreData), "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
}
