package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hitcounter/internal/events/repository"
	"hitcounter/internal/report"
	"hitcounter/pkg/client"
	"hitcounter/pkg/config"
	"hitcounter/pkg/logger"
)

const ToolName = "report"

var errorColor = color.New(color.FgRed)

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "Print recent page views",
	Long: `report reads the hitcounter event collection and prints every event
newer than the window as colorized JSON, most recent first.

Connection settings come from the same environment variables (and .env
file) as the service.`,
	Example: `  report
  report --since 1h
  report --no-color > events.txt`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.Flags().Duration("since", report.DefaultWindow, "how far back to look")
	rootCmd.Flags().Bool("no-color", false, "disable ANSI colors")
	rootCmd.Flags().String("log-level", logger.WARN, "log level for diagnostics on stderr")
}

func run(cmd *cobra.Command, _ []string) error {
	since, _ := cmd.Flags().GetDuration("since")
	if since <= 0 {
		return fmt.Errorf("--since must be positive, got %s", since)
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" && os.Getenv(config.EnvLogLevel) == "" {
		os.Setenv(config.EnvLogLevel, level)
	}

	cfg := config.Load(ToolName, config.WithLogOutput(os.Stderr))

	clients := client.NewClient()
	clients.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	defer clients.DisconnectWithin(cfg.ShutdownTimeout, cfg.Log)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ReadTimeout+cfg.MongoConnTimeout)
	defer cancel()

	repo := repository.NewMongoEventRepository(cfg, clients.Mongo)
	started := time.Now()
	n, err := report.NewReporter(repo, cmd.OutOrStdout(), since).Run(ctx)
	if err != nil {
		return err
	}
	cfg.Log.Debug("Report finished", "events", n, "duration", time.Since(started))
	return nil
}
