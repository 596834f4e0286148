package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/roeyazroel/jira-tui/internal/config"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
	"github.com/roeyazroel/jira-tui/internal/logger"
	"github.com/roeyazroel/jira-tui/internal/tui"
	"github.com/spf13/cobra"
)

// runner starts the interactive UI. Tests replace it.
type runner func(cfg config.Config, client *jiraapi.Client) error

func main() {
	if err := newRootCmd(runTUI).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(run runner) *cobra.Command {
	var (
		opts        config.Options
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:   "jira-tui",
		Short: "Terminal client for Jira boards, backlogs and worklogs",
		Long: `jira-tui browses Jira boards and their backlogs, shows issue details and
records, edits and deletes worklogs from the terminal.

Connection settings are read from a .env file and the environment:
  ` + strings.Join(config.RequiredEnv(), ", "),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), VersionInfo())
				return nil
			}
			return start(opts, run)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file with connection settings")
	flags.StringVar(&opts.LogFile, "log-file", "", "log file path (overrides "+config.LogFileEnv+")")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warning or error (overrides "+config.LogLevelEnv+")")
	flags.BoolVarP(&showVersion, "version", "v", false, "print version information and exit")
	return cmd
}

// start loads configuration, sets up logging and hands over to run.
func start(opts config.Options, run runner) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.Init(cfg.LogFile, logger.ParseLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Close()

	logger.Info("Application starting version=%s", Version)
	logger.Debug("Configuration: BaseURL=%s, PageSize=%d, WorklogPageSize=%d, Timeout=%s",
		cfg.BaseURL, cfg.PageSize, cfg.WorklogPageSize, cfg.Timeout)

	client, err := jiraapi.NewClient(jiraapi.ClientConfig{
		BaseURL: cfg.BaseURL,
		Email:   cfg.Email,
		Token:   cfg.APIToken,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		logger.ErrorWithErr(err, "Failed to create Jira client")
		return fmt.Errorf("create Jira client: %w", err)
	}

	if err := run(cfg, client); err != nil {
		logger.ErrorWithErr(err, "Application error")
		return err
	}

	logger.Info("Application shutdown")
	return nil
}

func runTUI(cfg config.Config, client *jiraapi.Client) error {
	return tui.NewApp(client, cfg).Run()
}
