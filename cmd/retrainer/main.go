package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/feedback"
	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
	"github.com/pcfixlab/diagrouter/pkg/training"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "retrainer",
		Short: "Retrain the diagnosis models from the corpus and user feedback",
		Long: `retrainer rebuilds the category, component, and flat classifier
artifacts from the historical training corpus merged with corrected user
feedback. Existing artifacts are backed up before being replaced.

Common workflows:
  retrainer run                      # One retraining pass
  retrainer schedule --cron "0 3 * * *"  # Retrain daily at 3am`,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newScheduleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one retraining pass and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			job, cleanup, err := buildJob(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := job.Run(cmd.Context())
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
		},
	}
}

func newScheduleCmd() *cobra.Command {
	var spec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Retrain on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			job, cleanup, err := buildJob(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			scheduler := cron.New()
			_, err = scheduler.AddFunc(spec, func() {
				report, err := job.Run(context.Background())
				if err != nil {
					logging.Errorf("Scheduled retraining failed: %v", err)
					return
				}
				logging.Infof("Scheduled retraining done: %d samples, %d corrections",
					report.Samples, report.Corrections)
			})
			if err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", spec, err)
			}

			logging.Infof("Retraining scheduled (cron: %s)", spec)
			scheduler.Start()
			defer scheduler.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			logging.Infof("Shutting down scheduler")
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "0 3 * * *", "Standard 5-field cron expression")
	return cmd
}

// buildJob loads configuration and wires the retraining job, returning a
// cleanup for the feedback store.
func buildJob(cmd *cobra.Command) (*training.Job, func(), error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	mapping := classification.DefaultCategoryMapping()
	if cfg.CategoryMappingPath != "" {
		mapping, err = classification.LoadCategoryMapping(cfg.CategoryMappingPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load category mapping: %w", err)
		}
	}

	cleanup := func() {}
	var source training.CorrectionSource
	if cfg.Feedback.DBPath != "" {
		store, err := feedback.Open(cfg.Feedback.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open feedback store: %w", err)
		}
		source = store
		cleanup = func() { store.Close() }
	}

	return training.NewJob(cfg, source, mapping), cleanup, nil
}
