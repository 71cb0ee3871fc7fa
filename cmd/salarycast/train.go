package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kalambet/salarycast/internal/config"
	"github.com/kalambet/salarycast/internal/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Synthesize the training data and write the model artifact",
	Long: `Synthesize a salary dataset, fit the preprocessing and regression
pipeline on all of it and write the artifact the predictor loads.

Flags override the trainer.* and model.path config keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		opts := trainer.Options{
			Samples:   cfg.Trainer.Samples,
			Seed:      uint64(cfg.Trainer.Seed),
			ModelPath: cfg.Model.Path,
		}
		if cmd.Flags().Changed("samples") {
			opts.Samples, _ = cmd.Flags().GetInt("samples")
		}
		if cmd.Flags().Changed("seed") {
			opts.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		if cmd.Flags().Changed("out") {
			opts.ModelPath, _ = cmd.Flags().GetString("out")
		}
		opts.DatasetPath, _ = cmd.Flags().GetString("dataset-out")

		logger, err := newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()
		opts.Logger = logger

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		printStep("Training on %d synthetic samples", opts.Samples)
		sum, err := trainer.Run(ctx, opts)
		if err != nil {
			return err
		}

		printSuccess("Model trained and saved to %s", sum.ModelPath)
		printStatus("Samples", "%d", sum.Samples)
		printStatus("Seed", "%d", sum.Seed)
		printStatus("Features", "%d", len(sum.Features))
		printStatus("Intercept", "%.2f", sum.Intercept)
		if opts.DatasetPath != "" {
			printStatus("Dataset", "%s", opts.DatasetPath)
		}
		return nil
	},
}

func init() {
	trainCmd.Flags().Int("samples", 0, "number of synthetic samples (default from config: 300)")
	trainCmd.Flags().Uint64("seed", 0, "random seed; 0 draws one")
	trainCmd.Flags().String("out", "", "artifact path (default from config model.path)")
	trainCmd.Flags().String("dataset-out", "", "also write the synthesized dataset as CSV")
}
