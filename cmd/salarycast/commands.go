package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kalambet/salarycast/internal/config"
	"github.com/kalambet/salarycast/internal/predict"
)

// --- predict ---

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a salary from flags without starting the server",
	Long: `Predict a salary from flags using the same model and checks as the web form.

Examples:
  salarycast predict --age 30 --experience 5
  salarycast predict --age 41 --education PhD --job-title "Data Scientist" --experience 17 --currency EUR
  salarycast predict --age 28 --experience 4 --export ./reports/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("model") {
			cfg.Model.Path, _ = cmd.Flags().GetString("model")
		}

		in := predict.DefaultInput()
		in.Age, _ = cmd.Flags().GetInt("age")
		in.Gender, _ = cmd.Flags().GetString("gender")
		in.Education, _ = cmd.Flags().GetString("education")
		in.JobTitle, _ = cmd.Flags().GetString("job-title")
		in.Experience, _ = cmd.Flags().GetInt("experience")
		in.Currency, _ = cmd.Flags().GetString("currency")
		in.ShowCharts = false
		export, _ := cmd.Flags().GetString("export")

		predictor, err := loadPredictor(cfg, zap.NewNop())
		if err != nil {
			return err
		}

		res, err := predictor.Predict(cmd.Context(), in)
		var verr *predict.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Messages {
				printError("%s", msg)
			}
			printWarning("%s", predict.BlockedMessage)
			return err
		}
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), res)

		if export != "" {
			path, err := exportReport(export, res.Report)
			if err != nil {
				return err
			}
			printSuccess("Report written to %s", path)
		}
		return nil
	},
}

func init() {
	def := predict.DefaultInput()
	predictCmd.Flags().Int("age", def.Age, "age in years")
	predictCmd.Flags().String("gender", def.Gender, "gender (Male, Female)")
	predictCmd.Flags().String("education", def.Education, "education level (High School, Bachelor, Master, PhD)")
	predictCmd.Flags().String("job-title", def.JobTitle, "job title (Developer, Data Scientist, Manager, Analyst, Engineer)")
	predictCmd.Flags().Int("experience", def.Experience, "years of experience")
	predictCmd.Flags().String("currency", predict.DefaultCurrency.Code, "display currency (INR, USD, EUR)")
	predictCmd.Flags().String("export", "", "write the CSV report to this file or directory")
	predictCmd.Flags().String("model", "", "artifact path (default from config model.path)")
}

func printResult(w io.Writer, res predict.Result) {
	printMetric(w, "Predicted Annual Salary", res.Display.Annual)
	printMetric(w, "Monthly Salary", res.Display.Monthly)
	printMetric(w, "Hourly Rate", res.Display.Hourly)
	printMetric(w, "Daily Rate", res.Display.Daily)
}

// exportReport writes the report CSV. A directory target (existing, or given
// with a trailing separator) receives the report under its default filename.
func exportReport(target string, r predict.Report) (string, error) {
	path := target
	if strings.HasSuffix(target, string(os.PathSeparator)) {
		path = filepath.Join(target, r.Filename())
	} else if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		path = filepath.Join(target, r.Filename())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := r.WriteCSV(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, f.Close()
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value in the config file.\n\nValid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
