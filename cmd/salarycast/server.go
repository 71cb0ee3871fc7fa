package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/salarycast/internal/api"
	"github.com/kalambet/salarycast/internal/config"
	"github.com/kalambet/salarycast/internal/pipeline"
	"github.com/kalambet/salarycast/internal/predict"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the salary prediction web form (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("model") {
			cfg.Model.Path, _ = cmd.Flags().GetString("model")
		}
		return runServer(cfg)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the server is running and which model it would load",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			// Still show partial status even if config fails.
			printError("config error: %v", err)
			return nil
		}
		showStatus(cmd.Context(), cfg)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from config server.host)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config server.port)")
	serveCmd.Flags().String("model", "", "artifact path (default from config model.path)")
}

// loadPredictor loads the artifact once. The returned predictor shares the
// pipeline read-only across requests.
func loadPredictor(cfg config.Config, logger *zap.Logger) (*predict.Predictor, error) {
	p, a, err := pipeline.Load(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w (run 'salarycast train' first)", cfg.Model.Path, err)
	}
	logger.Info("model loaded",
		zap.String("path", cfg.Model.Path),
		zap.Int("samples", a.Samples),
		zap.Time("trained_at", a.TrainedAt),
	)
	return predict.New(p, predict.WithDelay(cfg.Predict.Delay), predict.WithLogger(logger)), nil
}

func runServer(cfg config.Config) error {
	fmt.Fprintf(os.Stderr, "salarycast version %s\n", version)

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	predictor, err := loadPredictor(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewHandler(api.Deps{Predictor: predictor, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		printSuccess("salarycast listening on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func showStatus(ctx context.Context, cfg config.Config) {
	if ctx == nil {
		ctx = context.Background()
	}
	client := newAPIClient(cfg)
	if err := client.health(ctx); err != nil {
		printStatus("Server", "stopped")
	} else {
		printStatus("Server", "running on http://%s", cfg.Server.Addr())
	}

	if _, a, err := pipeline.Load(cfg.Model.Path); err != nil {
		printStatus("Model", "unavailable (%v)", err)
	} else {
		printStatus("Model", "%s", cfg.Model.Path)
		printStatus("Trained", "%s on %d samples", a.TrainedAt.Format(time.RFC3339), a.Samples)
	}
	printStatus("Predict delay", "%s", cfg.Predict.Delay)
}
