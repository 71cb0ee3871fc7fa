package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kalambet/salarycast/internal/predict"
)

const maxFormBodySize = 64 << 10 // 64KB

// Predictor is the prediction service behind the form.
type Predictor interface {
	Predict(ctx context.Context, in predict.Input) (predict.Result, error)
}

type Deps struct {
	Predictor Predictor
	Logger    *zap.Logger
}

// NewHandler returns the web UI: the form, its submission endpoint and a
// health probe.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	r.Get("/", handleIndex(deps))
	r.Post("/predict", handlePredict(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleIndex(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, deps.Logger, http.StatusOK, newPage(predict.DefaultInput()))
	}
}

func handlePredict(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)
		defer r.Body.Close()

		in, err := parseInput(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid form: %v", err)
			return
		}

		p := newPage(in)
		res, err := deps.Predictor.Predict(r.Context(), in)
		var verr *predict.ValidationError
		switch {
		case errors.As(err, &verr):
			p.Errors = verr.Messages
			p.Blocked = predict.BlockedMessage
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			deps.Logger.Error("prediction failed", zap.Error(err))
			httpError(w, http.StatusInternalServerError, "api_error", "prediction failed: %v", err)
			return
		default:
			view, err := newResultView(res)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "building report: %v", err)
				return
			}
			p.Result = view
		}

		renderPage(w, deps.Logger, http.StatusOK, p)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
