package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/secretMoi/Purefin/internal/config"
	"github.com/secretMoi/Purefin/internal/forecast"
	"github.com/secretMoi/Purefin/internal/optimizer"
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/internal/snapshot"
	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/secretMoi/Purefin/pkg/optimization"
	"github.com/secretMoi/Purefin/pkg/output"
	"github.com/secretMoi/Purefin/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	solver        *optimizer.Solver
	maxUploadSize int64
	version       string
}

// Options configures NewHandler. Zero values fall back to defaults.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	Solver         *optimizer.Solver
}

// NewHandler constructs the HTTP handler serving the simulation API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	solver := opts.Solver
	if solver == nil {
		var err error
		solver, err = optimizer.NewSolver(logger, nil, config.DefaultSolverConfig())
		if err != nil {
			panic(fmt.Sprintf("failed to build default solver: %v", err))
		}
	}

	h := &handler{logger: logger, solver: solver, maxUploadSize: maxUploadSize, version: trimmedVersion}

	r := mux.NewRouter()

	r.HandleFunc("/api/simulation/calculate", h.handleCalculate).Methods(http.MethodPost)
	r.HandleFunc("/api/simulation/solve", h.handleSolve).Methods(http.MethodPost)
	r.HandleFunc("/api/simulation/estimate", h.handleEstimate).Methods(http.MethodPost)
	r.HandleFunc("/api/simulation/snapshot", h.handleSnapshot).Methods(http.MethodPost)
	r.HandleFunc("/api/simulation/verify", h.handleVerify).Methods(http.MethodPost)

	// Scenario file evaluation, same YAML as the CLI
	r.HandleFunc("/api/scenarios", h.handleScenarios).Methods(http.MethodPost)

	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	if len(opts.AllowedOrigins) == 0 {
		return r
	}
	return cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

type calculateResponse struct {
	simulation.Result
	BenefitsInKind []simulation.ExpenseLine `json:"benefitsInKind"`
	Expenses       []simulation.ExpenseLine `json:"expenses"`
}

type solveRequest struct {
	TargetNetAnnual float64           `json:"targetNetAnnual"`
	Objective       string            `json:"objective,omitempty"`
	Inputs          simulation.Inputs `json:"inputs"`
}

type solveResponse struct {
	optimization.Summary
	Result simulation.Result `json:"result"`
}

type estimateRequest struct {
	TargetNetMonthly float64            `json:"targetNetMonthly"`
	DaysWorked       *float64           `json:"daysWorked,omitempty"`
	Inputs           *simulation.Inputs `json:"inputs,omitempty"`
}

type snapshotRequest struct {
	Name   string            `json:"name"`
	Inputs simulation.Inputs `json:"inputs"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type scenariosResponse struct {
	Forecasts []forecast.Forecast `json:"forecasts"`
	CSV       string              `json:"csv"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	var in simulation.Inputs
	if !h.decode(w, r, &in, op) {
		return
	}
	if err := in.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	calc := h.solver.Calculator()
	h.writeJSON(w, http.StatusOK, calculateResponse{
		Result:         calc.Calculate(in),
		BenefitsInKind: calc.BenefitsInKind(in),
		Expenses:       calc.ExpenseLines(in),
	})
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSolve"

	var req solveRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if err := errors.Join(
		validation.ValidateAmount("targetNetAnnual", req.TargetNetAnnual),
		req.Inputs.Validate(),
	); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	solver := h.solver
	if req.Objective != "" {
		var err error
		solver, err = h.solver.WithObjective(req.Objective)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	summary := solver.SolveRequiredRevenue(req.TargetNetAnnual, req.Inputs)
	h.logger.Info("required revenue solved",
		zap.String("op", op),
		zap.Float64("target", summary.Target),
		zap.Float64("revenue", summary.Revenue),
		zap.Bool("converged", summary.Converged),
	)
	h.writeJSON(w, http.StatusOK, solveResponse{
		Summary: summary,
		Result:  solver.Calculator().Calculate(req.Inputs.WithRevenue(summary.Revenue)),
	})
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"

	var req estimateRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	daysWorked := float64(constants.DefaultDaysWorkedPerYear)
	if req.DaysWorked != nil {
		daysWorked = *req.DaysWorked
	}
	inputs := optimizer.EstimatorPreset()
	if req.Inputs != nil {
		inputs = *req.Inputs
	}

	if err := errors.Join(
		validation.ValidateAmount("targetNetMonthly", req.TargetNetMonthly),
		validation.ValidateDaysWorked(daysWorked),
		inputs.Validate(),
	); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	estimate := h.solver.EstimateDailyRate(req.TargetNetMonthly, daysWorked, inputs)
	h.writeJSON(w, http.StatusOK, estimate)
}

func (h *handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSnapshot"

	var req snapshotRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	rec, err := snapshot.New(req.Name, req.Inputs, h.solver.Calculator())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Info("snapshot created",
		zap.String("op", op),
		zap.String("id", rec.ID.String()),
		zap.String("name", rec.Name),
	)
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleVerify"

	var rec snapshot.Record
	if !h.decode(w, r, &rec, op) {
		return
	}

	err := rec.Verify(h.solver.Calculator())
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, verifyResponse{Valid: true})
	case errors.Is(err, snapshot.ErrDrift):
		h.logger.Warn("snapshot drifted",
			zap.String("op", op),
			zap.String("id", rec.ID.String()),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusOK, verifyResponse{Valid: false, Error: err.Error()})
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	}
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		h.respondBodyError(w, err, op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	solver, err := optimizer.NewSolver(h.logger, h.solver.Calculator(), cfg.Solver)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	results, err := forecast.GetForecast(ctx, h.logger, *cfg, solver)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("scenarios evaluated",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, scenariosResponse{
		Forecasts: results,
		CSV:       csvData,
		Warnings:  cfg.ValidateConfiguration(),
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decode reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondBodyError(w, err, op)
		return false
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.respondBodyError(w, err, op)
		return false
	}
	return true
}

func (h *handler) respondBodyError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before committing the status so that an encoding
// failure can still be reported as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.Int("status", status),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
