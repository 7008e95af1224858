package calculator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"calc-api/internal/expression"
	"calc-api/internal/handlers"
	"calc-api/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ansVariable is bound to the previous result in a chain.
const ansVariable = "ans"

// MaxChainLength bounds the number of expressions in one chain request.
const MaxChainLength = 100

var (
	errMissingExpression = errors.New("expression is required")
	errNonFiniteAns      = errors.New("previous result is not finite and cannot be used as ans")
)

// ansReference matches a use of ans as a whole word.
var ansReference = regexp.MustCompile(`\bans\b`)

// Handler serves the calculator endpoints.
type Handler struct {
	eval             *expression.Evaluator
	defaultPrecision int
}

// NewHandler returns a Handler using eval. A defaultPrecision outside the
// accepted range falls back to expression.DefaultPrecision.
func NewHandler(eval *expression.Evaluator, defaultPrecision int) *Handler {
	if defaultPrecision < expression.MinPrecision || defaultPrecision > expression.MaxPrecision {
		defaultPrecision = expression.DefaultPrecision
	}
	return &Handler{eval: eval, defaultPrecision: defaultPrecision}
}

// ---------------------------------------------------------------------------
// Handler: single evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. Request validation failures
// are HTTP 400s; a bad expression is still a 200 carrying success=false.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const opName = "evaluate"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// --- 1. Custom child span ---
	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	// --- 2. Decode and validate request body ---
	var req EvaluateRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if strings.TrimSpace(req.Expression) == "" {
		observability.RecordError(ctx, span, logger, errorCounter, opName, errMissingExpression.Error(), errMissingExpression, http.StatusBadRequest, w)
		return
	}

	mode, opts, err := h.resolve(req.Mode, req.Options)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.mode", string(mode)),
		attribute.Int("calculator.expression.length", len(req.Expression)),
	)

	// --- 3. Evaluate (timed for histogram) ---
	start := time.Now()
	res, err := h.eval.Evaluate(ctx, req.Expression, mode, opts)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	// --- 4. Metrics, span and log ---
	h.record(ctx, span, logger, opName, mode, res, elapsed)

	// --- 5. Write JSON response ---
	handlers.WriteJSON(w, http.StatusOK, NewEvaluateResponse(res))
}

// resolve validates the request-level fields and builds evaluation options.
func (h *Handler) resolve(modeName string, in EvaluateOptions) (expression.Mode, expression.Options, error) {
	mode, err := expression.ParseMode(modeName)
	if err != nil {
		return "", expression.Options{}, err
	}

	unit, err := expression.ParseAngleUnit(in.AngleUnit)
	if err != nil {
		return "", expression.Options{}, err
	}

	precision := h.defaultPrecision
	if in.Precision != nil {
		precision = *in.Precision
	}

	opts := expression.Options{
		Precision: precision,
		AngleUnit: unit,
		Variables: in.Variables,
		ShowSteps: in.ShowSteps,
	}
	if err := opts.Validate(); err != nil {
		return "", expression.Options{}, err
	}
	return mode, opts, nil
}

func (h *Handler) record(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, mode expression.Mode, res expression.Result, elapsed float64) {
	requestID := observability.RequestIDFromContext(ctx)
	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("mode", string(mode)),
		attribute.Bool("success", res.Success),
	)
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	if !res.Success {
		failureCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", opName),
			attribute.String("kind", res.Err.Kind.String()),
		))
		span.AddEvent("evaluation.failed", trace.WithAttributes(
			attribute.String("kind", res.Err.Kind.String()),
			attribute.String("message", res.Err.Msg),
		))
		// A failed evaluation is a normal outcome for the request.
		span.SetStatus(codes.Ok, "")

		logger.Info("expression evaluation failed",
			zap.String("operation", opName),
			zap.String("mode", string(mode)),
			zap.String("error_kind", res.Err.Kind.String()),
			zap.String("error", res.Err.Msg),
			zap.String("request_id", requestID),
			zap.Float64("duration_ms", elapsed),
		)
		return
	}

	if res.Fallback {
		fallbackCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
		logger.Warn("primary evaluator faulted, answered by fallback",
			zap.String("operation", opName),
			zap.String("request_id", requestID),
		)
	}

	if v := *res.Value; finite(v) {
		resultGauge.Record(ctx, v, metric.WithAttributes(attribute.String("operation", opName)))
	}

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.String("result", res.Display()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", res.Display()))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("operation", opName),
		zap.String("mode", string(mode)),
		zap.String("result", res.Display()),
		zap.Bool("fallback", res.Fallback),
		zap.String("warning", res.Warning),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)
}

// NewEvaluateResponse converts a Result to its JSON shape.
func NewEvaluateResponse(res expression.Result) EvaluateResponse {
	steps := res.Steps
	if steps == nil {
		steps = []expression.Step{}
	}
	resp := EvaluateResponse{
		Success:      res.Success,
		Result:       numberPtr(res.Value),
		Display:      res.Display(),
		Warning:      res.Warning,
		Steps:        steps,
		DerivedViews: res.Derived,
		Fallback:     res.Fallback,
	}
	if res.Err != nil {
		resp.Error = stringPtr(res.Err.Error())
		resp.ErrorKind = res.Err.Kind.String()
	}
	return resp
}

// ---------------------------------------------------------------------------
// Handler: chained evaluations
// ---------------------------------------------------------------------------

// Chain handles POST /calculator/chain. It evaluates a sequence of expressions,
// binding each result to ans for the next one and creating a child span for
// every step. The chain stops at the first failed step.
func (h *Handler) Chain(w http.ResponseWriter, r *http.Request) {
	const opName = "chain"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the entire chain
	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	// Decode
	var req ChainRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Expressions) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no expressions provided", fmt.Errorf("expressions array is empty"), http.StatusBadRequest, w)
		return
	}
	if len(req.Expressions) > MaxChainLength {
		err := fmt.Errorf("chain has %d expressions, maximum is %d", len(req.Expressions), MaxChainLength)
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}
	for i, e := range req.Expressions {
		if strings.TrimSpace(e) == "" {
			err := fmt.Errorf("expression %d is empty", i)
			observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
			return
		}
	}

	mode, opts, err := h.resolve(req.Mode, req.Options)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.mode", string(mode)),
		attribute.Int("chain.steps_count", len(req.Expressions)),
	)

	logger.Info("starting chained evaluation",
		zap.Int("steps", len(req.Expressions)),
		zap.String("request_id", requestID),
	)

	resp := ChainResponse{Success: true, Steps: make([]ChainResult, 0, len(req.Expressions))}
	var prev *float64

	for i, input := range req.Expressions {
		// --- Child span per step ---
		stepCtx, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d", i),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.Int("chain.step.length", len(input)),
			),
		)

		stepOpts := opts
		stepOpts.Variables = maps.Clone(opts.Variables)
		if prev != nil && finite(*prev) {
			if stepOpts.Variables == nil {
				stepOpts.Variables = map[string]float64{}
			}
			stepOpts.Variables[ansVariable] = *prev
		}

		// failure is set when the step does not produce a value; failureKind
		// is empty for failures outside the evaluation taxonomy.
		var (
			res         expression.Result
			failure     error
			failureKind string
		)

		stepStart := time.Now()
		if prev != nil && !finite(*prev) && ansReference.MatchString(input) {
			failure = errNonFiniteAns
		} else {
			var err error
			res, err = h.eval.Evaluate(stepCtx, input, mode, stepOpts)
			switch {
			case err != nil:
				failure = err
			case !res.Success:
				failure, failureKind = res.Err, res.Err.Kind.String()
			}
		}
		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		attrs := metric.WithAttributes(
			attribute.String("operation", opName),
			attribute.String("mode", string(mode)),
			attribute.Bool("success", failure == nil),
		)
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		step := ChainResult{
			Expression: input,
			Success:    failure == nil,
			Result:     numberPtr(res.Value),
			Display:    res.Display(),
		}

		if failure != nil {
			step.Error = stringPtr(failure.Error())
			step.ErrorKind = failureKind
			resp.Steps = append(resp.Steps, step)
			resp.Success = false
			resp.Error = stringPtr(fmt.Sprintf("step %d: %s", i, failure.Error()))

			stepSpan.RecordError(failure)
			stepSpan.SetStatus(codes.Error, failure.Error())
			stepSpan.End()

			if failureKind != "" {
				failureCounter.Add(ctx, 1, metric.WithAttributes(
					attribute.String("operation", opName),
					attribute.String("kind", failureKind),
				))
			} else {
				errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
			}
			span.AddEvent("chain.stopped", trace.WithAttributes(attribute.Int("step", i)))

			logger.Info("chain step failed",
				zap.Int("step", i),
				zap.String("error_kind", failureKind),
				zap.Error(failure),
				zap.String("request_id", requestID),
			)
			break
		}

		stepSpan.SetAttributes(attribute.String("chain.step.result", res.Display()))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		logger.Info("chain step completed",
			zap.Int("step", i),
			zap.String("result", res.Display()),
			zap.Float64("duration_ms", stepElapsed),
		)

		resp.Steps = append(resp.Steps, step)
		v := *res.Value
		prev = &v
	}

	if resp.Success {
		resp.Result = numberPtr(prev)
		if finite(*prev) {
			resultGauge.Record(ctx, *prev, metric.WithAttributes(attribute.String("operation", opName)))
		}
		span.AddEvent("chain.complete", trace.WithAttributes(
			attribute.String("final_result", expression.Format(*prev)),
			attribute.Int("total_steps", len(req.Expressions)),
		))
	}
	span.SetStatus(codes.Ok, "")

	logger.Info("chained evaluation completed",
		zap.Bool("success", resp.Success),
		zap.Int("steps", len(resp.Steps)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Handler: capabilities
// ---------------------------------------------------------------------------

// Functions handles GET /calculator/functions.
func (h *Handler) Functions(w http.ResponseWriter, r *http.Request) {
	limits := h.eval.Limits()
	handlers.WriteJSON(w, http.StatusOK, FunctionsResponse{
		Modes:     expression.Modes,
		Constants: expression.Constants(),
		Functions: expression.Functions(),
		Precision: PrecisionRange{
			Min:     expression.MinPrecision,
			Max:     expression.MaxPrecision,
			Default: h.defaultPrecision,
		},
		Limits: LimitsInfo{MaxLength: limits.MaxLength, MaxDepth: limits.MaxDepth},
	})
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
