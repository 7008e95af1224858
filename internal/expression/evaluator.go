package expression

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the expression pipeline's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("expression")

const (
	DefaultMaxLength = 1000
	DefaultMaxDepth  = 64
)

// Limits bound the cost of a single evaluation.
type Limits struct {
	MaxLength int
	MaxDepth  int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxLength: DefaultMaxLength, MaxDepth: DefaultMaxDepth}
}

// Step is one recorded stage of an evaluation.
type Step struct {
	Label      string `json:"label"`
	Expression string `json:"expression"`
}

// Result is the outcome of one evaluation. Success implies Value is set
// (possibly NaN or ±Inf); otherwise Value is nil and Err is set.
type Result struct {
	Value     *float64
	Success   bool
	Err       *Error
	Warning   string
	Steps     []Step
	Derived   *DerivedViews
	Canonical string
	Fallback  bool
}

// Display returns the rendered value, or "" for a failed result.
func (r Result) Display() string {
	if r.Value == nil {
		return ""
	}
	return Format(*r.Value)
}

// Evaluator runs the normalize, map, substitute, parse, interpret pipeline.
// It holds no per-call state and is safe for concurrent use.
type Evaluator struct {
	limits Limits
	parse  func(canonical string, maxDepth int) (Node, error)
}

// NewEvaluator returns an Evaluator; zero limits take the defaults.
func NewEvaluator(limits Limits) *Evaluator {
	if limits.MaxLength <= 0 {
		limits.MaxLength = DefaultMaxLength
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	return &Evaluator{limits: limits, parse: Parse}
}

// Limits reports the evaluator's bounds.
func (ev *Evaluator) Limits() Limits { return ev.limits }

// Evaluate computes input under mode and opts. The returned error is for
// invalid mode or options only; every problem with the expression itself is
// reported in the Result.
func (ev *Evaluator) Evaluate(ctx context.Context, input string, mode Mode, opts Options) (Result, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return Result{}, err
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "expression.evaluate",
		trace.WithAttributes(
			attribute.String("expression.mode", string(mode)),
			attribute.Int("expression.length", len(input)),
			attribute.Int("expression.precision", opts.Precision),
			attribute.String("expression.angle_unit", string(opts.AngleUnit)),
			attribute.Int("expression.variables", len(opts.Variables)),
		),
	)
	defer span.End()

	steps := &stepLog{enabled: opts.ShowSteps}
	steps.add("Input", input)

	raw, canonical, evalErr := ev.primary(ctx, input, opts, steps)

	fallback := false
	if evalErr != nil && evalErr.Kind == KindFatal {
		span.AddEvent("fallback", trace.WithAttributes(attribute.String("cause", evalErr.Msg)))
		v, ferr := EvaluateFallback(input)
		if ferr != nil {
			evalErr = errorf(KindFatal, -1, "%s; fallback failed: %v", evalErr.Msg, ferr)
		} else {
			raw, evalErr, fallback = v, nil, true
			steps.add("Fallback", Format(v))
		}
	}

	if evalErr != nil {
		span.RecordError(evalErr)
		span.SetStatus(codes.Error, evalErr.Kind.String())
		return Result{Err: evalErr, Steps: steps.list(), Canonical: canonical}, nil
	}

	value := RoundSignificant(raw, opts.Precision)
	steps.add("Result", Format(value))

	res := Result{
		Value:     &value,
		Success:   true,
		Steps:     steps.list(),
		Derived:   Annotate(value, mode),
		Canonical: canonical,
		Fallback:  fallback,
	}
	if !isFinite(value) {
		res.Warning = errorf(KindDomain, -1, "result is %s", Format(value)).Error()
	}

	span.SetAttributes(
		attribute.String("expression.result", Format(value)),
		attribute.Bool("expression.fallback", fallback),
	)
	span.SetStatus(codes.Ok, "")
	return res, nil
}

// primary runs the staged pipeline. A panic anywhere inside is converted to
// a Fatal error so the caller can degrade to the fallback evaluator.
func (ev *Evaluator) primary(ctx context.Context, input string, opts Options, steps *stepLog) (value float64, canonical string, err *Error) {
	defer func() {
		if r := recover(); r != nil {
			err = errorf(KindFatal, -1, "internal evaluator fault: %v", r)
		}
	}()

	if len(input) > ev.limits.MaxLength {
		return 0, "", errorf(KindLimit, -1, "expression length %d exceeds maximum %d", len(input), ev.limits.MaxLength)
	}
	if strings.TrimSpace(input) == "" {
		return 0, "", errorf(KindSyntax, -1, "empty expression")
	}

	s := traced(ctx, "expression.normalize", func() string { return Normalize(input) })
	steps.add("Normalized", s)

	s = traced(ctx, "expression.map_functions", func() string { return MapFunctions(s, opts.AngleUnit) })
	steps.add("Functions mapped", s)

	s = traced(ctx, "expression.substitute", func() string { return SubstituteVariables(s, opts.Variables) })
	steps.add("Variables substituted", s)
	canonical = s

	var tree Node
	perr := traced(ctx, "expression.parse", func() error {
		var err error
		tree, err = ev.parse(canonical, ev.limits.MaxDepth)
		return err
	})
	if perr != nil {
		var e *Error
		if errors.As(perr, &e) {
			return 0, canonical, e
		}
		return 0, canonical, errorf(KindFatal, -1, "parser: %v", perr)
	}
	steps.add("Parsed", tree.String())

	value = traced(ctx, "expression.interpret", tree.Eval)
	steps.add("Evaluated", Format(value))
	return value, canonical, nil
}

func traced[T any](ctx context.Context, name string, f func() T) T {
	_, span := tracer.Start(ctx, name)
	defer span.End()
	return f()
}

type stepLog struct {
	enabled bool
	steps   []Step
}

func (l *stepLog) add(label, text string) {
	if l.enabled {
		l.steps = append(l.steps, Step{Label: label, Expression: text})
	}
}

func (l *stepLog) list() []Step { return l.steps }
