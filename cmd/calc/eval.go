package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"calc-api/internal/calculator"
	"calc-api/internal/expression"
)

type evalFlags struct {
	mode      string
	precision int
	degrees   bool
	vars      []string
	steps     bool
	json      bool
}

func newEvalCmd() *cobra.Command {
	var f evalFlags

	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "Evaluate a calculator expression",
		Long: `Evaluate a calculator expression.

Operators:  + - * / % ^ ** × ÷ √ ² ³
Functions:  sin cos tan asin acos atan sinh cosh tanh log ln exp sqrt cbrt
            abs floor ceil round trunc sign pow min max
Constants:  π (PI), e (E)

Use -- before an expression that starts with a minus sign.`,
		Example: `  calc eval "2 + 3 × 4"
  calc eval --degrees "sin(30)"
  calc eval --var r=2 "π * r²"
  calc eval --mode programmer "2^8 - 1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, strings.Join(args, " "), f)
		},
	}

	cmd.Flags().StringVar(&f.mode, "mode", string(expression.ModeBasic), "evaluation mode: "+expression.ModeNames())
	cmd.Flags().IntVar(&f.precision, "precision", expression.DefaultPrecision, "significant digits (1-100)")
	cmd.Flags().BoolVar(&f.degrees, "degrees", false, "interpret sin, cos and tan arguments in degrees")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "bind a variable as name=value (repeatable)")
	cmd.Flags().BoolVar(&f.steps, "steps", false, "print every pipeline stage")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the HTTP response shape as JSON")

	return cmd
}

func runEval(cmd *cobra.Command, input string, f evalFlags) error {
	mode, err := expression.ParseMode(f.mode)
	if err != nil {
		return err
	}

	vars, err := parseVars(f.vars)
	if err != nil {
		return err
	}

	opts := expression.Options{
		Precision: f.precision,
		AngleUnit: expression.Radians,
		Variables: vars,
		ShowSteps: f.steps,
	}
	if f.degrees {
		opts.AngleUnit = expression.Degrees
	}

	res, err := expression.NewEvaluator(expression.DefaultLimits()).Evaluate(cmd.Context(), input, mode, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if f.json {
		if err := writeJSON(out, calculator.NewEvaluateResponse(res)); err != nil {
			return err
		}
		if !res.Success {
			return res.Err
		}
		return nil
	}

	for _, s := range res.Steps {
		fmt.Fprintf(out, "%-22s %s\n", s.Label+":", s.Expression)
	}

	if !res.Success {
		return res.Err
	}

	fmt.Fprintln(out, res.Display())
	if res.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", res.Warning)
	}
	printDerived(cmd, res.Derived)
	return nil
}

func printDerived(cmd *cobra.Command, d *expression.DerivedViews) {
	if d == nil {
		return
	}
	out := cmd.OutOrStdout()

	if d.Exponential != "" {
		fmt.Fprintf(out, "exponential: %s\n", d.Exponential)
	}
	if p := d.Programmer; p != nil {
		if !p.Applicable {
			fmt.Fprintf(out, "programmer: %s\n", p.Reason)
		} else {
			fmt.Fprintf(out, "bin: %s\noct: %s\nhex: %s\n", p.Binary, p.Octal, p.Hex)
		}
	}
	if s := d.Statistics; s != nil {
		fmt.Fprintf(out, "sign: %s\ninteger: %t\n", s.Sign, s.Integer)
		if s.OrderOfMagnitude != nil {
			fmt.Fprintf(out, "order of magnitude: %d\n", *s.OrderOfMagnitude)
		}
	}
}

func parseVars(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --var %q: %w", p, errors.Unwrap(err))
		}
		vars[strings.TrimSpace(name)] = v
	}
	return vars, nil
}
