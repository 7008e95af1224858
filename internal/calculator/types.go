package calculator

import (
	"encoding/json"
	"math"

	"calc-api/internal/expression"
)

// EvaluateOptions is the "options" object of an evaluation request.
// Precision is a pointer so that an omitted value can take the configured
// default while an explicit 0 is rejected.
type EvaluateOptions struct {
	Precision *int               `json:"precision"`
	AngleUnit string             `json:"angleUnit"`
	Variables map[string]float64 `json:"variables"`
	ShowSteps bool               `json:"showSteps"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string          `json:"expression"`
	Mode       string          `json:"mode"`
	Options    EvaluateOptions `json:"options"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
// Error is null on success; Result is null on failure.
type EvaluateResponse struct {
	Success      bool                     `json:"success"`
	Result       *Number                  `json:"result"`
	Display      string                   `json:"display,omitempty"`
	Error        *string                  `json:"error"`
	ErrorKind    string                   `json:"errorKind,omitempty"`
	Warning      string                   `json:"warning,omitempty"`
	Steps        []expression.Step        `json:"steps"`
	DerivedViews *expression.DerivedViews `json:"derivedViews,omitempty"`
	Fallback     bool                     `json:"fallback,omitempty"`
}

// ChainRequest is the JSON body for POST /calculator/chain. Each expression
// after the first may refer to the previous result as ans.
type ChainRequest struct {
	Expressions []string        `json:"expressions"`
	Mode        string          `json:"mode"`
	Options     EvaluateOptions `json:"options"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Expression string  `json:"expression"`
	Success    bool    `json:"success"`
	Result     *Number `json:"result"`
	Display    string  `json:"display,omitempty"`
	Error      *string `json:"error"`
	ErrorKind  string  `json:"errorKind,omitempty"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Success bool          `json:"success"`
	Steps   []ChainResult `json:"steps"`
	Result  *Number       `json:"result"`
	Error   *string       `json:"error"`
}

// FunctionsResponse is the JSON response for GET /calculator/functions.
type FunctionsResponse struct {
	Modes     []expression.Mode         `json:"modes"`
	Constants []string                  `json:"constants"`
	Functions []expression.FunctionInfo `json:"functions"`
	Precision PrecisionRange            `json:"precision"`
	Limits    LimitsInfo                `json:"limits"`
}

// PrecisionRange describes accepted precision values.
type PrecisionRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// LimitsInfo reports the evaluator's input bounds.
type LimitsInfo struct {
	MaxLength int `json:"maxLength"`
	MaxDepth  int `json:"maxDepth"`
}

// Number is a float64 that marshals NaN and the infinities as the strings
// "NaN", "Infinity" and "-Infinity" instead of failing.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(expression.Format(v))
	}
	return json.Marshal(v)
}

func numberPtr(v *float64) *Number {
	if v == nil {
		return nil
	}
	n := Number(*v)
	return &n
}

func stringPtr(s string) *string { return &s }
