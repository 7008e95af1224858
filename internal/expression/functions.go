package expression

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Function is a whitelisted math function callable from an expression.
// MaxArgs of -1 means variadic.
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int
	call    func(args []float64) float64
}

func unary(f func(float64) float64) func([]float64) float64 {
	return func(args []float64) float64 { return f(args[0]) }
}

func fn(name string, minArgs, maxArgs int, call func([]float64) float64) *Function {
	return &Function{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, call: call}
}

// functions is keyed by the qualified name the Function Mapper emits.
var functions = map[string]*Function{
	"math.sin":   fn("math.sin", 1, 1, unary(math.Sin)),
	"math.cos":   fn("math.cos", 1, 1, unary(math.Cos)),
	"math.tan":   fn("math.tan", 1, 1, unary(math.Tan)),
	"math.asin":  fn("math.asin", 1, 1, unary(math.Asin)),
	"math.acos":  fn("math.acos", 1, 1, unary(math.Acos)),
	"math.atan":  fn("math.atan", 1, 1, unary(math.Atan)),
	"math.sinh":  fn("math.sinh", 1, 1, unary(math.Sinh)),
	"math.cosh":  fn("math.cosh", 1, 1, unary(math.Cosh)),
	"math.tanh":  fn("math.tanh", 1, 1, unary(math.Tanh)),
	"math.log10": fn("math.log10", 1, 1, unary(math.Log10)),
	"math.log2":  fn("math.log2", 1, 1, unary(math.Log2)),
	"math.ln":    fn("math.ln", 1, 1, unary(math.Log)),
	"math.exp":   fn("math.exp", 1, 1, unary(math.Exp)),
	"math.sqrt":  fn("math.sqrt", 1, 1, unary(math.Sqrt)),
	"math.cbrt":  fn("math.cbrt", 1, 1, unary(math.Cbrt)),
	"math.abs":   fn("math.abs", 1, 1, unary(math.Abs)),
	"math.floor": fn("math.floor", 1, 1, unary(math.Floor)),
	"math.ceil":  fn("math.ceil", 1, 1, unary(math.Ceil)),
	"math.round": fn("math.round", 1, 1, unary(roundHalfUp)),
	"math.trunc": fn("math.trunc", 1, 1, unary(math.Trunc)),
	"math.sign":  fn("math.sign", 1, 1, unary(sign)),
	"math.pow":   fn("math.pow", 2, 2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }),
	"math.min":   fn("math.min", 1, -1, minOf),
	"math.max":   fn("math.max", 1, -1, maxOf),
}

// constants are the only bare identifiers the parser accepts.
var constants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

// bareNames maps what a user types to the qualified whitelist name.
// log is base 10 and ln is natural; calculators have always exposed them
// that way.
var bareNames = map[string]string{
	"sin":   "math.sin",
	"cos":   "math.cos",
	"tan":   "math.tan",
	"asin":  "math.asin",
	"acos":  "math.acos",
	"atan":  "math.atan",
	"sinh":  "math.sinh",
	"cosh":  "math.cosh",
	"tanh":  "math.tanh",
	"log":   "math.log10",
	"log2":  "math.log2",
	"ln":    "math.ln",
	"exp":   "math.exp",
	"sqrt":  "math.sqrt",
	"cbrt":  "math.cbrt",
	"abs":   "math.abs",
	"floor": "math.floor",
	"ceil":  "math.ceil",
	"round": "math.round",
	"trunc": "math.trunc",
	"sign":  "math.sign",
	"pow":   "math.pow",
	"min":   "math.min",
	"max":   "math.max",
}

// roundHalfUp matches calculator rounding: halves go toward +Inf, so
// round(-2.5) is -2.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

func minOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		if math.IsNaN(v) {
			return v
		}
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		if math.IsNaN(v) {
			return v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// FunctionInfo describes a callable name for listings.
type FunctionInfo struct {
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	MinArgs   int    `json:"minArgs"`
	MaxArgs   int    `json:"maxArgs"`
}

// Functions lists the user-facing function names sorted alphabetically.
func Functions() []FunctionInfo {
	out := make([]FunctionInfo, 0, len(bareNames))
	for bare, qualified := range bareNames {
		f := functions[qualified]
		out = append(out, FunctionInfo{Name: bare, Qualified: qualified, MinArgs: f.MinArgs, MaxArgs: f.MaxArgs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Constants lists the symbolic constants sorted by name.
func Constants() []string {
	out := make([]string, 0, len(constants))
	for name := range constants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var (
	degreeCall = regexp.MustCompile(`\b(sin|cos|tan)\s*\(`)
	bareCall   = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
)

// MapFunctions qualifies bare function calls. In degree mode the arguments of
// sin, cos and tan are converted to radians first; the inverse functions are
// left alone.
func MapFunctions(s string, unit AngleUnit) string {
	if unit == Degrees {
		s = wrapDegrees(s)
	}
	return qualifyCalls(s)
}

func wrapDegrees(s string) string {
	var b strings.Builder
	i := 0
	for {
		loc := degreeCall.FindStringIndex(s[i:])
		if loc == nil {
			b.WriteString(s[i:])
			return b.String()
		}
		start, open := i+loc[0], i+loc[1]
		if start > 0 && s[start-1] == '.' {
			b.WriteString(s[i:open])
			i = open
			continue
		}
		end := matchingParen([]byte(s), open-1)
		if end < 0 {
			b.WriteString(s[i:])
			return b.String()
		}
		b.WriteString(s[i:open])
		b.WriteString("(")
		b.WriteString(wrapDegrees(s[open:end]))
		b.WriteString(")*PI/180)")
		i = end + 1
	}
}

func qualifyCalls(s string) string {
	matches := bareCall.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		nameStart, nameEnd := m[2], m[3]
		if nameStart > 0 && s[nameStart-1] == '.' {
			continue
		}
		qualified, ok := bareNames[s[nameStart:nameEnd]]
		if !ok {
			continue
		}
		b.WriteString(s[last:nameStart])
		b.WriteString(qualified)
		last = nameEnd
	}
	b.WriteString(s[last:])
	return b.String()
}
