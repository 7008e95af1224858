package expression

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SubstituteVariables replaces whole-word occurrences of each bound name
// with its decimal literal. Names touching a '.' belong to a qualified
// function and are skipped. Unbound identifiers are left for the parser.
func SubstituteVariables(s string, vars map[string]float64) string {
	if len(vars) == 0 {
		return s
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s = replaceWord(s, name, literal(vars[name]))
	}
	return s
}

func replaceWord(s, name, repl string) string {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return s
	}
	matches := re.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if (start > 0 && s[start-1] == '.') || (end < len(s) && s[end] == '.') {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(repl)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func literal(v float64) string {
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if v < 0 {
		return "(" + text + ")"
	}
	return text
}
