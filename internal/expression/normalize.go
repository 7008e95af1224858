package expression

import (
	"regexp"
	"strings"
)

var (
	piWord = regexp.MustCompile(`\bpi\b`)
	eWord  = regexp.MustCompile(`\be\b`)

	glyphReplacer = strings.NewReplacer("×", "*", "÷", "/", "π", "PI")
	powerReplacer = strings.NewReplacer("²", "**2", "³", "**3")
)

// Normalize rewrites calculator shorthand into canonical operator and
// constant tokens. Power glyphs are expanded before '^' so that neither is
// processed twice.
func Normalize(raw string) string {
	s := glyphReplacer.Replace(raw)
	s = piWord.ReplaceAllString(s, "PI")
	s = eWord.ReplaceAllString(s, "E")
	s = rewriteRoots(s)
	s = powerReplacer.Replace(s)
	return strings.ReplaceAll(s, "^", "**")
}

// rewriteRoots turns the √ prefix into an explicit sqrt call around its
// operand: √9 -> sqrt(9), √(x+1) -> sqrt(x+1), √sin(x) -> sqrt(sin(x)).
func rewriteRoots(s string) string {
	if !strings.ContainsRune(s, '√') {
		return s
	}

	rs := []rune(s)
	var b strings.Builder
	for i := 0; i < len(rs); {
		if rs[i] != '√' {
			b.WriteRune(rs[i])
			i++
			continue
		}
		operand, next := rootOperand(rs, i+1)
		if operand == "" {
			// Nothing recognisable follows; leave a bare name for the parser
			// to reject.
			b.WriteString("sqrt")
			i++
			continue
		}
		b.WriteString(operand)
		i = next
	}
	return b.String()
}

// rootOperand reads the operand of a √ starting at rs[i] and returns it
// wrapped in sqrt(...), along with the index just past it.
func rootOperand(rs []rune, i int) (string, int) {
	j := i
	for j < len(rs) && rs[j] == ' ' {
		j++
	}
	if j >= len(rs) {
		return "", i
	}

	switch r := rs[j]; {
	case r == '(':
		end := matchingParen(rs, j)
		if end < 0 {
			return "", i
		}
		return "sqrt(" + rewriteRoots(string(rs[j+1:end])) + ")", end + 1

	case r == '√':
		inner, next := rootOperand(rs, j+1)
		if inner == "" {
			return "", i
		}
		return "sqrt(" + inner + ")", next

	case isDigit(r) || r == '.':
		k := j
		for k < len(rs) && (isDigit(rs[k]) || rs[k] == '.') {
			k++
		}
		return "sqrt(" + string(rs[j:k]) + ")", k

	case isIdentStart(r):
		k := j
		for k < len(rs) && (isIdentPart(rs[k]) || rs[k] == '.') {
			k++
		}
		name := string(rs[j:k])
		p := k
		for p < len(rs) && rs[p] == ' ' {
			p++
		}
		if p < len(rs) && rs[p] == '(' {
			end := matchingParen(rs, p)
			if end < 0 {
				return "", i
			}
			return "sqrt(" + name + "(" + rewriteRoots(string(rs[p+1:end])) + "))", end + 1
		}
		return "sqrt(" + name + ")", k
	}
	return "", i
}

// matchingParen returns the index of the ')' closing the '(' at open, or -1.
func matchingParen[T rune | byte](s []T, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
