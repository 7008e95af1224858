package expression

import (
	"strconv"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokPow
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokPercent:
		return "'%'"
	case tokPow:
		return "'**'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// lex splits a canonical expression into tokens. Anything outside the
// whitelisted alphabet is a syntax error.
func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isDigit(rune(c)) || (c == '.' && i+1 < len(s) && isDigit(rune(s[i+1]))):
			end := scanNumber(s, i)
			v, err := strconv.ParseFloat(s[i:end], 64)
			// Out of range literals keep their IEEE value (±Inf or 0).
			if err != nil && !isRangeErr(err) {
				return nil, errorf(KindSyntax, i, "malformed number %q", s[i:end])
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:end], num: v, pos: i})
			i = end

		case isIdentStart(rune(c)):
			end := i + 1
			for end < len(s) {
				r := rune(s[end])
				if isIdentPart(r) {
					end++
					continue
				}
				if r == '.' && end+1 < len(s) && isIdentStart(rune(s[end+1])) {
					end++
					continue
				}
				break
			}
			toks = append(toks, token{kind: tokIdent, text: s[i:end], pos: i})
			i = end

		case c == '*' && i+1 < len(s) && s[i+1] == '*':
			toks = append(toks, token{kind: tokPow, text: "**", pos: i})
			i += 2

		default:
			kind, ok := punctuation[c]
			if !ok {
				r, _ := utf8.DecodeRuneInString(s[i:])
				return nil, errorf(KindSyntax, i, "unexpected character %q", r)
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}

var punctuation = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'%': tokPercent,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
}

// scanNumber returns the end of the numeric literal starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && isDigit(rune(s[j])) {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(rune(s[j])) {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(rune(s[k])) {
			for k < len(s) && isDigit(rune(s[k])) {
				k++
			}
			j = k
		}
	}
	return j
}
