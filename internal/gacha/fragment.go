package gacha

import (
	"math"
	"strconv"
	"strings"
)

// weightsKey is the literal token that introduces the weight object.
const weightsKey = `"weights"`

// tokenKind classifies a lexeme of the weights object body.
type tokenKind int

const (
	tokComma tokenKind = iota
	tokColon
	tokQuoted // text between a pair of '"'
	tokBare   // anything else up to the next separator
)

type token struct {
	kind tokenKind
	text string
}

// ExtractWeights pulls a flat rarity -> weight mapping out of text shaped like
//
//	{"weights": {"1": 40.0, "2": 30.0}}
//
// It is not a JSON parser. It finds the first "weights" key, takes the body
// between the next '{' and the first '}' after it, and reads comma separated
// key:value pairs from that body. Pairs whose key is not an integer or whose
// value is not a finite bare float are skipped. A missing key or brace yields
// an empty, non-nil map. ExtractWeights never panics.
func ExtractWeights(text string) map[int]float64 {
	out := make(map[int]float64)

	body, ok := weightsBody(text)
	if !ok {
		return out
	}
	for _, pair := range splitPairs(lex(body)) {
		k, v, ok := parsePair(pair)
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

// ParseWeightTable is ExtractWeights followed by NewWeightTable.
func ParseWeightTable(text string) WeightTable {
	return NewWeightTable(EntriesFromMap(ExtractWeights(text)))
}

// weightsBody returns the text strictly between the braces of the weights object.
func weightsBody(text string) (string, bool) {
	at := strings.Index(text, weightsKey)
	if at < 0 {
		return "", false
	}
	rest := text[at+len(weightsKey):]
	open := strings.IndexByte(rest, '{')
	if open < 0 {
		return "", false
	}
	rest = rest[open+1:]
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// lex splits a flat object body into separators, quoted strings and bare words.
// A quoted string also ends at the next ',' or ':' when its closing quote is
// missing, so `"3: 4` still lexes as a key and a value.
func lex(body string) []token {
	var toks []token
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == ',':
			toks = append(toks, token{kind: tokComma})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon})
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			j := strings.IndexAny(body[i+1:], "\",:")
			if j < 0 {
				toks = append(toks, token{kind: tokQuoted, text: body[i+1:]})
				i = len(body)
				continue
			}
			toks = append(toks, token{kind: tokQuoted, text: body[i+1 : i+1+j]})
			i += j + 1
			if body[i] == '"' {
				i++
			}
		default:
			j := i
			for j < len(body) && !strings.ContainsRune(",: \t\n\r\"", rune(body[j])) {
				j++
			}
			toks = append(toks, token{kind: tokBare, text: body[i:j]})
			i = j
		}
	}
	return toks
}

// splitPairs groups tokens into comma separated runs, dropping empty runs.
func splitPairs(toks []token) [][]token {
	var pairs [][]token
	var cur []token
	for _, t := range toks {
		if t.kind == tokComma {
			if len(cur) > 0 {
				pairs = append(pairs, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		pairs = append(pairs, cur)
	}
	return pairs
}

// parsePair accepts exactly: key ':' value, where key is quoted or bare and
// value is a bare float literal.
func parsePair(p []token) (int, float64, bool) {
	if len(p) != 3 || p[1].kind != tokColon {
		return 0, 0, false
	}
	if p[0].kind != tokQuoted && p[0].kind != tokBare {
		return 0, 0, false
	}
	if p[2].kind != tokBare {
		return 0, 0, false
	}
	key, err := strconv.Atoi(strings.TrimSpace(p[0].text))
	if err != nil {
		return 0, 0, false
	}
	val, err := strconv.ParseFloat(p[2].text, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, 0, false
	}
	return key, val, true
}
