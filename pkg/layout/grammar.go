package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TokenKind distinguishes the two forms a layout string can take.
type TokenKind uint8

const (
	TokenPercent  TokenKind = iota // "30%", "30% -5"
	TokenSelector                  // "#id", "Type", "prev()", "#id 8"
)

// Token is a parsed layout string.
type Token struct {
	Kind     TokenKind
	Percent  float64 // set for TokenPercent
	Selector string  // set for TokenSelector
	Offset   float64
}

// Anchor returns the token's selector as an anchor.
func (t Token) Anchor() Anchor {
	return Anchor{Selector: t.Selector}
}

var (
	percentRe = regexp.MustCompile(`^(?P<percent>-?\d+(?:\.\d+)?)%$`)

	percentOffsetRe = regexp.MustCompile(`^(?P<percent>-?\d+(?:\.\d+)?)%\s+(?P<offset>[-+]?\d+(?:\.\d+)?)$`)

	selectorOffsetRe = regexp.MustCompile(`^(?P<selector>\S+)\s+(?P<offset>[-+]?\d+(?:\.\d+)?)$`)
)

// ParseString parses the string form of a layout value.
//
// The forms are tried in a fixed order: a pure percentage, a percentage
// followed by whitespace and a signed offset, a selector followed by
// whitespace and a signed offset, and finally a bare selector. Only strings
// that match the numeric pattern exactly are percentages; anything else that
// is not empty, inner whitespace included, is a bare selector.
func ParseString(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, fmt.Errorf("empty layout string")
	}

	if m := percentRe.FindStringSubmatch(s); m != nil {
		p, err := parseGroup(percentRe, m, "percent")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokenPercent, Percent: p}, nil
	}

	if m := percentOffsetRe.FindStringSubmatch(s); m != nil {
		p, err := parseGroup(percentOffsetRe, m, "percent")
		if err != nil {
			return Token{}, err
		}
		off, err := parseGroup(percentOffsetRe, m, "offset")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokenPercent, Percent: p, Offset: off}, nil
	}

	if m := selectorOffsetRe.FindStringSubmatch(s); m != nil {
		off, err := parseGroup(selectorOffsetRe, m, "offset")
		if err != nil {
			return Token{}, err
		}
		sel := m[selectorOffsetRe.SubexpIndex("selector")]
		return Token{Kind: TokenSelector, Selector: sel, Offset: off}, nil
	}

	return Token{Kind: TokenSelector, Selector: s}, nil
}

func parseGroup(re *regexp.Regexp, match []string, name string) (float64, error) {
	raw := match[re.SubexpIndex(name)]
	f, err := strconv.ParseFloat(strings.TrimPrefix(raw, "+"), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, raw, err)
	}
	return f, nil
}
