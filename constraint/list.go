package constraint

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseList parses a list of constraints separated by spaces or commas:
//
//	notnull min=0 max=100
//	notnull,pattern="^[a-z ]+$"
//
// Quoted parameters may contain separators.
func ParseList(text string) ([]Constraint, error) {
	items, err := SplitList(text)
	if err != nil {
		return nil, err
	}

	res := make([]Constraint, 0, len(items))
	for _, item := range items {
		c, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("parse constraint %q: %w", item, err)
		}

		res = append(res, c)
	}

	return res, nil
}

// SplitList splits a constraint list into separate constraint texts.
// It does not interpret them.
func SplitList(text string) ([]string, error) {
	var (
		res   []string
		cur   strings.Builder
		quote rune
		esc   bool
	)

	flush := func() {
		if cur.Len() > 0 {
			res = append(res, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case esc:
			esc = false
			cur.WriteRune(r)
		case quote != 0:
			cur.WriteRune(r)
			switch {
			case r == '\\' && quote == '"':
				esc = true
			case r == quote:
				quote = 0
			}
		case r == '"' || r == '`':
			quote = r
			cur.WriteRune(r)
		case r == ',' || unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated quoted parameter in %q", text)
	}
	flush()

	return res, nil
}

// Dedup removes constraints repeated by their text form, keeping the first occurrence.
func Dedup(cs []Constraint) []Constraint {
	res := make([]Constraint, 0, len(cs))
loop:
	for _, c := range cs {
		for _, r := range res {
			if r.Equal(c) {
				continue loop
			}
		}

		res = append(res, c)
	}

	return res
}
