package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a small CSS subset: rulesets whose selectors are .class, #id or a bare node
// type, with comma-separated selector lists. At-rules and compound selectors are skipped.
// Later rules override earlier ones for the same node.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)
	var open []int // indices of rules receiving declarations
	atDepth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("ui: parse css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			if atDepth > 0 {
				atDepth--
			}
		case css.BeginRulesetGrammar:
			open = open[:0]
			if atDepth > 0 {
				continue
			}
			for _, sel := range splitSelectors(string(data) + tokensString(p.Values())) {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: make(map[string]string)})
				open = append(open, len(sheet.Rules)-1)
			}
		case css.EndRulesetGrammar:
			open = open[:0]
		case css.DeclarationGrammar:
			key := strings.ToLower(strings.TrimSpace(string(data)))
			val := strings.TrimSpace(tokensString(p.Values()))
			for _, i := range open {
				sheet.Rules[i].Props[key] = val
			}
		}
	}
}

func tokensString(toks []css.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.Write(t.Data)
	}
	return b.String()
}

// splitSelectors keeps simple selectors from a comma-separated list.
func splitSelectors(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if simpleSelector(s) {
			out = append(out, s)
		}
	}
	return out
}

func simpleSelector(s string) bool {
	if s == "" {
		return false
	}
	name := s
	if s[0] == '.' || s[0] == '#' {
		name = s[1:]
	}
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
