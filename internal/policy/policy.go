// Package policy screens text for discriminatory and emotionally charged
// vocabulary and removes it from generated output.
package policy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

const (
	FlagDiscriminatory = "discriminatory"
	FlagEmotional      = "emotional"
)

const defaultReplacement = "[removed]"

// maxSanitizePasses bounds the replace-until-stable loop.
const maxSanitizePasses = 8

// Config is the YAML shape of a policy file.
type Config struct {
	DiscriminatoryTerms []string `yaml:"discriminatory_terms"`
	EmotionalTerms      []string `yaml:"emotional_terms"`
	Replacement         string   `yaml:"replacement"`
}

// Result describes what Evaluate found in a text.
type Result struct {
	Clean   bool     `json:"clean"`
	Flags   []string `json:"flags,omitempty"`
	Matches []string `json:"matches,omitempty"`
}

// HasFlag reports whether the result carries flag.
func (r Result) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

type matcher struct {
	term string
	flag string
	re   *regexp.Regexp
}

// Policy is immutable after construction and safe for concurrent use.
type Policy struct {
	matchers    []matcher
	replacement string
}

// Default returns the embedded policy.
func Default() *Policy {
	p, err := Parse(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded policy invalid: %v", err))
	}
	return p
}

// Load reads a policy file, or the embedded default when path is empty.
func Load(path string) (*Policy, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultPolicyYAML)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML policy. Unknown keys are rejected.
func Parse(raw []byte) (*Policy, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	return New(cfg)
}

// New compiles a policy from cfg.
func New(cfg Config) (*Policy, error) {
	p := &Policy{replacement: cfg.Replacement}
	if p.replacement == "" {
		p.replacement = defaultReplacement
	}
	add := func(terms []string, flag string) {
		for _, term := range terms {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			p.matchers = append(p.matchers, matcher{term: term, flag: flag, re: compileTerm(term)})
		}
	}
	add(cfg.DiscriminatoryTerms, FlagDiscriminatory)
	add(cfg.EmotionalTerms, FlagEmotional)
	if len(p.matchers) == 0 {
		return nil, errors.New("policy: no terms configured")
	}
	// Longer terms first so that phrases win over the words they contain.
	sort.SliceStable(p.matchers, func(i, j int) bool {
		return len(p.matchers[i].term) > len(p.matchers[j].term)
	})
	for _, m := range p.matchers {
		if len(findWhole(m.re, p.replacement)) > 0 {
			return nil, fmt.Errorf("policy: replacement %q contains term %q", p.replacement, m.term)
		}
	}
	return p, nil
}

// Evaluate reports the terms found in text.
func (p *Policy) Evaluate(text string) Result {
	res := Result{Clean: true}
	flags := map[string]bool{}
	for _, m := range p.matchers {
		if len(findWhole(m.re, text)) == 0 {
			continue
		}
		res.Clean = false
		res.Matches = append(res.Matches, m.term)
		flags[m.flag] = true
	}
	for _, flag := range []string{FlagDiscriminatory, FlagEmotional} {
		if flags[flag] {
			res.Flags = append(res.Flags, flag)
		}
	}
	sort.Strings(res.Matches)
	return res
}

// Sanitize replaces every configured term in text until none remain.
func (p *Policy) Sanitize(text string) string {
	for pass := 0; pass < maxSanitizePasses; pass++ {
		changed := false
		for _, m := range p.matchers {
			locs := findWhole(m.re, text)
			if len(locs) == 0 {
				continue
			}
			changed = true
			var b strings.Builder
			last := 0
			for _, loc := range locs {
				b.WriteString(text[last:loc[0]])
				b.WriteString(p.replacement)
				last = loc[1]
			}
			b.WriteString(text[last:])
			text = b.String()
		}
		if !changed {
			return text
		}
	}
	return text
}

func compileTerm(term string) *regexp.Regexp {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`))
}

// findWhole returns matches of re that are not embedded in a longer word.
func findWhole(re *regexp.Regexp, text string) [][]int {
	var out [][]int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if isWordRune(r) {
				continue
			}
		}
		if loc[1] < len(text) {
			r, _ := utf8.DecodeRuneInString(text[loc[1]:])
			if isWordRune(r) {
				continue
			}
		}
		out = append(out, loc)
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
