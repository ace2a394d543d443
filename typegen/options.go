package typegen

import (
	"regexp"
	"strings"

	"github.com/teranos/contractgen/errors"
)

// DefaultErrorCodesName is the default name of nested error-code containers.
const DefaultErrorCodesName = "ErrorCodes"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options is the orchestrator's configuration surface.
type Options struct {
	// Languages to generate; empty means every generator passed to Generate
	Languages []string
	// ErrorCodesName overrides DefaultErrorCodesName
	ErrorCodesName string
	// Preambles maps a language to raw text prepended to each of its files
	Preambles map[string]string
	Exclude   ExcludeRules
	// TypeOverrides remaps source primitive names to categories (see typemap.New)
	TypeOverrides map[string]string
	// Unmangled extends every generator's unmangled name list
	Unmangled []string
}

// ExcludeRules select declarations to drop in addition to their Excluded flag.
type ExcludeRules struct {
	// Namespaces drops every declaration in the namespace or below it
	Namespaces []string
	// Types drops declarations by qualified name
	Types []string
}

// selected returns the generators to run, in the order Languages names them.
func (o Options) selected(generators []Generator) ([]Generator, error) {
	byName := make(map[string]Generator, len(generators))
	for _, g := range generators {
		byName[g.Language()] = g
	}
	if len(o.Languages) == 0 {
		if len(generators) == 0 {
			return nil, errors.MarkInvalidConfig("no generators configured")
		}
		return generators, nil
	}

	out := make([]Generator, 0, len(o.Languages))
	seen := make(map[string]bool, len(o.Languages))
	for _, lang := range o.Languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		g, ok := byName[lang]
		if !ok {
			known := make([]string, 0, len(generators))
			for _, g := range generators {
				known = append(known, g.Language())
			}
			return nil, errors.WithHintf(errors.MarkInvalidConfig("unknown target language %q", lang),
				"supported languages: %s", strings.Join(known, ", "))
		}
		if seen[lang] {
			return nil, errors.MarkInvalidConfig("target language %q listed twice", lang)
		}
		seen[lang] = true
		out = append(out, g)
	}
	return out, nil
}

func (o Options) errorCodesName() string {
	if o.ErrorCodesName == "" {
		return DefaultErrorCodesName
	}
	return o.ErrorCodesName
}

func (o Options) validate(generators []Generator) ([]Generator, error) {
	selected, err := o.selected(generators)
	if err != nil {
		return nil, err
	}
	if !identifierPattern.MatchString(o.errorCodesName()) {
		return nil, errors.MarkInvalidConfig("error code container name %q is not an identifier", o.ErrorCodesName)
	}
	for lang := range o.Preambles {
		if _, err := (Options{Languages: []string{lang}}).selected(generators); err != nil {
			return nil, errors.Wrap(err, "preamble")
		}
	}
	for _, ns := range o.Exclude.Namespaces {
		if strings.TrimSpace(ns) == "" {
			return nil, errors.MarkInvalidConfig("empty namespace in exclusion rules")
		}
	}
	for _, name := range o.Unmangled {
		if !identifierPattern.MatchString(name) {
			return nil, errors.MarkInvalidConfig("unmangled name %q is not an identifier", name)
		}
	}
	return selected, nil
}
