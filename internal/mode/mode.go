// Package mode parses and evaluates the execution-mode and dataset-id
// filters attached to operations.
//
// A filter is built from tags such as "train" or "!infer". Positive tags
// restrict execution to the listed values; negated tags ("!" prefix)
// allow everything except the listed values. No tags means unrestricted.
package mode

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Execution modes.
const (
	Train = "train"
	Eval  = "eval"
	Test  = "test"
	Infer = "infer"
)

// ErrInvalidFilter is returned for malformed filter tags.
var ErrInvalidFilter = errors.New("invalid filter")

// All lists every valid execution mode.
var All = []string{Train, Eval, Test, Infer}

// Kind classifies a filter.
type Kind int

// Filter kinds.
const (
	Unrestricted Kind = iota
	Include
	Exclude
)

// Filter decides whether an operation applies to a given tag.
// The zero value is unrestricted.
type Filter struct {
	kind Kind
	tags []string
}

// Any returns the unrestricted filter.
func Any() Filter { return Filter{} }

// Parse builds a mode filter. Every tag must name a mode in All.
//
// Example:
//
//	f, _ := mode.Parse("!infer")
//	f.Applies(mode.Train) // true
//	f.Applies(mode.Infer) // false
func Parse(tags ...string) (Filter, error) {
	f, err := parse(tags)
	if err != nil {
		return Filter{}, err
	}
	for _, t := range f.tags {
		if !slices.Contains(All, t) {
			return Filter{}, fmt.Errorf("%w: unknown mode %q (valid: %s)", ErrInvalidFilter, t, strings.Join(All, ", "))
		}
	}
	return f, nil
}

// ParseDSID builds a dataset-id filter. Ids are free-form but may not
// be empty or contain ':', ';' or '|'.
func ParseDSID(tags ...string) (Filter, error) {
	f, err := parse(tags)
	if err != nil {
		return Filter{}, err
	}
	for _, t := range f.tags {
		if strings.ContainsAny(t, ":;|") {
			return Filter{}, fmt.Errorf("%w: dataset id %q contains a reserved character", ErrInvalidFilter, t)
		}
	}
	return f, nil
}

func parse(tags []string) (Filter, error) {
	if len(tags) == 0 {
		return Filter{}, nil
	}

	var pos, neg []string
	for _, t := range tags {
		name, negated := strings.CutPrefix(strings.TrimSpace(t), "!")
		if name == "" {
			return Filter{}, fmt.Errorf("%w: empty tag in %q", ErrInvalidFilter, tags)
		}
		if negated {
			neg = appendUnique(neg, name)
		} else {
			pos = appendUnique(pos, name)
		}
	}

	switch {
	case len(pos) > 0 && len(neg) > 0:
		return Filter{}, fmt.Errorf("%w: cannot mix negated and regular tags in %q", ErrInvalidFilter, tags)
	case len(neg) > 0:
		return Filter{kind: Exclude, tags: neg}, nil
	default:
		return Filter{kind: Include, tags: pos}, nil
	}
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

// Kind reports the filter kind.
func (f Filter) Kind() Kind { return f.kind }

// Tags returns a copy of the filter tags without "!" prefixes.
func (f Filter) Tags() []string { return slices.Clone(f.tags) }

// Applies reports whether the filter admits tag.
func (f Filter) Applies(tag string) bool {
	switch f.kind {
	case Include:
		return slices.Contains(f.tags, tag)
	case Exclude:
		return !slices.Contains(f.tags, tag)
	default:
		return true
	}
}

// String renders the filter the way it was written, e.g. "!infer".
func (f Filter) String() string {
	switch f.kind {
	case Include:
		return strings.Join(f.tags, ",")
	case Exclude:
		parts := make([]string, len(f.tags))
		for i, t := range f.tags {
			parts[i] = "!" + t
		}
		return strings.Join(parts, ",")
	default:
		return "*"
	}
}
