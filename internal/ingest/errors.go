package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/daryltucker/format-bench/internal/model"
)

var (
	// ErrMissingField means a record lacks its model id or format.
	ErrMissingField = errors.New("required field missing")
	// ErrUnknownFormat means the format cell names none of the compared formats.
	ErrUnknownFormat = errors.New("unrecognized format")
	// ErrDuplicate means a (model, format) pair appeared more than once.
	ErrDuplicate = errors.New("duplicate model/format pair")
	// ErrMissingColumn means a CSV header lacks a required column.
	ErrMissingColumn = errors.New("required column missing")
	// ErrUnknownSource means the input is neither CSV nor JSON.
	ErrUnknownSource = errors.New("unrecognized input source")
)

// ParseError reports a record dropped because a required identifying field
// was missing or invalid.
type ParseError struct {
	Line       int
	Field      string
	Value      string
	Suggestion string
	Err        error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	fmt.Fprintf(&b, "%s: %v", e.Field, e.Err)
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, ", did you mean %s?", e.Suggestion)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// minSuggestionSimilarity is the Levenshtein similarity a misspelled format
// needs before a suggestion is offered.
const minSuggestionSimilarity = 0.5

// suggestFormat returns the canonical name of the format closest to s, or ""
// when nothing is close enough to be a plausible typo.
func suggestFormat(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	lev := metrics.NewLevenshtein()
	best, bestScore := "", 0.0
	for _, f := range model.Formats {
		score := strutil.Similarity(s, strings.ToLower(f.String()), lev)
		if score > bestScore {
			best, bestScore = f.String(), score
		}
	}
	if bestScore < minSuggestionSimilarity {
		return ""
	}
	return best
}
