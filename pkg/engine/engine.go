// Package engine evaluates dataset metadata against compliance standards.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/macropower/compass/pkg/log"
	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
	"github.com/macropower/compass/pkg/suite"
)

// Engine evaluates [metadata.Dataset]s against the check suite of a
// [standard.Standard].
//
// An Engine is immutable once created and safe for concurrent use.
type Engine struct {
	clock  func() time.Time
	custom map[standard.Standard][]rule.Check
}

// Option configures an [Engine].
type Option func(*Engine)

// WithClock sets the function used to read the current time for recency
// checks. It defaults to [time.Now].
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithCustomChecks appends checks to the suite of std.
func WithCustomChecks(std standard.Standard, checks ...rule.Check) Option {
	return func(e *Engine) {
		e.custom[std] = append(e.custom[std], checks...)
	}
}

// New creates a new [Engine].
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  time.Now,
		custom: map[standard.Standard][]rule.Check{},
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate resolves text to a [standard.Standard] and evaluates md against
// its checks. Empty text evaluates [standard.Default].
//
// Invalid metadata is reported as [metadata.ErrInvalidMetadata] before any
// check runs.
func (e *Engine) Evaluate(ctx context.Context, md *metadata.Dataset, text string) (rule.Results, error) {
	if text == "" {
		text = standard.Default
	}

	std, ok := standard.Lookup(text)
	if !ok && text != standard.Default {
		logger := log.WithContext(ctx).With(slog.String("standard", text))
		if hint := standard.Suggest(text); hint != "" {
			logger = logger.With(slog.String("suggestion", hint))
		}

		logger.Debug("no standard keyword matched, using general checks")
	}

	return e.EvaluateStandard(ctx, md, std)
}

// EvaluateStandard evaluates md against the checks of std.
func (e *Engine) EvaluateStandard(ctx context.Context, md *metadata.Dataset, std standard.Standard) (rule.Results, error) {
	err := md.Validate()
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", std, err)
	}

	checks := e.Checks(std)
	in := &rule.Input{
		Now:     e.clock(),
		Dataset: md,
	}

	results := rule.Evaluate(in, checks...)

	log.WithContext(ctx).Debug("evaluated dataset",
		slog.String("standard", std.String()),
		slog.Int("columns", md.Columns.Len()),
		slog.Int("checks", len(checks)),
		slog.Int("failed", len(results.Failed())),
	)

	return results, nil
}

// Checks returns the checks evaluated for std, custom checks last.
func (e *Engine) Checks(std standard.Standard) []rule.Check {
	s := suite.For(std)

	return slices.Concat(s.Checks(), e.custom[s.Standard])
}
