// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kcforge/kchash/lib/kchash"
)

// wildcardRun matches one run of adjacent wildcards.
var wildcardRun = regexp.MustCompile(`\*+`)

// RunCount returns the number of runs of adjacent wildcards in
// template.
func RunCount(template string) int {
	return len(wildcardRun.FindAllStringIndex(template, -1))
}

// RepeatSearch resizes every run of wildcards in template to widths
// one and up, searches each, and returns the union ranked most
// plausible first. With more than one run, widths stop at seven and
// repeat mode is allowed, since mirrored runs are the common case;
// with a single run, widths reach eight and repeat mode is off.
// An unsupported width aborts the whole search.
func (e *Engine) RepeatSearch(ctx context.Context, template string, target kchash.Hash, options SearchOptions) ([]string, error) {
	runs := RunCount(template)
	if runs == 0 {
		return e.Reverse(ctx, template, target, options)
	}
	allowRepeat := runs > 1 && !options.DisableRepeat
	widths := kchash.NibbleCount
	if allowRepeat {
		widths--
	}
	if options.MaxWidth > 0 && options.MaxWidth < widths {
		widths = options.MaxWidth
	}

	var aggregate []string
	for width := 1; width <= widths; width++ {
		resized := wildcardRun.ReplaceAllLiteralString(template, strings.Repeat(string(Wildcard), width))
		found, err := e.searchTemplate(ctx, resized, target, SearchOptions{
			DisableRepeat: !allowRepeat,
			Debug:         options.Debug,
		})
		if err != nil {
			return nil, fmt.Errorf("repeat search at width %d: %w", width, err)
		}
		e.logger.Info("repeat search step", "template", resized, "found", len(found))
		aggregate = append(aggregate, found...)
	}
	results := dedupe(aggregate)
	Rank(results)
	return results, nil
}

// SuffixSearch looks for names that start with prefix. The prefix
// alone is returned when it already matches; otherwise one to eight
// wildcards are appended in turn, with repeat mode off, and the union
// is ranked most plausible first.
func (e *Engine) SuffixSearch(ctx context.Context, prefix string, target kchash.Hash, options SearchOptions) ([]string, error) {
	if kchash.SumString(prefix) == target {
		return []string{prefix}, nil
	}
	widths := kchash.NibbleCount
	if options.MaxWidth > 0 && options.MaxWidth < widths {
		widths = options.MaxWidth
	}

	var aggregate []string
	for width := 1; width <= widths; width++ {
		extended := prefix + strings.Repeat(string(Wildcard), width)
		found, err := e.searchTemplate(ctx, extended, target, SearchOptions{
			DisableRepeat: true,
			Debug:         options.Debug,
		})
		if err != nil {
			return nil, fmt.Errorf("suffix search at width %d: %w", width, err)
		}
		e.logger.Info("suffix search step", "template", extended, "found", len(found))
		aggregate = append(aggregate, found...)
	}
	results := dedupe(aggregate)
	Rank(results)
	return results, nil
}

// searchTemplate analyzes and searches one template without ranking.
func (e *Engine) searchTemplate(ctx context.Context, template string, target kchash.Hash, options SearchOptions) ([]string, error) {
	analyzed, err := e.Analyze(template, target, options)
	if err != nil {
		return nil, err
	}
	return e.Search(ctx, analyzed, options.Debug)
}
