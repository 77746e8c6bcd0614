// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package expand turns one query into several candidate phrasings.
//
// # Description
//
// The selection engine consumes candidate variants but does not produce
// them. This package is the heuristic producer: fixed rewrite templates
// (step-by-step, error handling, verification) plus one context-aware
// variant chosen from surface features of the query. Output is
// deterministic so the expand -> select pipeline stays reproducible.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package expand

import (
	"fmt"
	"strings"
)

// Keyword groups for the context-aware variant. First matching group wins.
var contextVariants = []struct {
	keywords []string
	format   string
}{
	{[]string{"search", "find", "look"}, "Use the site search first: %s"},
	{[]string{"login", "log in", "sign in", "account"}, "Make sure you are signed in, then %s"},
	{[]string{"buy", "purchase", "cart", "checkout"}, "Confirm item details before paying: %s"},
	{[]string{"download", "export", "save"}, "Check the destination has space, then %s"},
	{[]string{"form", "submit", "fill"}, "Double-check every field before submitting: %s"},
}

// Expand produces candidate variants of query, always starting with the
// unmodified query itself.
//
// # Inputs
//
//   - query: The raw query. Empty or whitespace-only input yields nil.
//
// # Outputs
//
//   - []string: The query followed by its template variants, deduplicated,
//     in a fixed order.
func Expand(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	variants := []string{
		query,
		fmt.Sprintf("Step by step: %s", query),
		fmt.Sprintf("%s. If errors occur, try alternative approaches.", query),
		fmt.Sprintf("%s. Verify each step before proceeding.", query),
	}
	if contextual, ok := contextVariant(query); ok {
		variants = append(variants, contextual)
	}

	return dedupe(variants)
}

// contextVariant returns a rewrite tailored to the query's apparent intent,
// or false when no keyword group matches.
func contextVariant(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, cv := range contextVariants {
		for _, kw := range cv.keywords {
			if strings.Contains(lower, kw) {
				return fmt.Sprintf(cv.format, query), true
			}
		}
	}
	return "", false
}

// dedupe removes duplicates while preserving first-occurrence order.
func dedupe(variants []string) []string {
	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
