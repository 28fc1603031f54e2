package main

import (
	"fmt"
	"os"
	"strings"

	"limbo/internal/bat"
	"limbo/internal/formula"
	"limbo/internal/query"
	"limbo/internal/surface"
)

// loadBAT parses the theory at path into a fresh BAT and a driver over it.
func loadBAT(path string) (*bat.BAT, *query.Driver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	b, err := bat.Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return b, query.New(b, logger), nil
}

// parseQuery parses a single query-language formula against b, resolving
// any nested Know<k>/G Know<k> eagerly via d.
func parseQuery(b *bat.BAT, d *query.Driver, text string) (formula.Formula, error) {
	phi, err := surface.Parse(b, d, strings.NewReader(text))
	if err != nil {
		return formula.Formula{}, fmt.Errorf("failed to parse formula %q: %w", text, err)
	}
	return phi, nil
}
