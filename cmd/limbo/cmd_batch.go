package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"limbo/internal/formula"
)

var batchCmd = &cobra.Command{
	Use:   "batch <bat-file> <formulas-file>",
	Short: "Decide every formula in formulas-file independently and concurrently",
	Long: `Reads formulas-file one query-language formula per line (blank lines
and lines starting with # are skipped), decides each as an independent
Know<k> query against its own freshly-grounded setup, and prints one
true/false per line in input order.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, driver, err := loadBAT(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[1], err)
	}
	defer f.Close()

	var lines []string
	var formulas []formula.Formula
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phi, err := parseQuery(b, driver, line)
		if err != nil {
			return err
		}
		lines = append(lines, line)
		formulas = append(formulas, phi)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	results, err := driver.AskAll(ctx, formulas, depth, nil)
	if err != nil {
		return fmt.Errorf("batch query canceled: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, line := range lines {
		fmt.Fprintf(out, "%v\t%s\n", results[i], line)
	}
	return nil
}
