package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <bat-file> <formula>",
	Short: "Print true/false for a formula, without the assert/refute exit-code contract",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	b, driver, err := loadBAT(args[0])
	if err != nil {
		return err
	}
	phi, err := parseQuery(b, driver, args[1])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var result bool
	if global {
		result = driver.AskGlobal(ctx, phi, depth, nil)
	} else {
		result = driver.Ask(ctx, phi, depth, nil)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
