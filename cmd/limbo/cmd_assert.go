package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var assertCmd = &cobra.Command{
	Use:   "assert <bat-file> <formula>",
	Short: "Exit 0 iff the formula is entailed at the configured depth",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssert,
}

var refuteCmd = &cobra.Command{
	Use:   "refute <bat-file> <formula>",
	Short: "Exit 0 iff the formula is not entailed at the configured depth",
	Args:  cobra.ExactArgs(2),
	RunE:  runRefute,
}

func decide(cmd *cobra.Command, args []string) (bool, error) {
	b, driver, err := loadBAT(args[0])
	if err != nil {
		return false, err
	}
	phi, err := parseQuery(b, driver, args[1])
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var result bool
	if global {
		result = driver.AskGlobal(ctx, phi, depth, nil)
	} else {
		result = driver.Ask(ctx, phi, depth, nil)
	}
	logger.Info("entailment decided", zap.String("formula", args[1]), zap.Int("depth", depth), zap.Bool("global", global), zap.Bool("result", result))
	return result, nil
}

func runAssert(cmd *cobra.Command, args []string) error {
	result, err := decide(cmd, args)
	if err != nil {
		return err
	}
	if result {
		os.Exit(0)
	}
	os.Exit(1)
	return nil
}

func runRefute(cmd *cobra.Command, args []string) error {
	result, err := decide(cmd, args)
	if err != nil {
		return err
	}
	if !result {
		os.Exit(0)
	}
	os.Exit(1)
	return nil
}
