package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"limbo/internal/surface"
)

// sort/name/fun/let all operate against the --bat flag's theory rather
// than a positional bat-file argument, since they declare into an
// already-loaded theory (spec: "Commands produce no persistent state; all
// state lives in memory") rather than naming a theory to load fresh.

var sortRigid bool

var sortCmd = &cobra.Command{
	Use:   "sort <name>",
	Short: "Declare a sort (in memory only; confirms it parses and resolves)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSort,
}

var nameCmd = &cobra.Command{
	Use:   "name <name> -> <sort>",
	Short: "Declare a standard name (in memory only)",
	Args:  cobra.ExactArgs(3),
	RunE:  runName,
}

var funCmd = &cobra.Command{
	Use:   "fun <name>/<arity> -> <sort>",
	Short: "Declare a function symbol (in memory only)",
	Args:  cobra.ExactArgs(3),
	RunE:  runFun,
}

var letCmd = &cobra.Command{
	Use:   "let <name> := <formula>",
	Short: "Register a named formula against the current theory (in memory only)",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runLet,
}

func init() {
	sortCmd.Flags().BoolVar(&sortRigid, "rigid", false, "Declare a rigid (non-fluent) sort")
}

func requireBATFlag() (string, error) {
	path := batPath
	if path == "" {
		path = cfg.Engine.BATPath
	}
	if path == "" {
		return "", fmt.Errorf("no BAT file: pass --bat or set engine.bat_path in the config")
	}
	return path, nil
}

func runSort(cmd *cobra.Command, args []string) error {
	path, err := requireBATFlag()
	if err != nil {
		return err
	}
	b, _, err := loadBAT(path)
	if err != nil {
		return err
	}
	name := args[0]
	if sortRigid {
		b.Sorts[name] = b.Factory.Sorts.CreateRigid()
	} else {
		b.Sorts[name] = b.Factory.Sorts.CreateNonrigid()
	}
	logger.Info("sort declared", zap.String("sort", name), zap.Bool("rigid", sortRigid))
	fmt.Fprintf(cmd.OutOrStdout(), "sort %s declared\n", name)
	return nil
}

func runName(cmd *cobra.Command, args []string) error {
	if args[1] != "->" {
		return fmt.Errorf("usage: limbo name <name> -> <sort>")
	}
	path, err := requireBATFlag()
	if err != nil {
		return err
	}
	b, _, err := loadBAT(path)
	if err != nil {
		return err
	}
	n, sortName := args[0], args[2]
	sort, ok := b.Sorts[sortName]
	if !ok {
		return fmt.Errorf("undeclared sort %q", sortName)
	}
	b.Names[n] = b.Factory.CreateAtom(b.Factory.Symbols.CreateName(sort))
	logger.Info("name declared", zap.String("name", n), zap.String("sort", sortName))
	fmt.Fprintf(cmd.OutOrStdout(), "name %s : %s declared\n", n, sortName)
	return nil
}

func runFun(cmd *cobra.Command, args []string) error {
	if args[1] != "->" {
		return fmt.Errorf("usage: limbo fun <name>/<arity> -> <sort>")
	}
	path, err := requireBATFlag()
	if err != nil {
		return err
	}
	b, _, err := loadBAT(path)
	if err != nil {
		return err
	}
	spec, sortName := args[0], args[2]
	idx := strings.IndexByte(spec, '/')
	if idx < 0 {
		return fmt.Errorf("function declaration must be name/arity, got %q", spec)
	}
	arity, err := strconv.Atoi(spec[idx+1:])
	if err != nil || arity < 0 || arity > 255 {
		return fmt.Errorf("invalid arity in %q", spec)
	}
	sort, ok := b.Sorts[sortName]
	if !ok {
		return fmt.Errorf("undeclared sort %q", sortName)
	}
	name := spec[:idx]
	b.Funs[name] = b.Factory.Symbols.CreateFunction(sort, uint8(arity))
	logger.Info("function declared", zap.String("fun", name), zap.Int("arity", arity), zap.String("sort", sortName))
	fmt.Fprintf(cmd.OutOrStdout(), "fun %s/%d : %s declared\n", name, arity, sortName)
	return nil
}

func runLet(cmd *cobra.Command, args []string) error {
	path, err := requireBATFlag()
	if err != nil {
		return err
	}
	b, driver, err := loadBAT(path)
	if err != nil {
		return err
	}
	name := args[0]
	rest := args[1:]
	if rest[0] == ":=" {
		rest = rest[1:]
	}
	text := strings.Join(rest, " ")

	if _, err := surface.Parse(b, driver, strings.NewReader(text)); err != nil {
		return fmt.Errorf("failed to parse formula for %q: %w", name, err)
	}
	logger.Info("formula registered", zap.String("name", name), zap.String("formula", text))
	fmt.Fprintf(cmd.OutOrStdout(), "%s := %s registered\n", name, text)
	return nil
}
