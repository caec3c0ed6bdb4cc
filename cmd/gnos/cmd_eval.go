package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/lexer"
	"github.com/funvibe/gnos/internal/pipeline"
	"github.com/funvibe/gnos/internal/value"
	"github.com/funvibe/gnos/internal/vm"
)

var (
	disasm    bool
	evalFile  string
	evalFlags contextFlags
)

// tokenizeCmd prints the terms of a predicate
var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [predicate]",
	Short: "Print the postfix terms of a predicate",
	Long: `Tokenizes a predicate and prints one term per line.

Example:
  gnos tokenize "selection.value 'ful' =="`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

// evalCmd evaluates predicates against the configured context
var evalCmd = &cobra.Command{
	Use:   "eval [predicate]",
	Short: "Evaluate a predicate to true or false",
	Long: `Evaluates a predicate against the context from gnos.yaml, overridden by flags.

Examples:
  gnos eval "options.OSPF" --option OSPF
  gnos eval "selection.name 'router1' ==" --select router1
  gnos eval "link.speed 100 >=" --set link.speed=1000
  gnos eval --file checks.pred`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	tokenizeCmd.Flags().BoolVar(&disasm, "disasm", false, "Print offsets and stack depth")

	evalCmd.Flags().StringVarP(&evalFile, "file", "f", "", "Evaluate each line of a file (- for stdin)")
	addContextFlags(evalCmd, &evalFlags)
}

func addContextFlags(cmd *cobra.Command, f *contextFlags) {
	cmd.Flags().StringVar(&f.selection, "select", "", "Selection as name or name=value")
	cmd.Flags().StringArrayVar(&f.options, "option", nil, "Option toggle NAME or NAME=bool (repeatable)")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Context value target.member=value (repeatable)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	terms, err := lexer.Tokenize(args[0])
	if err != nil {
		printSyntaxCaret(cmd.ErrOrStderr(), err)
		return err
	}
	out := cmd.OutOrStdout()
	if disasm {
		fmt.Fprint(out, vm.Disassemble(terms, args[0]))
		return nil
	}
	for _, term := range terms {
		fmt.Fprintf(out, "%s %s\n", term.Kind, term.Text())
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := cfg.EvalContext()
	if err := evalFlags.apply(ctx); err != nil {
		return err
	}
	machine := vm.New(vm.WithLogger(logger))

	if evalFile != "" {
		return evalLines(cmd, machine, ctx)
	}
	if len(args) != 1 {
		return errors.New("eval needs a predicate or --file")
	}

	ok, err := pipeline.Run(machine, args[0], ctx)
	if err != nil {
		printSyntaxCaret(cmd.ErrOrStderr(), err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	return nil
}

// evalLines evaluates one predicate per line, skipping blank lines and
// # comments. Failures are printed in place and make the command fail.
func evalLines(cmd *cobra.Command, machine *vm.Machine, ctx value.Context) error {
	var r io.Reader
	if evalFile == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(evalFile)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	out := cmd.OutOrStdout()
	failed := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		ok, err := pipeline.Run(machine, line, ctx)
		if err != nil {
			failed++
			fmt.Fprintf(out, "error: %s\n", describe(err))
			continue
		}
		fmt.Fprintln(out, ok)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d predicate(s) failed", failed)
	}
	return nil
}

// describe renders a diagnostic as its code and message.
func describe(err error) string {
	var se *diagnostics.SyntaxError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s %s", se.Code, se.Msg)
	}
	var ee *diagnostics.EvalError
	if errors.As(err, &ee) {
		return fmt.Sprintf("%s %s", ee.Code, ee.Msg)
	}
	return err.Error()
}

func printSyntaxCaret(w io.Writer, err error) {
	var se *diagnostics.SyntaxError
	if errors.As(err, &se) {
		fmt.Fprintln(w, se.Caret())
	}
}
