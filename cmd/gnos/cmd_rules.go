package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/rules"
	"github.com/funvibe/gnos/internal/store"
	"github.com/funvibe/gnos/internal/value"
	"github.com/funvibe/gnos/internal/watch"
)

var (
	dbPath       string
	visibleFlags contextFlags
	watchFlags   contextFlags
)

// checkCmd compiles every predicate of the rules file
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the predicates of the rules file for syntax errors",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

// visibleCmd runs one visibility pass
var visibleCmd = &cobra.Command{
	Use:   "visible",
	Short: "List the map elements that would be drawn",
	Long: `Evaluates the predicate of every entity and label against the context and
prints the visible elements. Elements whose predicate fails are drawn (and
reported on stderr), exactly as the map does.

Examples:
  gnos visible --select router1 --option OSPF
  gnos visible --db rules.db --option BGP=false`,
	Args: cobra.NoArgs,
	RunE: runVisible,
}

// importCmd stores the rules file into a SQLite database
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Store the rules file in a SQLite rules db",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

// watchCmd re-runs the visibility pass whenever the rules file changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the visibility pass whenever the rules file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	visibleCmd.Flags().StringVar(&dbPath, "db", "", "Read rules and options from a SQLite rules db")
	addContextFlags(visibleCmd, &visibleFlags)

	importCmd.Flags().StringVar(&dbPath, "db", "", "SQLite rules db to write (required)")
	importCmd.MarkFlagRequired("db")

	addContextFlags(watchCmd, &watchFlags)
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine := rules.NewEngine(nil, nil, logger)
	errs := engine.Check(cfg.RuleSet)
	out := cmd.OutOrStdout()
	for _, e := range errs {
		fmt.Fprintf(out, "%s: %s\n", e.Path, describe(e.Err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d invalid predicate(s)", len(errs))
	}
	fmt.Fprintf(out, "ok: %d entities, %d labels\n", len(cfg.Entities), len(cfg.Labels))
	return nil
}

func runVisible(cmd *cobra.Command, args []string) error {
	set := cfg.RuleSet
	ctx := cfg.EvalContext()

	if dbPath != "" {
		dbCtx := commandContext(cmd)
		st, err := store.Open(dbCtx, dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if set, err = st.LoadRules(dbCtx); err != nil {
			return err
		}
		options, err := st.LoadOptions(dbCtx)
		if err != nil {
			return err
		}
		for name, on := range options {
			ctx.Set(config.OptionsTarget, name, value.Bool(on))
		}
	}
	if err := visibleFlags.apply(ctx); err != nil {
		return err
	}

	engine := rules.NewEngine(nil, nil, logger)
	printPass(cmd.OutOrStdout(), cmd.ErrOrStderr(), engine.Pass(set, ctx))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	engine := rules.NewEngine(nil, nil, logger)
	if errs := engine.Check(cfg.RuleSet); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", e.Path, describe(e.Err))
		}
		return fmt.Errorf("refusing to import %d invalid predicate(s)", len(errs))
	}

	dbCtx := commandContext(cmd)
	st, err := store.Open(dbCtx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveRules(dbCtx, cfg.RuleSet); err != nil {
		return err
	}
	if err := st.SaveOptions(dbCtx, cfg.Options); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entities, %d labels, %d options into %s\n",
		len(cfg.Entities), len(cfg.Labels), len(cfg.Options), dbPath)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cfg.Path == "" {
		return errors.New("watch needs a rules file (--config or gnos.yaml)")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := rules.NewEngine(nil, nil, logger)
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	pass := func(c *config.Config) {
		evalCtx := c.EvalContext()
		if err := watchFlags.apply(evalCtx); err != nil {
			fmt.Fprintln(errOut, err)
			return
		}
		engine.Cache().Reset()
		printPass(out, errOut, engine.Pass(c.RuleSet, evalCtx))
	}

	w, err := watch.New(cfg.Path, logger)
	if err != nil {
		return err
	}
	w.OnChange = pass
	w.OnError = func(err error) { fmt.Fprintln(errOut, err) }

	pass(cfg)
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func printPass(out, errOut io.Writer, res rules.Result) {
	for _, e := range res.Entities {
		fmt.Fprintf(out, "entity %s\t%s%s\n", e.Target, e.Title, styleSuffix(e.Style))
	}
	for _, l := range res.Labels {
		fmt.Fprintf(out, "label  %s\t%d\t%s%s\n", l.Target, l.Level, l.Label, styleSuffix(l.Style))
	}
	for _, e := range res.Errors {
		fmt.Fprintf(errOut, "warning: %s: %s (drawn)\n", e.Path, describe(e.Err))
	}
}

func styleSuffix(style string) string {
	styles := rules.Styles(style)
	if len(styles) == 0 {
		return ""
	}
	return " [" + strings.Join(styles, ",") + "]"
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
