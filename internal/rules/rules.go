// Package rules decides which map elements are drawn. It is the caller of the
// predicate interpreter and owns the failure policy: an element whose
// predicate cannot be evaluated is logged and drawn anyway.
package rules

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/pipeline"
	"github.com/funvibe/gnos/internal/value"
	"github.com/funvibe/gnos/internal/vm"
)

// Engine evaluates element predicates with a shared program cache.
// It is safe for concurrent use.
type Engine struct {
	cache   *pipeline.Cache
	machine *vm.Machine
	logger  *zap.Logger
}

// NewEngine creates an engine. A nil cache or machine gets a fresh one and a
// nil logger discards output.
func NewEngine(cache *pipeline.Cache, machine *vm.Machine, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = pipeline.NewCache()
	}
	if machine == nil {
		machine = vm.New(vm.WithLogger(logger))
	}
	return &Engine{cache: cache, machine: machine, logger: logger}
}

// Cache returns the engine's program cache.
func (e *Engine) Cache() *pipeline.Cache {
	return e.cache
}

// Evaluate runs a predicate and reports errors to the caller. An empty
// predicate is always true.
func (e *Engine) Evaluate(predicate string, ctx value.Context) (bool, error) {
	if strings.TrimSpace(predicate) == "" {
		return true, nil
	}
	prog, err := e.cache.Get(predicate)
	if err != nil {
		return false, err
	}
	return prog.Run(e.machine, ctx)
}

// Visible evaluates a predicate and treats any failure as visible.
func (e *Engine) Visible(predicate string, ctx value.Context) bool {
	ok, err := e.Evaluate(predicate, ctx)
	if err != nil {
		e.logger.Warn("predicate failed, drawing element",
			zap.String("predicate", predicate),
			zap.Error(err))
		return true
	}
	return ok
}

// ElementError ties a predicate failure to the element that carries it.
type ElementError struct {
	Path      string // entities[3], labels[0]
	Predicate string
	Err       error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s: predicate %q: %v", e.Path, e.Predicate, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one visibility pass.
type Result struct {
	PassID   string
	Entities []config.Entity
	Labels   []config.Label
	Errors   []*ElementError
}

// Pass evaluates every element of set against ctx. Visible elements keep
// their input order; failing elements are visible and reported in Errors.
func (e *Engine) Pass(set config.RuleSet, ctx value.Context) Result {
	res := Result{PassID: uuid.NewString()}
	logger := e.logger.With(zap.String("pass_id", res.PassID))

	visible := func(path, predicate string) bool {
		ok, err := e.Evaluate(predicate, ctx)
		if err != nil {
			res.Errors = append(res.Errors, &ElementError{Path: path, Predicate: predicate, Err: err})
			logger.Warn("predicate failed, drawing element",
				zap.String("element", path),
				zap.String("predicate", predicate),
				zap.Error(err))
			return true
		}
		logger.Debug("predicate evaluated",
			zap.String("element", path),
			zap.String("predicate", predicate),
			zap.Bool("visible", ok))
		return ok
	}

	for i, ent := range set.Entities {
		if visible(fmt.Sprintf("entities[%d]", i), ent.Predicate) {
			res.Entities = append(res.Entities, ent)
		}
	}
	for i, lbl := range set.Labels {
		if visible(fmt.Sprintf("labels[%d]", i), lbl.Predicate) {
			res.Labels = append(res.Labels, lbl)
		}
	}

	logger.Info("visibility pass",
		zap.Int("entities", len(res.Entities)),
		zap.Int("labels", len(res.Labels)),
		zap.Int("errors", len(res.Errors)))
	return res
}

// Check compiles every predicate in set and returns the syntax errors.
func (e *Engine) Check(set config.RuleSet) []*ElementError {
	var errs []*ElementError
	check := func(path, predicate string) {
		if strings.TrimSpace(predicate) == "" {
			return
		}
		if _, err := e.cache.Get(predicate); err != nil {
			errs = append(errs, &ElementError{Path: path, Predicate: predicate, Err: err})
		}
	}
	for i, ent := range set.Entities {
		check(fmt.Sprintf("entities[%d]", i), ent.Predicate)
	}
	for i, lbl := range set.Labels {
		check(fmt.Sprintf("labels[%d]", i), lbl.Predicate)
	}
	return errs
}

// Styles splits a space separated style list.
func Styles(style string) []string {
	return strings.Fields(style)
}
