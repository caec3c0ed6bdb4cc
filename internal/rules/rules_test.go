package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/value"
)

func mapContext() value.Context {
	return value.NewContext().
		Set("selection", "name", value.String("10.1.0.1")).
		Set("selection", "value", value.String("")).
		Set("options", "OSPF", value.Bool(true)).
		Set("options", "BGP", value.Bool(false))
}

func mapRules() config.RuleSet {
	return config.RuleSet{
		Entities: []config.Entity{
			{Target: "r1", Title: "Router 1"},
			{Target: "r2", Title: "Router 2", Predicate: "options.BGP"},
			{Target: "r3", Title: "Router 3", Predicate: "options.MPLS"},
		},
		Labels: []config.Label{
			{Label: "10.1.0.1", Target: "r1", Level: 1, Predicate: "options.OSPF '10.1.0.1' selection.name == and"},
			{Label: "AS 65000", Target: "r2", Level: 2, Predicate: "options.BGP"},
			{Label: "broken", Target: "r3", Level: 1, Predicate: "1 2+"},
		},
	}
}

func TestEvaluate(t *testing.T) {
	e := NewEngine(nil, nil, nil)

	ok, err := e.Evaluate("", mapContext())
	require.NoError(t, err)
	assert.True(t, ok, "empty predicate is visible")

	ok, err = e.Evaluate("   ", mapContext())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Evaluate("options.BGP", mapContext())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.Evaluate("options.MPLS", mapContext())
	assert.Equal(t, diagnostics.ErrE004, diagnostics.CodeOf(err))
}

func TestVisible_FailureIsVisible(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := NewEngine(nil, nil, zap.New(core))

	assert.True(t, e.Visible("42", mapContext()))
	assert.True(t, e.Visible("foo", mapContext()))
	assert.False(t, e.Visible("options.OSPF not", mapContext()))
	assert.Equal(t, 2, logs.FilterMessage("predicate failed, drawing element").Len())
}

func TestPass(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(nil, nil, zap.New(core))

	res := e.Pass(mapRules(), mapContext())

	_, err := uuid.Parse(res.PassID)
	require.NoError(t, err, "pass id must be a uuid")

	var targets []string
	for _, ent := range res.Entities {
		targets = append(targets, ent.Target)
	}
	assert.Equal(t, []string{"r1", "r3"}, targets)

	var labels []string
	for _, l := range res.Labels {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"10.1.0.1", "broken"}, labels)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, "entities[2]", res.Errors[0].Path)
	assert.Equal(t, diagnostics.ErrE004, diagnostics.CodeOf(res.Errors[0]))
	assert.Equal(t, "labels[2]", res.Errors[1].Path)
	assert.True(t, diagnostics.IsSyntax(res.Errors[1]))

	summary := logs.FilterMessage("visibility pass").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	assert.Equal(t, res.PassID, fields["pass_id"])
	assert.EqualValues(t, 2, fields["entities"])
	assert.EqualValues(t, 2, fields["errors"])
	assert.Equal(t, 4, logs.FilterMessage("predicate evaluated").Len())
}

func TestPass_DistinctIDs(t *testing.T) {
	e := NewEngine(nil, nil, nil)
	a := e.Pass(config.RuleSet{}, mapContext())
	b := e.Pass(config.RuleSet{}, mapContext())
	assert.NotEqual(t, a.PassID, b.PassID)
	assert.Empty(t, a.Entities)
	assert.Empty(t, a.Errors)
}

func TestPass_UsesCache(t *testing.T) {
	e := NewEngine(nil, nil, nil)
	e.Pass(mapRules(), mapContext())
	n := e.Cache().Len()
	e.Pass(mapRules(), mapContext())
	assert.Equal(t, n, e.Cache().Len())
	assert.Equal(t, 4, n, "distinct non-empty predicates")
}

func TestCheck(t *testing.T) {
	e := NewEngine(nil, nil, nil)
	errs := e.Check(mapRules())
	require.Len(t, errs, 1, "only syntax errors are reported")
	assert.Equal(t, "labels[2]", errs[0].Path)
	assert.Contains(t, errs[0].Error(), `labels[2]: predicate "1 2+"`)
	assert.Equal(t, diagnostics.ErrS002, diagnostics.CodeOf(errs[0]))
}

func TestStyles(t *testing.T) {
	assert.Equal(t, []string{"bold", "red"}, Styles("  bold red "))
	assert.Empty(t, Styles(""))
}
