package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/value"
)

// contextFlags are the evaluation context overrides shared by eval, visible and watch.
type contextFlags struct {
	selection string
	options   []string
	sets      []string
}

// apply layers the flags over ctx.
func (f *contextFlags) apply(ctx value.Context) error {
	if f.selection != "" {
		name, val := parseSelection(f.selection)
		ctx.Set(config.SelectionTarget, config.SelectionNameMember, value.String(name))
		ctx.Set(config.SelectionTarget, config.SelectionValueMember, value.String(val))
	}
	for _, arg := range f.options {
		name, on, err := parseOption(arg)
		if err != nil {
			return err
		}
		ctx.Set(config.OptionsTarget, name, value.Bool(on))
	}
	for _, arg := range f.sets {
		target, member, v, err := parseAssignment(arg)
		if err != nil {
			return err
		}
		ctx.Set(target, member, v)
	}
	return nil
}

// parseSelection splits a --select argument.
//
//	"router1"          → name "router1", value ""
//	"router1=10.0.0.1" → name "router1", value "10.0.0.1"
func parseSelection(arg string) (name, val string) {
	name, val, _ = strings.Cut(arg, "=")
	return name, val
}

// parseOption parses a --option argument.
//
//	"OSPF"       → OSPF on
//	"OSPF=false" → OSPF off
func parseOption(arg string) (string, bool, error) {
	name, raw, hasValue := strings.Cut(arg, "=")
	if !config.IsIdentifier(name) {
		return "", false, fmt.Errorf("--option %q: %q is not a valid option name", arg, name)
	}
	if !hasValue {
		return name, true, nil
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return "", false, fmt.Errorf("--option %q: %w", arg, err)
	}
	return name, on, nil
}

// parseAssignment parses a --set argument of the form target.member=value.
// The value is typed by value.Parse: true/false, a number, or a string.
//
//	"link.up=true"     → link.up = true
//	"link.speed=100"   → link.speed = 100
//	"link.name=eth0"   → link.name = "eth0"
func parseAssignment(arg string) (target, member string, v value.Value, err error) {
	lhs, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return "", "", v, fmt.Errorf("--set %q: expected target.member=value", arg)
	}
	target, member, ok = strings.Cut(lhs, ".")
	if !ok || !config.IsIdentifier(target) || !config.IsIdentifier(member) {
		return "", "", v, fmt.Errorf("--set %q: %q is not a target.member reference", arg, lhs)
	}
	return target, member, value.Parse(raw), nil
}
