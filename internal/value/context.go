package value

import "sort"

// Object maps member names to values.
type Object map[string]Value

// Context maps target names to objects. The interpreter only reads it.
type Context map[string]Object

// NewContext returns an empty context.
func NewContext() Context {
	return make(Context)
}

// Lookup resolves target.member. targetFound reports whether the target
// exists so callers can tell an unknown target from an unknown member.
func (c Context) Lookup(target, member string) (v Value, targetFound, memberFound bool) {
	obj, ok := c[target]
	if !ok {
		return Value{}, false, false
	}
	v, ok = obj[member]
	return v, true, ok
}

// Set stores target.member, creating the target object when needed.
func (c Context) Set(target, member string, v Value) Context {
	obj, ok := c[target]
	if !ok {
		obj = make(Object)
		c[target] = obj
	}
	obj[member] = v
	return c
}

// Clone returns a deep copy, so a caller can derive per-pass contexts from a
// shared base without mutating it.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for target, obj := range c {
		cp := make(Object, len(obj))
		for member, v := range obj {
			cp[member] = v
		}
		out[target] = cp
	}
	return out
}

// Targets returns the target names in sorted order.
func (c Context) Targets() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
