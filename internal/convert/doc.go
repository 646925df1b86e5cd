// Package convert is the default type converter. It lowers loosely typed
// document values (strings, float64 numbers, []any, map[string]any) into the
// concrete Go type of a member by routing them through go-cty's conversion
// rules, the same rules HCL applies to attribute values.
package convert
