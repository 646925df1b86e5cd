// Package objwriter implements the object writer: a state machine that
// consumes structural write events (start object, get object, start member,
// value, end member, end object, namespace) and materializes a live object
// graph through the invokers of schema types.
//
// Each open object is tracked by a state on a stack. An object is
// instantiated as late as its type requires: types that need constructor
// arguments wait until those members are written or the object is closed,
// immutable types are built through a mutable stand-in that is finalized
// when the object closes. Members written before instantiation are buffered
// and applied afterwards in their written order.
//
// All failures are returned as *WriteError and are final: once an operation
// fails, every later operation returns the same error.
package objwriter
