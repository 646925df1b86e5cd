package objwriter

import "github.com/vk/objgraph/internal/schema"

// phase is the construction progress of one object.
type phase uint8

const (
	// phasePending: no instance exists yet, members are buffered.
	phasePending phase = iota
	// phaseStandIn: value holds a mutable stand-in of an immutable type.
	phaseStandIn
	// phaseInstantiated: value holds the instance. Never reverts.
	phaseInstantiated
)

func (p phase) String() string {
	switch p {
	case phasePending:
		return "pending"
	case phaseStandIn:
		return "stand-in"
	default:
		return "instantiated"
	}
}

// item is one collection item or dictionary entry.
type item struct {
	key    any
	hasKey bool
	value  any
}

// writtenProperty is a completed member in arrival order.
type writtenProperty struct {
	member   *schema.Member
	value    any
	hasValue bool
	items    []item
	applied  bool
}

// memberState tracks the member currently open on an object.
type memberState struct {
	// alreadySet is true once a value or container was committed to the
	// member on the instance.
	alreadySet bool

	hasValue bool
	value    any

	// items are buffered while the owner is pending.
	items []item
}

// objectState is one nesting level of the object being written.
type objectState struct {
	typ   *schema.Type
	phase phase
	value any

	written   []*writtenProperty
	completed map[*schema.Member]bool
	// containers caches collection containers already fetched or created, so
	// a reopened collection member keeps adding to the same container.
	containers map[*schema.Member]any

	currentMember      *schema.Member
	currentMemberState *memberState

	factoryMethod     string
	arguments         []any
	hasArguments      bool
	initialization    any
	hasInitialization bool

	name      string
	key       any
	hasKey    bool
	className string

	providedByParent bool
	namespaces       []schema.NamespaceDeclaration
}

func newObjectState(t *schema.Type) *objectState {
	return &objectState{
		typ:        t,
		completed:  make(map[*schema.Member]bool),
		containers: make(map[*schema.Member]any),
	}
}

// ready reports whether members can be applied to value directly.
func (s *objectState) ready() bool { return s.phase != phasePending }

func (s *objectState) instantiate(v any) {
	s.value = v
	s.phase = phaseInstantiated
}

// properties returns the written (member, value) pairs in arrival order.
func (s *objectState) properties() []schema.Property {
	props := make([]schema.Property, 0, len(s.written))
	for _, wp := range s.written {
		if wp.hasValue {
			props = append(props, schema.Property{Member: wp.member, Value: wp.value})
		}
	}
	return props
}

// record appends the closed member to written, merging into an earlier entry
// when a collection member is reopened.
func (s *objectState) record(m *schema.Member, ms *memberState, applied bool) {
	if !ms.hasValue && len(ms.items) == 0 {
		return
	}
	for _, wp := range s.written {
		if wp.member == m {
			wp.items = append(wp.items, ms.items...)
			if ms.hasValue {
				wp.value, wp.hasValue = ms.value, true
			}
			wp.applied = wp.applied && applied
			return
		}
	}
	s.written = append(s.written, &writtenProperty{
		member:   m,
		value:    ms.value,
		hasValue: ms.hasValue,
		items:    ms.items,
		applied:  applied,
	})
}

// hasWritten reports whether the member was already recorded.
func (s *objectState) hasWritten(m *schema.Member) bool {
	for _, wp := range s.written {
		if wp.member == m {
			return true
		}
	}
	return false
}
