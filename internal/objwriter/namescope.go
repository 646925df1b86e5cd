package objwriter

import (
	"fmt"

	"github.com/vk/objgraph/internal/schema"
)

// nameScope holds the objects registered through x:Name. An object is
// registered when it is closed, so only earlier siblings and their
// descendants can be referenced.
type nameScope struct {
	names map[string]any
}

func newNameScope() *nameScope {
	return &nameScope{names: make(map[string]any)}
}

func (n *nameScope) Resolve(name string) (any, bool) {
	v, ok := n.names[name]
	return v, ok
}

func (n *nameScope) register(name string, v any) error {
	if _, exists := n.names[name]; exists {
		return fmt.Errorf("name '%s' is already in use", name)
	}
	n.names[name] = v
	return nil
}

type serviceProvider struct {
	target any
	member *schema.Member
	names  *nameScope
	sc     *schema.Context
}

func (w *Writer) serviceProvider(parent *objectState) *serviceProvider {
	sp := &serviceProvider{names: w.names, sc: w.sc}
	if parent != nil {
		sp.target = parent.value
		sp.member = parent.currentMember
	}
	return sp
}

func (sp *serviceProvider) TargetObject() any              { return sp.target }
func (sp *serviceProvider) TargetMember() *schema.Member   { return sp.member }
func (sp *serviceProvider) Names() schema.NameResolver     { return sp.names }
func (sp *serviceProvider) SchemaContext() *schema.Context { return sp.sc }
