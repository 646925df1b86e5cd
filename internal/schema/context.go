package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// QName is a namespace-qualified type name.
type QName struct {
	Namespace string
	Name      string
}

func (q QName) String() string {
	if q.Namespace == "" {
		return q.Name
	}
	return "{" + q.Namespace + "}" + q.Name
}

// NamespaceDeclaration binds a prefix to a namespace. An empty prefix is the
// default namespace.
type NamespaceDeclaration struct {
	Prefix    string
	Namespace string
}

// Context is the table of known types.
type Context struct {
	mu     sync.RWMutex
	types  map[QName]*Type
	byName map[string][]*Type
}

// NewContext creates an empty schema context.
func NewContext() *Context {
	return &Context{
		types:  make(map[QName]*Type),
		byName: make(map[string][]*Type),
	}
}

// Add makes t resolvable by its qualified name.
func (c *Context) Add(t *Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := t.QName()
	if _, exists := c.types[q]; exists {
		return fmt.Errorf("type '%s' already registered", q)
	}
	c.types[q] = t
	c.byName[q.Name] = append(c.byName[q.Name], t)
	return nil
}

// Type resolves a qualified name.
func (c *Context) Type(namespace, name string) (*Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[QName{Namespace: namespace, Name: name}]
	return t, ok
}

// Lookup resolves a local name regardless of namespace. It fails when the
// name is unknown or ambiguous.
func (c *Context) Lookup(name string) (*Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	candidates := c.byName[name]
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("unknown type '%s'", name)
	case 1:
		return candidates[0], nil
	default:
		namespaces := make([]string, 0, len(candidates))
		for _, t := range candidates {
			namespaces = append(namespaces, t.Namespace())
		}
		sort.Strings(namespaces)
		return nil, fmt.Errorf("type name '%s' is ambiguous across namespaces: %s", name, strings.Join(namespaces, ", "))
	}
}

// Resolve looks up a type by local name, preferring namespace when it is not
// empty and falling back to a namespace-independent lookup otherwise.
func (c *Context) Resolve(namespace, name string) (*Type, error) {
	if namespace != "" {
		if t, ok := c.Type(namespace, name); ok {
			return t, nil
		}
		return nil, fmt.Errorf("unknown type '%s'", QName{Namespace: namespace, Name: name})
	}
	return c.Lookup(name)
}

// Types returns every registered type ordered by qualified name.
func (c *Context) Types() []*Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Type, 0, len(c.types))
	for _, t := range c.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QName().String() < out[j].QName().String() })
	return out
}
