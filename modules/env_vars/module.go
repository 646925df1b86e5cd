// Package env_vars provides the Env markup extension, which reads a member
// value from the process environment.
package env_vars

import (
	"fmt"
	"os"

	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/schema"
)

const Namespace = "urn:objgraph:env"

// Env provides the value of the environment variable Name. A non-empty
// Default is used when the variable is unset. Otherwise an unset variable is
// an error, or nil when Optional is true.
type Env struct {
	Name     string `xaml:",ctor"`
	Default  string
	Optional bool
}

func NewEnv(name string) Env { return Env{Name: name} }

func (e *Env) ProvideValue(schema.ServiceProvider) (any, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("environment variable without a name")
	}
	if v, ok := os.LookupEnv(e.Name); ok {
		return v, nil
	}
	switch {
	case e.Default != "":
		return e.Default, nil
	case e.Optional:
		return nil, nil
	default:
		return nil, fmt.Errorf("environment variable '%s' is not set", e.Name)
	}
}

// Module implements the reflectschema.Module interface for this package.
type Module struct{}

// Register registers the Env extension with the registry.
func (m *Module) Register(r *reflectschema.Registry) {
	r.Register(Namespace, Env{}, reflectschema.WithConstructor(NewEnv, "Name"))
}
