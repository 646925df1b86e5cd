package reflectschema

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/objgraph/internal/ctxlog"
)

// Validate performs a parity check between the declared options and the Go
// types they were attached to: constructor parameters must name members,
// stand-in builders must carry a field for every member and the name alias
// must be a string member.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	goTypes := make([]reflect.Type, 0, len(r.registered))
	for goType := range r.registered {
		goTypes = append(goTypes, goType)
	}
	sort.Slice(goTypes, func(i, j int) bool { return goTypes[i].String() < goTypes[j].String() })

	for _, goType := range goTypes {
		cfg := r.registered[goType]
		t := r.described[goType]

		for _, c := range cfg.ctors {
			for _, p := range c.params {
				if _, ok := t.Member(p.Member); !ok {
					errs = append(errs, fmt.Sprintf("type '%s': constructor parameter '%s' does not name a member", t.Name(), p.Member))
				}
			}
		}

		if cfg.toMutable.IsValid() {
			builder := baseType(cfg.toMutable.Type().Out(0))
			if builder.Kind() != reflect.Struct {
				errs = append(errs, fmt.Sprintf("type '%s': stand-in %s is not a struct", t.Name(), builder))
			} else {
				for _, m := range t.Members() {
					field := m.Invoker().(*memberInvoker).field
					if _, ok := builder.FieldByName(field); !ok {
						errs = append(errs, fmt.Sprintf("type '%s': stand-in %s has no field '%s'", t.Name(), builder, field))
					}
				}
			}
		}

		if cfg.nameAlias != "" {
			m, ok := t.Member(cfg.nameAlias)
			switch {
			case !ok:
				errs = append(errs, fmt.Sprintf("type '%s': name property '%s' is not a member", t.Name(), cfg.nameAlias))
			case m.Type().Underlying().Kind() != reflect.String:
				errs = append(errs, fmt.Sprintf("type '%s': name property '%s' must be a string", t.Name(), cfg.nameAlias))
			}
		}

		if len(t.Members()) == 0 && !t.IsCollection() && len(cfg.ctors) == 0 && cfg.converter == nil {
			logger.Debug("Registered type has no members, constructors or converter.", "type", t.String())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
