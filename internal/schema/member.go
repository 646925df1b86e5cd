package schema

import "fmt"

// MemberSpec carries everything needed to build a Member.
type MemberSpec struct {
	Name string
	Type *Type

	ReadOnly            bool
	ConstructorArgument bool
	Directive           bool

	Invoker   MemberInvoker
	Converter Converter
}

// Member is a settable (or gettable) slot on a type, or a directive.
type Member struct {
	spec      MemberSpec
	declaring *Type
}

func (m *Member) Name() string { return m.spec.Name }

// Type returns the type of values stored in the member. Directives have no
// type.
func (m *Member) Type() *Type { return m.spec.Type }

// DeclaringType returns the type that owns the member; nil for directives.
func (m *Member) DeclaringType() *Type { return m.declaring }

func (m *Member) IsReadOnly() bool            { return m.spec.ReadOnly }
func (m *Member) IsConstructorArgument() bool { return m.spec.ConstructorArgument }
func (m *Member) IsDirective() bool           { return m.spec.Directive }
func (m *Member) Invoker() MemberInvoker      { return m.spec.Invoker }
func (m *Member) Converter() Converter        { return m.spec.Converter }

// IsCollection reports whether the member holds a collection or dictionary,
// meaning repeated writes add items rather than replace the value.
func (m *Member) IsCollection() bool {
	t := m.spec.Type
	return t != nil && (t.IsCollection() || t.IsDictionary())
}

// IsDictionary reports whether the member holds a dictionary.
func (m *Member) IsDictionary() bool {
	return m.spec.Type != nil && m.spec.Type.IsDictionary()
}

func (m *Member) String() string {
	if m.spec.Directive {
		return "x:" + m.spec.Name
	}
	if m.declaring != nil {
		return fmt.Sprintf("%s.%s", m.declaring.Name(), m.spec.Name)
	}
	return m.spec.Name
}
