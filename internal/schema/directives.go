package schema

// DirectiveNamespace is the namespace directive members and the built-in
// markup extensions live in.
const DirectiveNamespace = "http://schemas.microsoft.com/winfx/2006/xaml"

// Directive members are interpreted by the writer itself and never assigned
// to the object being built.
var (
	// Class names the class a document declares. Recorded, not applied.
	Class = newDirective("Class")
	// Name registers the object under an identifier in the name scope.
	Name = newDirective("Name")
	// Key is the dictionary key the object is stored under.
	Key = newDirective("Key")
	// FactoryMethod names a factory used instead of a constructor.
	FactoryMethod = newDirective("FactoryMethod")
	// Arguments collects positional arguments for a factory or constructor.
	Arguments = newDirective("Arguments")
	// Items receives the items of an object that is itself a collection.
	Items = newDirective("Items")
	// Initialization supplies a single value converted into the object.
	Initialization = newDirective("Initialization")
)

var directives = map[string]*Member{
	Class.Name():          Class,
	Name.Name():           Name,
	Key.Name():            Key,
	FactoryMethod.Name():  FactoryMethod,
	Arguments.Name():      Arguments,
	Items.Name():          Items,
	Initialization.Name(): Initialization,
}

func newDirective(name string) *Member {
	return &Member{spec: MemberSpec{Name: name, Directive: true}}
}

// Directive looks a directive up by its local name.
func Directive(name string) (*Member, bool) {
	m, ok := directives[name]
	return m, ok
}

// KeyedValue is a dictionary entry written as a single value.
type KeyedValue struct {
	Key   any
	Value any
}
