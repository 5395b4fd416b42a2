package extract

// SymbolTable maps local identifiers to the literal flag-name strings they
// were assigned. It lives for a single Extract invocation and is never
// shared across files or calls.
//
// Only simple assignments of one identifier feed the table: a string
// literal binds the identifier to a single value, a list literal made up
// of string elements binds it to the flattened element values. Any other
// right-hand side is ignored.
type SymbolTable struct {
	strings map[string]string
	lists   map[string][]string
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		strings: make(map[string]string),
		lists:   make(map[string][]string),
	}
}

// BindString records identifier = literal. Empty names are ignored.
func (t *SymbolTable) BindString(name, value string) {
	if name == "" {
		return
	}
	t.strings[name] = value
}

// BindList records identifier = [literals...]. The binding is only made
// when at least one string element was found, matching the assignment
// rules in the analyzers.
func (t *SymbolTable) BindList(name string, values []string) {
	if name == "" || len(values) == 0 {
		return
	}
	t.lists[name] = values
}

// ResolveString returns the string bound to the identifier.
func (t *SymbolTable) ResolveString(name string) (string, bool) {
	v, ok := t.strings[name]
	return v, ok
}

// ResolveList returns the list bound to the identifier.
func (t *SymbolTable) ResolveList(name string) ([]string, bool) {
	v, ok := t.lists[name]
	return v, ok
}

// Resolve returns every value the identifier can contribute: the single
// bound string, or all elements of the bound list.
func (t *SymbolTable) Resolve(name string) []string {
	if v, ok := t.strings[name]; ok {
		return []string{v}
	}
	if vs, ok := t.lists[name]; ok {
		return vs
	}
	return nil
}
