package ast

// Context stores every declaration visible to later compilation stages. It is
// append-only: declarations are never removed or replaced.
type Context struct {
	decls   []Decl
	types   map[string]Decl
	globals map[string][]*VarDecl
	funcs   map[string]*FuncDecl
	errs    []error
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		types:   make(map[string]Decl),
		globals: make(map[string][]*VarDecl),
		funcs:   make(map[string]*FuncDecl),
	}
}

// Add registers d. For type and function names the first declaration stays
// the one returned by lookups.
func (c *Context) Add(d Decl) {
	c.decls = append(c.decls, d)
	name := d.Ident().Name
	switch d := d.(type) {
	case *TypeDecl, *TypeAliasDecl:
		if _, ok := c.types[name]; !ok {
			c.types[name] = d
		}
	case *FuncDecl:
		if _, ok := c.funcs[name]; !ok {
			c.funcs[name] = d
		}
	case *VarDecl:
		c.globals[name] = append(c.globals[name], d)
	}
}

// Global returns the first global called name, or nil.
func (c *Context) Global(name string) *VarDecl {
	if gs := c.globals[name]; len(gs) > 0 {
		return gs[0]
	}
	return nil
}

// Globals returns every global called name in registration order.
func (c *Context) Globals(name string) []*VarDecl {
	return c.globals[name]
}

// Function returns the function called name, or nil.
func (c *Context) Function(name string) *FuncDecl {
	return c.funcs[name]
}

// TypeNamed returns the type declaration called name, or nil.
func (c *Context) TypeNamed(name string) Decl {
	return c.types[name]
}

// DeclFor returns the declaration a named type refers to, or nil for
// structural types.
func (c *Context) DeclFor(t Type) Decl {
	n, ok := t.(*NamedType)
	if !ok {
		return nil
	}
	return c.types[n.Name]
}

// Error records a non-fatal import error.
func (c *Context) Error(err error) {
	c.errs = append(c.errs, err)
}

// Errors returns the recorded errors.
func (c *Context) Errors() []error { return c.errs }

// Decls returns every declaration in registration order.
func (c *Context) Decls() []Decl { return c.decls }
