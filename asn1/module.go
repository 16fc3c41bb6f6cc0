package asn1

// Module is the result of one compilation run: the merged declaration
// list after linking and validation, the headers of every DEFINITIONS
// envelope that contributed to it, and the diagnostics collected along
// the way.
//
// Declarations holds only declarations that passed validation, in
// source order. Declarations dropped by the validator are reported
// through Diagnostics, named per declaration.
type Module struct {
	Headers      []*ModuleHeader
	Declarations []TopLevelDeclaration
	Diagnostics  []Diagnostic

	byName map[string]TopLevelDeclaration
}

// NewModule builds a Module and its name index. Later declarations do
// not displace earlier ones when names collide; the merged-module
// assumption makes names unique in well-formed input.
func NewModule(headers []*ModuleHeader, decls []TopLevelDeclaration, diags []Diagnostic) *Module {
	m := &Module{
		Headers:      headers,
		Declarations: decls,
		Diagnostics:  diags,
		byName:       make(map[string]TopLevelDeclaration, len(decls)),
	}
	for _, d := range decls {
		name := DeclarationName(d)
		if _, ok := m.byName[name]; !ok {
			m.byName[name] = d
		}
	}
	return m
}

// Declaration returns the declaration bound to name, or nil.
func (m *Module) Declaration(name string) TopLevelDeclaration {
	return m.byName[name]
}

// Type returns the type declaration bound to name, or nil.
func (m *Module) Type(name string) *TypeDeclaration {
	d, _ := m.byName[name].(*TypeDeclaration)
	return d
}

// Value returns the value declaration bound to name, or nil.
func (m *Module) Value(name string) *ValueDeclaration {
	d, _ := m.byName[name].(*ValueDeclaration)
	return d
}

// Information returns the information declaration bound to name, or
// nil.
func (m *Module) Information(name string) *InformationDeclaration {
	d, _ := m.byName[name].(*InformationDeclaration)
	return d
}

// Types returns all type declarations in source order.
func (m *Module) Types() []*TypeDeclaration {
	var out []*TypeDeclaration
	for _, d := range m.Declarations {
		if t, ok := d.(*TypeDeclaration); ok {
			out = append(out, t)
		}
	}
	return out
}

// Values returns all value declarations in source order.
func (m *Module) Values() []*ValueDeclaration {
	var out []*ValueDeclaration
	for _, d := range m.Declarations {
		if v, ok := d.(*ValueDeclaration); ok {
			out = append(out, v)
		}
	}
	return out
}

// HasFailures returns true if any diagnostic meets the failure
// threshold of cfg.
func (m *Module) HasFailures(cfg DiagnosticConfig) bool {
	for _, d := range m.Diagnostics {
		if cfg.ShouldFail(d.Severity) {
			return true
		}
	}
	return false
}
