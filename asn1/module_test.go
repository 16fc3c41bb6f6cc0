package asn1

import "testing"

func testModule() *Module {
	decls := []TopLevelDeclaration{
		&TypeDeclaration{Name: "Speed", Type: &Integer{}},
		&ValueDeclaration{Name: "maxSpeed", Type: &ElsewhereDeclaredType{Identifier: "Speed"}, Value: &IntegerValue{Value: 255}},
		&InformationDeclaration{Name: "MSG-CLASS", Value: &ObjectClass{}},
		&TypeDeclaration{Name: "Heading", Type: &Integer{}},
	}
	headers := []*ModuleHeader{{Name: "ETS-Container"}}
	return NewModule(headers, decls, nil)
}

func TestModuleLookup(t *testing.T) {
	m := testModule()

	if d := m.Type("Speed"); d == nil || d.Name != "Speed" {
		t.Errorf("Type(Speed) = %v", d)
	}
	if d := m.Value("maxSpeed"); d == nil || d.Name != "maxSpeed" {
		t.Errorf("Value(maxSpeed) = %v", d)
	}
	if d := m.Information("MSG-CLASS"); d == nil || d.Name != "MSG-CLASS" {
		t.Errorf("Information(MSG-CLASS) = %v", d)
	}
	if d := m.Declaration("Heading"); d == nil {
		t.Error("Declaration(Heading) = nil")
	}

	// Wrong kind and unknown names return nil.
	if d := m.Type("maxSpeed"); d != nil {
		t.Errorf("Type(maxSpeed) = %v, want nil", d)
	}
	if d := m.Value("no-such"); d != nil {
		t.Errorf("Value(no-such) = %v, want nil", d)
	}
}

func TestModuleKindSlices(t *testing.T) {
	m := testModule()

	types := m.Types()
	if len(types) != 2 || types[0].Name != "Speed" || types[1].Name != "Heading" {
		t.Errorf("Types() = %v", types)
	}
	values := m.Values()
	if len(values) != 1 || values[0].Name != "maxSpeed" {
		t.Errorf("Values() = %v", values)
	}
}

func TestModuleHasFailures(t *testing.T) {
	m := NewModule(nil, nil, []Diagnostic{
		{Severity: SeverityWarning, Code: DiagUnresolvedReference},
	})

	if m.HasFailures(DefaultConfig()) {
		t.Error("warning should not fail default config")
	}
	strict := DefaultConfig()
	strict.FailAt = SeverityWarning
	if !m.HasFailures(strict) {
		t.Error("warning should fail when FailAt is Warning")
	}
}

func TestModuleFirstDeclarationWinsOnCollision(t *testing.T) {
	m := NewModule(nil, []TopLevelDeclaration{
		&TypeDeclaration{Name: "Speed", Type: &Integer{}},
		&TypeDeclaration{Name: "Speed", Type: &Boolean{}},
	}, nil)

	d := m.Type("Speed")
	if d == nil {
		t.Fatal("Type(Speed) = nil")
	}
	if _, ok := d.Type.(*Integer); !ok {
		t.Errorf("Type(Speed).Type = %T, want *Integer", d.Type)
	}
}
