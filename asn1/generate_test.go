package asn1

import (
	"errors"
	"strings"
	"testing"
)

// countingBackend renders declaration names and counts dispatches per
// variant.
type countingBackend struct {
	calls map[string]int
	fail  string // declaration name to reject
}

func newCountingBackend() *countingBackend {
	return &countingBackend{calls: make(map[string]int)}
}

func (b *countingBackend) render(variant, name string) (string, error) {
	if name == b.fail {
		return "", errors.New("cannot render " + name)
	}
	b.calls[variant]++
	return variant + " " + name, nil
}

func (b *countingBackend) Null(d *TypeDeclaration, _ *Null) (string, error) {
	return b.render("null", d.Name)
}
func (b *countingBackend) Boolean(d *TypeDeclaration, _ *Boolean) (string, error) {
	return b.render("boolean", d.Name)
}
func (b *countingBackend) Integer(d *TypeDeclaration, _ *Integer) (string, error) {
	return b.render("integer", d.Name)
}
func (b *countingBackend) BitString(d *TypeDeclaration, _ *BitString) (string, error) {
	return b.render("bit-string", d.Name)
}
func (b *countingBackend) OctetString(d *TypeDeclaration, _ *OctetString) (string, error) {
	return b.render("octet-string", d.Name)
}
func (b *countingBackend) CharacterString(d *TypeDeclaration, _ *CharacterString) (string, error) {
	return b.render("character-string", d.Name)
}
func (b *countingBackend) Enumerated(d *TypeDeclaration, _ *Enumerated) (string, error) {
	return b.render("enumerated", d.Name)
}
func (b *countingBackend) Choice(d *TypeDeclaration, _ *Choice) (string, error) {
	return b.render("choice", d.Name)
}
func (b *countingBackend) Sequence(d *TypeDeclaration, _ *Sequence) (string, error) {
	return b.render("sequence", d.Name)
}
func (b *countingBackend) SequenceOf(d *TypeDeclaration, _ *SequenceOf) (string, error) {
	return b.render("sequence-of", d.Name)
}
func (b *countingBackend) TypeAlias(d *TypeDeclaration, _ *ElsewhereDeclaredType) (string, error) {
	return b.render("type-alias", d.Name)
}
func (b *countingBackend) Value(d *ValueDeclaration) (string, error) {
	return b.render("value", d.Name)
}
func (b *countingBackend) Class(d *InformationDeclaration, _ *ObjectClass) (string, error) {
	return b.render("class", d.Name)
}
func (b *countingBackend) ObjectSet(d *InformationDeclaration, _ *ObjectSet) (string, error) {
	return b.render("object-set", d.Name)
}

func generateTestModule() *Module {
	return NewModule(nil, []TopLevelDeclaration{
		&TypeDeclaration{Name: "A", Type: &Integer{}},
		&TypeDeclaration{Name: "B", Type: &Sequence{}},
		&TypeDeclaration{Name: "C", Type: &ElsewhereDeclaredType{Identifier: "A"}},
		&ValueDeclaration{Name: "a", Type: &ElsewhereDeclaredType{Identifier: "A"}, Value: &IntegerValue{Value: 1}},
		&InformationDeclaration{Name: "MSG-CLASS", Value: &ObjectClass{}},
		&InformationDeclaration{Name: "Messages", ClassName: "MSG-CLASS", Value: &ObjectSet{}},
		&InformationDeclaration{Name: "msg1", ClassName: "MSG-CLASS", Value: &InformationObject{Fields: &DefaultSyntaxFields{}}},
	}, nil)
}

func TestGenerateDispatchesPerVariant(t *testing.T) {
	b := newCountingBackend()
	out, diags := Generate(b, generateTestModule(), GenerateOptions{})

	if len(diags) != 0 {
		t.Fatalf("Generate() diagnostics: %v", diags)
	}
	want := map[string]int{
		"integer":    1,
		"sequence":   1,
		"type-alias": 1,
		"value":      1,
		"class":      1,
		"object-set": 1,
	}
	for variant, n := range want {
		if b.calls[variant] != n {
			t.Errorf("calls[%s] = %d, want %d", variant, b.calls[variant], n)
		}
	}
	// Single object instances inform linking only, never render.
	if got := len(b.calls); got != len(want) {
		t.Errorf("dispatched %d variants, want %d (calls: %v)", got, len(want), b.calls)
	}
	for _, line := range []string{"integer A", "sequence B", "type-alias C", "value a"} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestGenerateFailSoft(t *testing.T) {
	b := newCountingBackend()
	b.fail = "B"
	out, diags := Generate(b, generateTestModule(), GenerateOptions{})

	if len(diags) != 1 {
		t.Fatalf("Generate() diagnostics = %v, want one", diags)
	}
	d := diags[0]
	if d.Code != DiagUnpacking || d.Declaration != "B" || d.Severity != SeverityError {
		t.Errorf("diagnostic = %+v", d)
	}
	// Later declarations still render.
	if !strings.Contains(out, "type-alias C") {
		t.Errorf("output missing declarations after the failed one:\n%s", out)
	}
}

func TestGenerateAnnotations(t *testing.T) {
	b := newCountingBackend()
	out, _ := Generate(b, generateTestModule(), GenerateOptions{Annotations: "#[wire]"})

	if !strings.Contains(out, "#[wire]\ninteger A") {
		t.Errorf("annotation not prepended:\n%s", out)
	}
}

// configuredBackend records the options handed over by the driver.
type configuredBackend struct {
	*countingBackend
	opts       GenerateOptions
	configured bool
}

func (b *configuredBackend) Configure(opts GenerateOptions) {
	b.opts = opts
	b.configured = true
}

func TestGenerateConfiguresBackend(t *testing.T) {
	b := &configuredBackend{countingBackend: newCountingBackend()}
	_, diags := Generate(b, generateTestModule(), GenerateOptions{NoStdLib: true})

	if len(diags) != 0 {
		t.Fatalf("Generate() diagnostics: %v", diags)
	}
	if !b.configured {
		t.Fatal("Configure was not called")
	}
	if !b.opts.NoStdLib {
		t.Error("NoStdLib not passed through")
	}
}
