package linker

import (
	"log/slog"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/types"
)

// linkContext holds the declaration index and working state shared by
// the linking phases.
type linkContext struct {
	decls []asn1.TopLevelDeclaration

	// byName indexes declarations by bound name. The first binding
	// wins on collision, matching asn1.NewModule.
	byName map[string]asn1.TopLevelDeclaration

	// classes indexes information object class declarations so that
	// class field references and object bodies can be checked against
	// their governing class.
	classes map[string]*asn1.ObjectClass

	cfg         asn1.DiagnosticConfig
	diagnostics []asn1.Diagnostic

	types.Logger
}

func newLinkContext(decls []asn1.TopLevelDeclaration, cfg asn1.DiagnosticConfig, logger *slog.Logger) *linkContext {
	ctx := &linkContext{
		decls:   decls,
		byName:  make(map[string]asn1.TopLevelDeclaration, len(decls)),
		classes: make(map[string]*asn1.ObjectClass),
		cfg:     cfg,
		Logger:  types.Logger{L: logger},
	}
	for _, d := range decls {
		name := asn1.DeclarationName(d)
		if _, ok := ctx.byName[name]; !ok {
			ctx.byName[name] = d
		}
		info, ok := d.(*asn1.InformationDeclaration)
		if !ok {
			continue
		}
		if class, ok := info.Value.(*asn1.ObjectClass); ok {
			if _, seen := ctx.classes[info.Name]; !seen {
				ctx.classes[info.Name] = class
			}
		}
	}
	return ctx
}

// emit records a diagnostic against a declaration, subject to the
// filter rules of the active configuration. The stored severity is the
// effective one, so downstream failure checks see any overrides.
func (c *linkContext) emit(code string, declaration, message string) {
	sev := severityForCode(code)
	if !c.cfg.ShouldReport(code, sev) {
		return
	}
	c.diagnostics = append(c.diagnostics, asn1.Diagnostic{
		Severity:    c.cfg.EffectiveSeverity(code, sev),
		Code:        code,
		Message:     message,
		Declaration: declaration,
	})
}

// severityForCode maps a linker diagnostic code to its base severity.
// Unresolved references are minor: the declaration survives with the
// reference left in place. Class and syntax problems leave a structural
// hole in the model and rank as errors, though still below the default
// failure threshold.
func severityForCode(code string) asn1.Severity {
	if code == asn1.DiagUnresolvedReference {
		return asn1.SeverityMinor
	}
	return asn1.SeverityError
}

func (c *linkContext) lookupClass(name string) (*asn1.ObjectClass, bool) {
	class, ok := c.classes[name]
	return class, ok
}

func (c *linkContext) lookupValue(name string) (*asn1.ValueDeclaration, bool) {
	d, ok := c.byName[name].(*asn1.ValueDeclaration)
	return d, ok
}
