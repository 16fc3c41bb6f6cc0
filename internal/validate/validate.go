// Package validate checks linked declarations for problems the
// generation stage cannot tolerate.
//
// Checks cover inverted value ranges, range bounds that are not
// numbers, empty CHOICE types, values that do not fit their declared
// type, and type alias reference cycles. Validation partitions its
// input: declarations that pass are returned for generation,
// declarations that fail are dropped and reported per problem, so one
// bad declaration does not poison the batch.
//
// References the linker left unresolved are not re-reported here. A
// partially linked declaration passes validation as long as the parts
// that did resolve are sound.
package validate

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/graph"
	"github.com/6d7a/asnr-sub000/internal/types"
)

type validator struct {
	types.Logger
}

// Declarations checks decls and partitions them: declarations with no
// problems are returned in source order, declarations with problems
// are dropped and reported through the returned diagnostics, one per
// problem.
//
// The configuration filters which diagnostics are reported, not which
// declarations survive: a declaration with problems is dropped even
// when every one of its diagnostics is suppressed.
// If logger is nil, logging is disabled (zero overhead).
func Declarations(decls []asn1.TopLevelDeclaration, logger *slog.Logger, cfg asn1.DiagnosticConfig) ([]asn1.TopLevelDeclaration, []asn1.Diagnostic) {
	v := &validator{Logger: types.Logger{L: logger}}
	return v.run(decls, cfg)
}

// Declaration checks a single declaration in isolation and returns its
// first problem, or nil. Checks that need the full declaration list,
// alias cycle detection and reference chasing, are skipped; use
// Declarations for those.
func Declaration(d asn1.TopLevelDeclaration) error {
	c := &checker{}
	probs := c.check(d)
	if len(probs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", probs[0].code, probs[0].message)
}

func (v *validator) run(decls []asn1.TopLevelDeclaration, cfg asn1.DiagnosticConfig) ([]asn1.TopLevelDeclaration, []asn1.Diagnostic) {
	c := newChecker(decls)

	v.Log(slog.LevelDebug, "starting phase", slog.String("phase", "alias-cycles"))
	cyclic := cyclicAliases(decls)
	v.Log(slog.LevelDebug, "phase complete", slog.String("phase", "alias-cycles"),
		slog.Int("members", len(cyclic)))

	v.Log(slog.LevelDebug, "starting phase", slog.String("phase", "declarations"))
	valid := make([]asn1.TopLevelDeclaration, 0, len(decls))
	var diags []asn1.Diagnostic
	dropped := 0
	for _, d := range decls {
		name := asn1.DeclarationName(d)
		probs := c.check(d)
		if p, ok := cyclic[name]; ok {
			probs = append(probs, p)
		}
		if len(probs) == 0 {
			valid = append(valid, d)
			continue
		}
		dropped++
		if v.TraceEnabled() {
			v.Trace("dropping declaration",
				slog.String("declaration", name),
				slog.Int("problems", len(probs)))
		}
		for _, p := range probs {
			if !cfg.ShouldReport(p.code, asn1.SeverityError) {
				continue
			}
			diags = append(diags, asn1.Diagnostic{
				Severity:    cfg.EffectiveSeverity(p.code, asn1.SeverityError),
				Code:        p.code,
				Message:     p.message,
				Declaration: name,
			})
		}
	}
	v.Log(slog.LevelDebug, "phase complete", slog.String("phase", "declarations"),
		slog.Int("dropped", dropped))

	v.Log(slog.LevelInfo, "validation complete",
		slog.Int("valid", len(valid)),
		slog.Int("invalid", dropped),
		slog.Int("diagnostics", len(diags)))

	return valid, diags
}

// cyclicAliases finds type alias reference cycles and returns the
// problem to attach to each cycle member. Only pure aliases form
// edges: a declaration whose payload is a bare reference to another
// declared name. Anything structural (SEQUENCE, CHOICE, SEQUENCE OF)
// breaks the chain, since recursion through a structured type is legal
// and representable.
func cyclicAliases(decls []asn1.TopLevelDeclaration) map[string]problem {
	g := graph.New(len(decls))
	for _, d := range decls {
		td, ok := d.(*asn1.TypeDeclaration)
		if !ok {
			continue
		}
		g.AddNode(td.Name)
		if ref, ok := td.Type.(*asn1.ElsewhereDeclaredType); ok {
			g.AddEdge(td.Name, ref.Identifier)
		}
	}

	cyclic := make(map[string]problem)
	for _, cycle := range g.FindCycles() {
		members := slices.Clone(cycle)
		slices.Sort(members)
		p := problem{asn1.DiagAliasCycle,
			fmt.Sprintf("type alias reference cycle through %s", strings.Join(members, ", "))}
		for _, name := range cycle {
			cyclic[name] = p
		}
	}
	return cyclic
}
