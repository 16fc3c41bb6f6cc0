// Package linker resolves cross-declaration references in parsed
// declaration lists.
//
// Linking rewrites the asn1 model in place until every resolvable
// reference is concrete:
//
//  1. Hoisting: anonymous structured member types become top-level
//     declarations with deterministic synthetic names.
//  2. Class fields: types written as class field references are
//     replaced by the governing type of the referenced field.
//  3. Object syntax: instances written in a class's custom syntax are
//     decoded into canonical field settings.
//  4. Constraint bounds and values: identifier references are replaced
//     by the values they name.
//
// Reference resolution runs on one explicit worklist. Unresolved items
// are retried across passes, since resolving one reference can be the
// prerequisite for another that appears earlier in source order. The
// loop is bounded three ways: a pass cap, a per-item retry cap, and a
// no-progress rule, so a permanently unresolvable reference degrades
// to a diagnostic instead of a spin.
//
// # Usage
//
//	decls, diags := linker.Link(decls, logger, cfg)
package linker

import (
	"log/slog"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/types"
)

type linker struct {
	types.Logger
}

// Link resolves references across decls, mutating the declarations in
// place and returning the declaration list extended with hoisted
// synthetic declarations, plus the diagnostics collected along the
// way. Resolution failures are non-fatal: the affected declaration
// stays in the list, partially linked.
// If logger is nil, logging is disabled (zero overhead).
func Link(decls []asn1.TopLevelDeclaration, logger *slog.Logger, cfg asn1.DiagnosticConfig) ([]asn1.TopLevelDeclaration, []asn1.Diagnostic) {
	l := &linker{Logger: types.Logger{L: logger}}
	return l.link(decls, cfg)
}

func (l *linker) link(decls []asn1.TopLevelDeclaration, cfg asn1.DiagnosticConfig) ([]asn1.TopLevelDeclaration, []asn1.Diagnostic) {
	l.Log(slog.LevelDebug, "starting phase", slog.String("phase", "hoist"))
	decls, hoisted := hoistDeclarations(decls)
	l.Log(slog.LevelDebug, "phase complete", slog.String("phase", "hoist"),
		slog.Int("hoisted", hoisted))

	ctx := newLinkContext(decls, cfg, l.L)

	l.Log(slog.LevelDebug, "starting phase", slog.String("phase", "references"))
	resolved, abandoned := runWorklist(ctx)
	l.Log(slog.LevelDebug, "phase complete", slog.String("phase", "references"),
		slog.Int("resolved", resolved),
		slog.Int("unresolved", abandoned))

	l.Log(slog.LevelInfo, "linking complete",
		slog.Int("declarations", len(ctx.decls)),
		slog.Int("diagnostics", len(ctx.diagnostics)))

	return ctx.decls, ctx.diagnostics
}
