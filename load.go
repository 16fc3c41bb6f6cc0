package asnr

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/linker"
	"github.com/6d7a/asnr-sub000/internal/parser"
	"github.com/6d7a/asnr-sub000/internal/types"
	"github.com/6d7a/asnr-sub000/internal/validate"
)

// parseOutcome is one worker's result for one input. Outcomes are
// collected positionally so the merged declaration list follows input
// order regardless of worker scheduling.
type parseOutcome struct {
	units []*parser.ModuleUnit
	diags []asn1.Diagnostic
}

// compile runs the pipeline: parse every input in parallel, merge the
// declaration lists in input order, link, validate, assemble.
func compile(ctx context.Context, sources []Source, cfg compileConfig) (*asn1.Module, error) {
	logger := cfg.logger

	var inputs []Input
	for _, src := range sources {
		in, err := src.Inputs()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in...)
	}

	if len(inputs) == 0 {
		return asn1.NewModule(nil, nil, nil), nil
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parallel parsing",
			slog.Int("inputs", len(inputs)))
	}

	heuristic := defaultHeuristic()
	if cfg.noHeuristic {
		heuristic.enabled = false
	}

	outcomes := make([]parseOutcome, len(inputs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			outcomes[i] = parseInput(ctx, in, heuristic, cfg)
		}(i, in)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var headers []*asn1.ModuleHeader
	var decls []asn1.TopLevelDeclaration
	var diags []asn1.Diagnostic
	for _, out := range outcomes {
		for _, unit := range out.units {
			headers = append(headers, unit.Header)
			decls = append(decls, unit.Declarations...)
		}
		diags = append(diags, out.diags...)
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parsing complete",
			slog.Int("modules", len(headers)),
			slog.Int("declarations", len(decls)))
	}

	decls, linkDiags := linker.Link(decls, componentLogger(logger, "linker"), cfg.diag)
	diags = append(diags, linkDiags...)

	valid, checkDiags := validate.Declarations(decls, componentLogger(logger, "validate"), cfg.diag)
	diags = append(diags, checkDiags...)

	return asn1.NewModule(headers, valid, diags), nil
}

func parseInput(ctx context.Context, in Input, h heuristicConfig, cfg compileConfig) parseOutcome {
	logger := cfg.logger

	content, err := in.Read()
	if err != nil {
		return parseOutcome{diags: convertParseDiag(cfg, asn1.Diagnostic{
			Severity: asn1.SeverityFatal,
			Code:     asn1.DiagParseError,
			Message:  err.Error(),
			Module:   in.Name,
		})}
	}

	if !h.looksLikeNotation(content) {
		if logEnabled(logger, slog.LevelDebug) {
			logger.LogAttrs(ctx, slog.LevelDebug, "content rejected by heuristic",
				slog.String("input", in.Name))
		}
		return parseOutcome{}
	}

	p := parser.New(content, componentLogger(logger, "parser"))
	units, parseDiags := p.Parse()

	out := parseOutcome{units: units}
	for _, d := range parseDiags {
		line, col := lineColumn(content, d.Span.Start)
		out.diags = append(out.diags, convertParseDiag(cfg, asn1.Diagnostic{
			Severity: asn1.Severity(d.Severity),
			Code:     asn1.DiagParseError,
			Message:  d.Message,
			Module:   moduleFor(in.Name, units, d.Span),
			Line:     line,
			Column:   col,
		})...)
	}
	return out
}

// convertParseDiag applies the diagnostic configuration to one parse
// diagnostic, returning it with its effective severity or nothing.
func convertParseDiag(cfg compileConfig, d asn1.Diagnostic) []asn1.Diagnostic {
	if !cfg.diag.ShouldReport(d.Code, d.Severity) {
		return nil
	}
	d.Severity = cfg.diag.EffectiveSeverity(d.Code, d.Severity)
	return []asn1.Diagnostic{d}
}

// moduleFor names the module a parse diagnostic belongs to: the
// envelope whose span contains it, falling back to the input name for
// bare extracts and positions outside any envelope.
func moduleFor(inputName string, units []*parser.ModuleUnit, span types.Span) string {
	for _, u := range units {
		if span.Start >= u.Span.Start && span.Start < u.Span.End && u.Header.Name != "" {
			return u.Header.Name
		}
	}
	return inputName
}

// lineColumn converts a byte offset into 1-based line and column.
func lineColumn(src []byte, off types.ByteOffset) (line, col int) {
	o := min(int(off), len(src))
	line = 1 + bytes.Count(src[:o], []byte{'\n'})
	last := bytes.LastIndexByte(src[:o], '\n')
	return line, o - last
}

var sigAssign = []byte("::=")

type heuristicConfig struct {
	enabled         bool
	binaryCheckSize int
	maxProbeSize    int
}

func defaultHeuristic() heuristicConfig {
	return heuristicConfig{
		enabled:         true,
		binaryCheckSize: 1024,
		maxProbeSize:    128 * 1024,
	}
}

// looksLikeNotation reports whether content plausibly holds ASN.1
// notation. The probe looks for the assignment token rather than the
// DEFINITIONS keyword, since specification extracts are routinely
// transcribed without their module envelope.
func (h *heuristicConfig) looksLikeNotation(content []byte) bool {
	if !h.enabled {
		return true
	}
	if len(content) == 0 {
		return false
	}

	checkLen := min(h.binaryCheckSize, len(content))
	if bytes.IndexByte(content[:checkLen], 0) >= 0 {
		return false
	}

	probeLen := min(h.maxProbeSize, len(content))
	return bytes.Contains(content[:probeLen], sigAssign)
}
