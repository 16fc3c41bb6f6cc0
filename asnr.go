package asnr

import (
	"context"
	"errors"
	"log/slog"

	"github.com/6d7a/asnr-sub000/asn1"
)

// ErrNoSources is returned when Compile is called without a source.
var ErrNoSources = errors.New("no notation sources provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, linker queue items, fold steps).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// Option configures Compile.
type Option func(*compileConfig)

type compileConfig struct {
	logger      *slog.Logger
	diag        asn1.DiagnosticConfig
	noHeuristic bool
	searchPath  bool
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *compileConfig) { c.logger = logger }
}

// WithDiagnosticConfig sets strictness and diagnostic filtering for
// every compile stage. The default is asn1.DefaultConfig.
func WithDiagnosticConfig(cfg asn1.DiagnosticConfig) Option {
	return func(c *compileConfig) { c.diag = cfg }
}

// WithNoHeuristic disables the content probe that skips inputs not
// recognizable as ASN.1 notation. Every input is handed to the parser.
func WithNoHeuristic() Option {
	return func(c *compileConfig) { c.noHeuristic = true }
}

// Compile parses all notation from the given source, links references
// across the merged declaration list, validates the linked
// declarations, and returns the resulting module. Use Multi() to
// combine multiple sources.
//
// Compilation is fail-soft: problems surface as diagnostics on the
// module, and err is non-nil only when no work could be attempted at
// all.
//
// Example:
//
//	module, err := asnr.Compile(
//	    asnr.MustDirTree("./schemas"),
//	    asnr.WithLogger(slog.Default()),
//	)
//
//	// Multiple sources:
//	module, err := asnr.Compile(
//	    asnr.Multi(asnr.MustDir("./schemas"), asnr.String("inline", text)),
//	)
func Compile(source Source, opts ...Option) (*asn1.Module, error) {
	return CompileContext(context.Background(), source, opts...)
}

// CompileContext is Compile with cancellation. A canceled context
// aborts between inputs and returns the context's error.
func CompileContext(ctx context.Context, source Source, opts ...Option) (*asn1.Module, error) {
	cfg := compileConfig{
		diag: asn1.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var sources []Source
	if source != nil {
		sources = append(sources, source)
	}
	if cfg.searchPath {
		sources = append(sources, searchPathSources(cfg.logger)...)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	return compile(ctx, sources, cfg)
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
