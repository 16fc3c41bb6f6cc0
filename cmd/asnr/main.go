// Command asnr compiles, lints, and inspects ASN.1 notation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	asnr "github.com/6d7a/asnr-sub000"
	"github.com/6d7a/asnr-sub000/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK     = 0 // success
	exitError  = 1 // user error, processing failure, or lint threshold reached
	exitFailed = 2 // compilation failed under the configured strictness
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, args []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

// globalOptions carries the root persistent flags into every
// subcommand.
type globalOptions struct {
	paths      []string
	verbose    int
	configPath string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, argv []string) int {
	global := &globalOptions{}

	root := &cobra.Command{
		Use:           "asnr [options] COMMAND",
		Short:         "ASN.1 notation compiler front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringArrayVarP(&global.paths, "path", "p", nil, "add a notation search path (repeatable)")
	root.PersistentFlags().CountVarP(&global.verbose, "verbose", "v", "debug logging, repeat for trace")
	root.PersistentFlags().StringVar(&global.configPath, "config", "", "YAML configuration file")

	exit := exitOK
	root.RunE = func(_ *cobra.Command, _ []string) error {
		fmt.Fprint(os.Stderr, root.UsageString())
		exit = exitError
		return nil
	}

	commands := []command{
		&cmdCompile{global: global},
		&cmdLint{global: global},
		&cmdBounds{global: global},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				exit = cmd.run(ctx, args)
				return nil
			},
		}
		cmd.flags(cobraCmd.Flags())
		root.AddCommand(cobraCmd)
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			printVersion()
		},
	})

	root.SetArgs(argv)
	if err := root.ExecuteContext(ctx); err != nil {
		printError("%v", err)
		return exitError
	}
	return exit
}

func (g *globalOptions) setupLogger() *slog.Logger {
	if g.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if g.verbose >= 2 {
		level = asnr.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildSource composes the notation source for a run: positional FILE
// or DIR arguments first, then -p search paths. With neither, the
// ASNR_PATH environment variable supplies the sources instead.
func (g *globalOptions) buildSource(args []string, srcOpts []asnr.SourceOption) (asnr.Source, []asnr.Option, error) {
	var sources []asnr.Source
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		if info.IsDir() {
			src, err := asnr.DirTree(arg, srcOpts...)
			if err != nil {
				return nil, nil, err
			}
			sources = append(sources, src)
		} else {
			sources = append(sources, asnr.Files(arg))
		}
	}
	for _, p := range g.paths {
		src, err := asnr.DirTree(p, srcOpts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot access path %s: %v\n", p, err)
			continue
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, []asnr.Option{asnr.WithSearchPath()}, nil
	}
	return asnr.Multi(sources...), nil, nil
}

// compile runs the pipeline over the composed sources. The caller
// derives diagCfg from the file config and its own flags, so the same
// config can drive failure threshold checks afterwards.
func (g *globalOptions) compile(ctx context.Context, args []string, cfg *fileConfig, diagCfg asnr.DiagnosticConfig) (*asnr.Module, error) {
	source, opts, err := g.buildSource(args, cfg.sourceOptions())
	if err != nil {
		return nil, err
	}
	opts = append(opts, asnr.WithDiagnosticConfig(diagCfg))
	if logger := g.setupLogger(); logger != nil {
		opts = append(opts, asnr.WithLogger(logger))
	}
	return asnr.CompileContext(ctx, source, opts...)
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("asnr %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}
