package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	asnr "github.com/6d7a/asnr-sub000"
	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/cmd/internal/cliutil"
)

type cmdCompile struct {
	global *globalOptions

	outPath    string
	jsonOut    bool
	compact    bool
	strict     bool
	permissive bool
	level      int
}

func (c *cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile [options] [FILE | DIR]...",
		summary: "Compile notation and report or dump the declaration model",
	}
}

func (c *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.outPath, "output", "o", "", "write output to FILE instead of stdout")
	flags.BoolVar(&c.jsonOut, "json", false, "dump the full declaration model as JSON")
	flags.BoolVar(&c.compact, "compact", false, "minified JSON (no indentation)")
	flags.BoolVar(&c.strict, "strict", false, "strict standard compliance mode")
	flags.BoolVar(&c.permissive, "permissive", false, "permissive mode for vendor notation")
	flags.IntVar(&c.level, "level", -1, "strictness level (0-6, lower is stricter)")
}

func (c *cmdCompile) run(ctx context.Context, args []string) int {
	cfg, err := loadFileConfig(c.global.configPath)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	diagCfg, err := cfg.diagnosticConfig()
	if err != nil {
		printError("%v", err)
		return exitError
	}
	switch {
	case c.strict:
		diagCfg = asnr.StrictConfig()
	case c.permissive:
		diagCfg = asnr.PermissiveConfig()
	case c.level >= 0:
		diagCfg.Level = asnr.StrictnessLevel(c.level)
	}

	m, err := c.global.compile(ctx, args, cfg, diagCfg)
	if err != nil {
		printError("compilation failed: %v", err)
		return exitError
	}

	out, closeOut, err := cliutil.GetOutput(c.outPath)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	if c.jsonOut {
		data, err := marshalJSON(buildDumpOutput(m), !c.compact)
		if err != nil {
			printError("failed to marshal JSON: %v", err)
			return exitError
		}
		fmt.Fprintln(out, string(data))
	} else {
		information := 0
		for _, d := range m.Declarations {
			if _, ok := d.(*asn1.InformationDeclaration); ok {
				information++
			}
		}
		fmt.Fprintf(out, "Compiled %d modules (%d types, %d values, %d information objects)\n",
			len(m.Headers), len(m.Types()), len(m.Values()), information)

		if len(m.Diagnostics) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Diagnostics:")
			for _, d := range m.Diagnostics {
				printDiagnostic(out, d)
			}
		}
	}

	if m.HasFailures(diagCfg) {
		return exitFailed
	}
	return exitOK
}

func printDiagnostic(w io.Writer, d asnr.Diagnostic) {
	prefix := "  " + d.Severity.String() + ": "
	if d.Code != "" {
		prefix += "[" + d.Code + "] "
	}
	switch {
	case d.Module != "" && d.Line > 0:
		fmt.Fprintf(w, "%s%s:%d: %s\n", prefix, d.Module, d.Line, d.Message)
	case d.Module != "" && d.Declaration != "":
		fmt.Fprintf(w, "%s%s/%s: %s\n", prefix, d.Module, d.Declaration, d.Message)
	case d.Module != "":
		fmt.Fprintf(w, "%s%s: %s\n", prefix, d.Module, d.Message)
	case d.Declaration != "":
		fmt.Fprintf(w, "%s%s: %s\n", prefix, d.Declaration, d.Message)
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, d.Message)
	}
}
