package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	asnr "github.com/6d7a/asnr-sub000"
	"github.com/6d7a/asnr-sub000/asn1"
)

type cmdBounds struct {
	global *globalOptions

	format string
	all    bool
}

func (c *cmdBounds) help() *commandHelp {
	return &commandHelp{
		usage:   "bounds [options] NAME [FILE | DIR]...",
		summary: "Fold the constraints of a type declaration into bounds",
	}
}

func (c *cmdBounds) flags(flags *pflag.FlagSet) {
	flags.StringVar(&c.format, "format", "text", "output format: text, json")
	flags.BoolVar(&c.all, "all", false, "fold every type declaration instead of NAME")
}

func (c *cmdBounds) run(ctx context.Context, args []string) int {
	switch c.format {
	case "text", "json":
		// ok
	default:
		printError("unknown format: %s", c.format)
		return exitError
	}

	var name string
	if !c.all {
		if len(args) == 0 {
			printError("no type name specified")
			return exitError
		}
		name = args[0]
		args = args[1:]
	}

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

	m, err := c.global.compile(ctx, args, cfg, diagCfg)
	if err != nil {
		printError("compilation failed: %v", err)
		return exitError
	}

	if c.all {
		return c.printAll(m)
	}

	td := m.Type(name)
	if td == nil {
		if m.Declaration(name) != nil {
			printError("%s is not a type declaration", name)
		} else {
			printError("type %s not found", name)
		}
		return exitError
	}

	if c.format == "json" {
		data, err := marshalJSON(map[string]*DeclNode{name: buildDeclNode(td.Type)}, true)
		if err != nil {
			printError("failed to marshal JSON: %v", err)
			return exitError
		}
		fmt.Println(string(data))
		return exitOK
	}

	bounds, err := asnr.FoldType(td.Type)
	if err != nil {
		printError("cannot fold %s: %v", name, err)
		return exitError
	}
	printBoundsLine(name, td.Type, bounds)
	return exitOK
}

func (c *cmdBounds) printAll(m *asnr.Module) int {
	if c.format == "json" {
		nodes := make(map[string]*DeclNode)
		for _, td := range m.Types() {
			nodes[td.Name] = buildDeclNode(td.Type)
		}
		data, err := marshalJSON(nodes, true)
		if err != nil {
			printError("failed to marshal JSON: %v", err)
			return exitError
		}
		fmt.Println(string(data))
		return exitOK
	}

	for _, td := range m.Types() {
		bounds, err := asnr.FoldType(td.Type)
		if err != nil {
			fmt.Printf("%s %s (fold failed: %v)\n", td.Name, declKind(td.Type), err)
			continue
		}
		printBoundsLine(td.Name, td.Type, bounds)
	}
	return exitOK
}

func printBoundsLine(name string, t asn1.Type, bounds *asnr.PerVisibleBounds) {
	fmt.Printf("%s %s %s", name, declKind(t), formatBounds(bounds))
	if bounds != nil {
		if width, ok := bounds.BitLength(); ok {
			fmt.Printf(" bits=%d", width)
		}
	}
	fmt.Println()
}

// formatBounds renders folded bounds, with MIN and MAX for open sides.
func formatBounds(b *asnr.PerVisibleBounds) string {
	if b == nil {
		return "(not visible)"
	}
	low, high := "MIN", "MAX"
	if b.Min != nil {
		low = strconv.FormatInt(*b.Min, 10)
	}
	if b.Max != nil {
		high = strconv.FormatInt(*b.Max, 10)
	}
	if b.Extensible {
		return fmt.Sprintf("(%s..%s, ...)", low, high)
	}
	return fmt.Sprintf("(%s..%s)", low, high)
}
