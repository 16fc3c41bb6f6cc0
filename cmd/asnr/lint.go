package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	asnr "github.com/6d7a/asnr-sub000"
	"github.com/6d7a/asnr-sub000/asn1"
)

type cmdLint struct {
	global  *globalOptions
	flagSet *pflag.FlagSet

	level   int
	failOn  int
	ignore  []string
	only    []string
	format  string
	groupBy string
	summary bool
	quiet   bool
}

type lintResult struct {
	Diagnostics []lintDiagnostic `json:"diagnostics,omitempty"`
	Summary     lintSummary      `json:"summary"`
	ExitCode    int              `json:"-"`
}

type lintDiagnostic struct {
	Severity    string `json:"severity"`
	SeverityNum int    `json:"severity_num"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Module      string `json:"module,omitempty"`
	Declaration string `json:"declaration,omitempty"`
	Line        int    `json:"line,omitempty"`
	Column      int    `json:"column,omitempty"`
	RuleID      string `json:"rule_id,omitempty"` // For SARIF
}

type lintSummary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByCode     map[string]int `json:"by_code,omitempty"`
	Modules    int            `json:"modules"`
}

func (c *cmdLint) help() *commandHelp {
	return &commandHelp{
		usage:   "lint [options] [FILE | DIR]...",
		summary: "Check notation for issues (linter mode)",
	}
}

func (c *cmdLint) flags(flags *pflag.FlagSet) {
	c.flagSet = flags
	flags.IntVar(&c.level, "level", 3, "report diagnostics at severity N or below (0-6)")
	flags.IntVar(&c.failOn, "fail-on", 2, "exit non-zero on any diagnostic at severity N or below")
	flags.StringArrayVar(&c.ignore, "ignore", nil, "ignore diagnostic codes (repeatable, glob patterns)")
	flags.StringArrayVar(&c.only, "only", nil, "only report these codes (repeatable)")
	flags.StringVar(&c.format, "format", "text", "output format: text, json, sarif, compact")
	flags.StringVar(&c.groupBy, "group-by", "", "group output: module, code, severity")
	flags.BoolVar(&c.summary, "summary", false, "show summary only (counts by severity)")
	flags.BoolVar(&c.quiet, "quiet", false, "no output, exit code only")
}

func (c *cmdLint) run(ctx context.Context, args []string) int {
	cfg, err := loadFileConfig(c.global.configPath)
	if err != nil {
		printError("%v", err)
		return exitError
	}

	// The file config provides defaults for flags not set explicitly.
	if !c.flagSet.Changed("level") && cfg.Strictness != "" {
		level, err := parseStrictness(cfg.Strictness)
		if err != nil {
			printError("%v", err)
			return exitError
		}
		c.level = int(level)
	}
	if !c.flagSet.Changed("fail-on") && cfg.FailOn != "" {
		sev, err := parseSeverity(cfg.FailOn)
		if err != nil {
			printError("%v", err)
			return exitError
		}
		c.failOn = int(sev)
	}
	ignore := append(append([]string{}, cfg.Ignore...), c.ignore...)

	switch c.format {
	case "text", "json", "sarif", "compact":
		// ok
	default:
		printError("unknown format: %s", c.format)
		return exitError
	}

	switch c.groupBy {
	case "", "module", "code", "severity":
		// ok
	default:
		printError("unknown group-by: %s", c.groupBy)
		return exitError
	}

	result := c.runLint(ctx, args, cfg, ignore)

	if !c.quiet {
		var err error
		switch c.format {
		case "json":
			err = printLintJSON(result)
		case "sarif":
			err = printLintSARIF(result)
		case "compact":
			c.printLintCompact(result)
		default:
			c.printLintText(result)
		}
		if err != nil {
			printError("output encoding failed: %v", err)
			return exitError
		}
	}

	return result.ExitCode
}

func (c *cmdLint) runLint(ctx context.Context, args []string, cfg *fileConfig, ignore []string) *lintResult {
	diagCfg := asnr.DiagnosticConfig{
		Level:  asnr.StrictnessLevel(c.level),
		FailAt: asnr.SeverityFatal, // We handle failure ourselves
		Ignore: ignore,
	}

	m, err := c.global.compile(ctx, args, cfg, diagCfg)

	result := &lintResult{
		Summary: lintSummary{
			BySeverity: make(map[string]int),
			ByCode:     make(map[string]int),
		},
	}

	if err != nil {
		result.Diagnostics = append(result.Diagnostics, lintDiagnostic{
			Severity:    "fatal",
			SeverityNum: 0,
			Code:        asn1.DiagParseError,
			Message:     err.Error(),
		})
		result.Summary.Total = 1
		result.Summary.BySeverity["fatal"] = 1
		result.ExitCode = exitFailed
		return result
	}

	result.Summary.Modules = len(m.Headers)

	for _, d := range m.Diagnostics {
		if len(c.only) > 0 && !matchesAny(d.Code, c.only) {
			continue
		}

		ld := lintDiagnostic{
			Severity:    d.Severity.String(),
			SeverityNum: int(d.Severity),
			Code:        d.Code,
			Message:     d.Message,
			Module:      d.Module,
			Declaration: d.Declaration,
			Line:        d.Line,
			Column:      d.Column,
			RuleID:      d.Code,
		}
		result.Diagnostics = append(result.Diagnostics, ld)
		result.Summary.Total++
		result.Summary.BySeverity[d.Severity.String()]++
		result.Summary.ByCode[d.Code]++

		if int(d.Severity) <= c.failOn {
			result.ExitCode = exitError
		}
	}

	return result
}

func matchesAny(code string, patterns []string) bool {
	for _, p := range patterns {
		if asn1.MatchGlob(p, code) {
			return true
		}
	}
	return false
}

// lintLocation renders the most specific location a diagnostic carries.
func lintLocation(d lintDiagnostic) string {
	switch {
	case d.Module != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d", d.Module, d.Line)
	case d.Module != "" && d.Declaration != "":
		return d.Module + "/" + d.Declaration
	case d.Module != "":
		return d.Module
	default:
		return d.Declaration
	}
}

func (c *cmdLint) printLintText(result *lintResult) {
	if c.summary {
		printLintSummary(result)
		return
	}

	switch c.groupBy {
	case "module":
		printLintByModule(result)
	case "code":
		printLintByCode(result)
	case "severity":
		printLintBySeverity(result)
	default:
		printLintFlat(result)
	}

	if result.Summary.Total > 0 {
		fmt.Println()
		printLintSummary(result)
	} else {
		fmt.Printf("No issues found in %d modules\n", result.Summary.Modules)
	}
}

func printLintFlat(result *lintResult) {
	for _, d := range result.Diagnostics {
		printLintDiagLine(d, true)
	}
}

func printLintByModule(result *lintResult) {
	byMod := make(map[string][]lintDiagnostic)
	for _, d := range result.Diagnostics {
		mod := d.Module
		if mod == "" {
			mod = "(unknown)"
		}
		byMod[mod] = append(byMod[mod], d)
	}

	mods := make([]string, 0, len(byMod))
	for m := range byMod {
		mods = append(mods, m)
	}
	slices.Sort(mods)

	for _, mod := range mods {
		fmt.Printf("\n%s:\n", mod)
		for _, d := range byMod[mod] {
			fmt.Printf("  ")
			printLintDiagLine(d, true)
		}
	}
}

func printLintByCode(result *lintResult) {
	byCode := make(map[string][]lintDiagnostic)
	for _, d := range result.Diagnostics {
		code := d.Code
		if code == "" {
			code = "(unknown)"
		}
		byCode[code] = append(byCode[code], d)
	}

	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	slices.Sort(codes)

	for _, code := range codes {
		diags := byCode[code]
		fmt.Printf("\n%s (%d):\n", code, len(diags))
		for _, d := range diags {
			if loc := lintLocation(d); loc != "" {
				fmt.Printf("  %s: %s\n", loc, d.Message)
			} else {
				fmt.Printf("  %s\n", d.Message)
			}
		}
	}
}

func printLintBySeverity(result *lintResult) {
	bySev := make(map[int][]lintDiagnostic)
	for _, d := range result.Diagnostics {
		bySev[d.SeverityNum] = append(bySev[d.SeverityNum], d)
	}

	sevs := make([]int, 0, len(bySev))
	for s := range bySev {
		sevs = append(sevs, s)
	}
	slices.Sort(sevs)

	for _, sev := range sevs {
		diags := bySev[sev]
		if len(diags) > 0 {
			fmt.Printf("\n%s (%d):\n", diags[0].Severity, len(diags))
			for _, d := range diags {
				fmt.Printf("  ")
				printLintDiagLine(d, false)
			}
		}
	}
}

func printLintDiagLine(d lintDiagnostic, withSeverity bool) {
	var parts []string
	if withSeverity {
		parts = append(parts, d.Severity+":")
	}
	if d.Code != "" {
		parts = append(parts, "["+d.Code+"]")
	}
	if loc := lintLocation(d); loc != "" {
		parts = append(parts, loc+":")
	}
	parts = append(parts, d.Message)
	fmt.Println(strings.Join(parts, " "))
}

func printLintSummary(result *lintResult) {
	fmt.Printf("Checked %d modules, found %d issues:\n", result.Summary.Modules, result.Summary.Total)

	sevOrder := []string{"fatal", "severe", "error", "minor", "style", "warning", "info"}
	for _, sev := range sevOrder {
		if count := result.Summary.BySeverity[sev]; count > 0 {
			fmt.Printf("  %-8s %d\n", sev+":", count)
		}
	}
}

func (c *cmdLint) printLintCompact(result *lintResult) {
	if c.summary {
		fmt.Printf("%d issues", result.Summary.Total)
		parts := []string{}
		if n := result.Summary.BySeverity["error"]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d errors", n))
		}
		if n := result.Summary.BySeverity["minor"]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d minor", n))
		}
		if n := result.Summary.BySeverity["warning"]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d warnings", n))
		}
		if len(parts) > 0 {
			fmt.Printf(" (%s)", strings.Join(parts, ", "))
		}
		fmt.Println()
		return
	}

	for _, d := range result.Diagnostics {
		loc := d.Module
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", d.Module, d.Line)
			if d.Column > 0 {
				loc = fmt.Sprintf("%s:%d:%d", d.Module, d.Line, d.Column)
			}
		}
		fmt.Printf("%s: %s [%s] %s\n", loc, d.Severity, d.Code, d.Message)
	}
}

func printLintJSON(result *lintResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// SARIF (Static Analysis Results Interchange Format) output
// https://sarifweb.azurewebsites.net/
func printLintSARIF(result *lintResult) error {
	sarif := sarifOutput{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "asnr",
					InformationURI: "https://github.com/6d7a/asnr-sub000",
					Rules:          buildSARIFRules(result),
				},
			},
			Results: buildSARIFResults(result),
		}},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sarif)
}

type sarifOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

func buildSARIFRules(result *lintResult) []sarifRule {
	seen := make(map[string]bool)
	var rules []sarifRule

	for _, d := range result.Diagnostics {
		if d.Code == "" || seen[d.Code] {
			continue
		}
		seen[d.Code] = true
		rules = append(rules, sarifRule{
			ID:               d.Code,
			ShortDescription: sarifMessage{Text: d.Code},
			DefaultConfig:    sarifDefaultConfig{Level: severityToSARIF(d.SeverityNum)},
		})
	}

	slices.SortFunc(rules, func(a, b sarifRule) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return rules
}

func buildSARIFResults(result *lintResult) []sarifResult {
	var results []sarifResult

	for _, d := range result.Diagnostics {
		r := sarifResult{
			RuleID:  d.Code,
			Level:   severityToSARIF(d.SeverityNum),
			Message: sarifMessage{Text: d.Message},
		}

		if d.Module != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifact{URI: d.Module},
				},
			}
			if d.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   d.Line,
					StartColumn: d.Column,
				}
			}
			r.Locations = append(r.Locations, loc)
		}

		results = append(results, r)
	}

	return results
}

func severityToSARIF(sev int) string {
	switch {
	case sev <= 2: // fatal, severe, error
		return "error"
	case sev <= 4: // minor, style
		return "warning"
	default: // warning, info
		return "note"
	}
}
