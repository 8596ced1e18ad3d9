// Package main provides the CLI entry point for excel2md-go.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/excel2md/excel2md-go/pkg/excel2md"
	"github.com/excel2md/excel2md-go/pkg/excel2md/classify"
	"github.com/excel2md/excel2md-go/pkg/excel2md/detect"
	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
	"github.com/excel2md/excel2md-go/pkg/excel2md/output"
	"github.com/excel2md/excel2md-go/pkg/excel2md/parser"
)

var (
	outputPath string
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "excel2md [input.xlsx]",
		Short: "Convert Excel workbooks to Markdown",
		Long: `excel2md-go decomposes each sheet of an xlsx workbook into tables,
classifies every table (code, diagram, text, nested outline, or grid),
and renders the result as Markdown.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVarP(&configPath, "config", "c", "", "Config file (yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	flags.String("hidden-policy", "ignore", "Hidden rows/cols: ignore, include, exclude")
	flags.String("no-print-area-mode", "used_range", "Fallback when a sheet has no print area: used_range, entire_sheet_range, skip_sheet")
	flags.Int("max-cells-per-table", 10000, "Truncate tables after this many cells (0 = unlimited)")
	flags.Int("max-sheet-count", 0, "Process at most this many sheets (0 = all)")
	flags.String("merge-policy", "top_left_only", "Merged cell values: top_left_only, expand")
	flags.String("hyperlink-mode", "inline", "Hyperlinks: inline, inline_plain, footnote, both")
	flags.String("footnote-scope", "book", "Footnote numbering scope: book, sheet")
	flags.Bool("strip-whitespace", true, "Trim surrounding whitespace from cell text")
	flags.String("escape-level", "safe", "Markdown escaping: safe, minimal, aggressive")
	flags.Bool("header-detection", true, "Render a detected header row")
	flags.Bool("align-detection", true, "Right-align numeric columns")
	flags.Float64("numbers-right-threshold", 0.8, "Numeric fraction required for right alignment")
	flags.Bool("numeric-strip-currency", false, "Strip leading currency symbols from numbers")
	flags.Bool("numeric-thousand-sep", false, "Remove thousand separators from numbers")
	flags.String("percent-format", "keep", "Percent cells: keep, number, fraction")
	flags.Bool("mermaid", false, "Enable diagram detection")
	flags.String("mermaid-detect-mode", "none", "Diagram detection: none, column_headers, heuristic, shapes")
	flags.String("mermaid-direction", "TD", "Mermaid flowchart direction")
	flags.String("mermaid-node-id-policy", "auto", "Node ids: auto, shape_id, explicit")
	flags.String("mermaid-group-behavior", "subgraph", "Group columns: subgraph, ignore")
	flags.Bool("mermaid-dedupe-edges", true, "Drop duplicate diagram edges")
	flags.Bool("mermaid-keep-source-table", true, "Render the source table under a detected diagram")
	flags.Int("mermaid-min-rows", 3, "Heuristic: minimum rows with both endpoints filled")
	flags.Float64("mermaid-arrow-ratio", 0.3, "Heuristic: minimum fraction of rows with arrow tokens")
	flags.Float64("mermaid-len-ratio-min", 0.4, "Heuristic: minimum from/to median length ratio")
	flags.Float64("mermaid-len-ratio-max", 2.5, "Heuristic: maximum from/to median length ratio")
	flags.StringToString("mermaid-columns", nil, "Column-headers mode role mapping, e.g. from=Source,to=Target")
	flags.Bool("skip-code-and-mermaid-on-fallback", true, "Skip diagram detection when code detection fails internally")
	flags.Bool("split-by-sheet", false, "Write one Markdown file per sheet")
	flags.Bool("csv", false, "Append raw CSV dumps of each area")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	opts, err := optionsFromViper()
	if err != nil {
		return err
	}

	inputPath := args[0]
	doc, err := excel2md.Convert(inputPath, opts)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if viper.GetBool("split-by-sheet") {
		return writeSheetFiles(doc, opts)
	}

	markdown := excel2md.RenderDocument(doc, opts)
	if outputPath == "" {
		fmt.Print(markdown)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// optionsFromViper assembles conversion options from flags and the optional
// config file, validating each enum value.
func optionsFromViper() (excel2md.Options, error) {
	opts := excel2md.DefaultOptions()

	switch policy := viper.GetString("hidden-policy"); policy {
	case "ignore":
		opts.HiddenPolicy = detect.HiddenIgnore
	case "include":
		opts.HiddenPolicy = detect.HiddenInclude
	case "exclude":
		opts.HiddenPolicy = detect.HiddenExclude
	default:
		return opts, fmt.Errorf("invalid hidden-policy: %s", policy)
	}

	switch mode := viper.GetString("no-print-area-mode"); mode {
	case "used_range":
		opts.NoPrintAreaMode = parser.FallbackUsedRange
	case "entire_sheet_range":
		opts.NoPrintAreaMode = parser.FallbackEntireSheet
	case "skip_sheet":
		opts.NoPrintAreaMode = parser.FallbackSkipSheet
	default:
		return opts, fmt.Errorf("invalid no-print-area-mode: %s", mode)
	}

	switch policy := excel2md.MergePolicy(viper.GetString("merge-policy")); policy {
	case excel2md.MergeTopLeftOnly, excel2md.MergeExpand:
		opts.MergePolicy = policy
	default:
		return opts, fmt.Errorf("invalid merge-policy: %s", policy)
	}

	switch mode := excel2md.HyperlinkMode(viper.GetString("hyperlink-mode")); mode {
	case excel2md.LinkInline, excel2md.LinkInlinePlain, excel2md.LinkFootnote, excel2md.LinkBoth:
		opts.HyperlinkMode = mode
	default:
		return opts, fmt.Errorf("invalid hyperlink-mode: %s", mode)
	}

	switch scope := excel2md.FootnoteScope(viper.GetString("footnote-scope")); scope {
	case excel2md.ScopeBook, excel2md.ScopeSheet:
		opts.FootnoteScope = scope
	default:
		return opts, fmt.Errorf("invalid footnote-scope: %s", scope)
	}

	switch level := output.EscapeLevel(viper.GetString("escape-level")); level {
	case output.EscapeSafe, output.EscapeMinimal, output.EscapeAggressive:
		opts.EscapeLevel = level
	default:
		return opts, fmt.Errorf("invalid escape-level: %s", level)
	}

	switch fmtMode := viper.GetString("percent-format"); fmtMode {
	case "keep":
	case "number":
		opts.Numeric.PercentAsNumber = true
	case "fraction":
		opts.Numeric.PercentAsNumber = true
		opts.Numeric.PercentDivide100 = true
	default:
		return opts, fmt.Errorf("invalid percent-format: %s", fmtMode)
	}

	opts.MaxCellsPerTable = viper.GetInt("max-cells-per-table")
	opts.MaxSheetCount = viper.GetInt("max-sheet-count")
	opts.StripWhitespace = viper.GetBool("strip-whitespace")
	opts.NumbersRightThreshold = viper.GetFloat64("numbers-right-threshold")
	opts.Numeric.StripCurrency = viper.GetBool("numeric-strip-currency")
	opts.Numeric.RemoveThousandSep = viper.GetBool("numeric-thousand-sep")
	opts.HeaderDetection = boolPtr(viper.GetBool("header-detection"))
	opts.AlignDetection = boolPtr(viper.GetBool("align-detection"))
	opts.KeepSourceTable = boolPtr(viper.GetBool("mermaid-keep-source-table"))
	opts.SplitBySheet = viper.GetBool("split-by-sheet")
	opts.CSVEnabled = viper.GetBool("csv")
	opts.MermaidDirection = viper.GetString("mermaid-direction")

	cls := &opts.Classifier
	cls.MermaidEnabled = viper.GetBool("mermaid")
	switch mode := classify.DetectMode(viper.GetString("mermaid-detect-mode")); mode {
	case classify.DetectNone, classify.DetectColumnHeaders, classify.DetectHeuristic, classify.DetectShapes:
		cls.DetectMode = mode
	default:
		return opts, fmt.Errorf("invalid mermaid-detect-mode: %s", mode)
	}
	switch policy := classify.NodeIDPolicy(viper.GetString("mermaid-node-id-policy")); policy {
	case classify.NodeIDAuto, classify.NodeIDShapeID, classify.NodeIDExplicit:
		cls.NodeIDPolicy = policy
	default:
		return opts, fmt.Errorf("invalid mermaid-node-id-policy: %s", policy)
	}
	switch behavior := classify.GroupBehavior(viper.GetString("mermaid-group-behavior")); behavior {
	case classify.GroupSubgraph, classify.GroupIgnore:
		cls.GroupBehavior = behavior
	default:
		return opts, fmt.Errorf("invalid mermaid-group-behavior: %s", behavior)
	}
	cls.HeaderDetection = viper.GetBool("header-detection")
	cls.DedupeEdges = viper.GetBool("mermaid-dedupe-edges")
	cls.HeuristicMinRows = viper.GetInt("mermaid-min-rows")
	cls.HeuristicArrowRatio = viper.GetFloat64("mermaid-arrow-ratio")
	cls.HeuristicLenRatioMin = viper.GetFloat64("mermaid-len-ratio-min")
	cls.HeuristicLenRatioMax = viper.GetFloat64("mermaid-len-ratio-max")
	cls.SkipCodeAndMermaidOnFallback = viper.GetBool("skip-code-and-mermaid-on-fallback")
	if columns := viper.GetStringMapString("mermaid-columns"); len(columns) > 0 {
		for role, header := range columns {
			cls.Columns[role] = header
		}
	}

	return opts, nil
}

// writeSheetFiles writes one Markdown file per sheet into the directory
// named by --output (the current directory when unset). Skipped sheets
// produce no file.
func writeSheetFiles(doc *models.Document, opts excel2md.Options) error {
	dir := outputPath
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	base := strings.TrimSuffix(doc.BookName, filepath.Ext(doc.BookName))
	for _, sheet := range doc.Sheets {
		if sheet.Skipped {
			continue
		}
		markdown := excel2md.RenderSheet(doc, sheet, opts)
		name := fmt.Sprintf("%s_%s.md", base, safeFileName(sheet.Name))
		if err := os.WriteFile(filepath.Join(dir, name), []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// safeFileName replaces path separators and other unsafe characters in a
// sheet name.
func safeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func boolPtr(v bool) *bool {
	return &v
}
