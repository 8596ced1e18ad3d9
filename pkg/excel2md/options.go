// Package excel2md converts xlsx workbooks to Markdown: it decomposes each
// sheet into tables, classifies every table, and renders the result.
package excel2md

import (
	"github.com/excel2md/excel2md-go/pkg/excel2md/classify"
	"github.com/excel2md/excel2md-go/pkg/excel2md/detect"
	"github.com/excel2md/excel2md-go/pkg/excel2md/output"
	"github.com/excel2md/excel2md-go/pkg/excel2md/parser"
)

// MergePolicy controls how values inside merged blocks are extracted.
type MergePolicy string

const (
	// MergeTopLeftOnly keeps the value in the top-left cell only.
	MergeTopLeftOnly MergePolicy = "top_left_only"
	// MergeExpand repeats the value across the whole merged block.
	MergeExpand MergePolicy = "expand"
)

// HyperlinkMode controls how cell hyperlinks are rendered.
type HyperlinkMode string

const (
	// LinkInline renders [text](url).
	LinkInline HyperlinkMode = "inline"
	// LinkInlinePlain renders the text followed by the bare URL.
	LinkInlinePlain HyperlinkMode = "inline_plain"
	// LinkFootnote renders the text with a numbered footnote reference.
	LinkFootnote HyperlinkMode = "footnote"
	// LinkBoth renders an inline link and a footnote reference.
	LinkBoth HyperlinkMode = "both"
)

// FootnoteScope controls when hyperlink footnote numbering restarts.
type FootnoteScope string

const (
	// ScopeBook numbers footnotes across the whole workbook.
	ScopeBook FootnoteScope = "book"
	// ScopeSheet restarts numbering on each sheet.
	ScopeSheet FootnoteScope = "sheet"
)

// Options configures conversion behavior.
type Options struct {
	// HiddenPolicy controls how hidden rows and columns participate in
	// detection.
	HiddenPolicy detect.HiddenPolicy
	// NoPrintAreaMode selects the fallback range for sheets without a
	// declared print area.
	NoPrintAreaMode parser.NoPrintAreaMode
	// MaxCellsPerTable truncates table extraction after this many cells.
	// Zero means unlimited.
	MaxCellsPerTable int
	// MaxSheetCount caps the number of sheets processed. Zero means all.
	MaxSheetCount int

	// MergePolicy selects merged-block value handling.
	MergePolicy MergePolicy
	// HyperlinkMode selects hyperlink rendering.
	HyperlinkMode HyperlinkMode
	// FootnoteScope selects footnote numbering scope.
	FootnoteScope FootnoteScope
	// StripWhitespace trims surrounding whitespace from cell text.
	StripWhitespace bool

	// EscapeLevel selects Markdown escaping aggressiveness.
	EscapeLevel output.EscapeLevel
	// Numeric controls normalization of numeric-looking cell text.
	Numeric output.NumericOptions
	// HeaderDetection renders the first table row as a header row when it
	// looks like one. If nil, defaults to true.
	HeaderDetection *bool
	// AlignDetection right-aligns mostly-numeric columns. If nil, defaults
	// to true.
	AlignDetection *bool
	// NumbersRightThreshold is the numeric fraction required for
	// right-alignment.
	NumbersRightThreshold float64

	// Classifier holds diagram-detection and dispatch thresholds.
	Classifier classify.Config
	// MermaidDirection is the flowchart direction (TD, LR, ...).
	MermaidDirection string
	// KeepSourceTable also renders the source table under a detected
	// diagram. If nil, defaults to true.
	KeepSourceTable *bool

	// SplitBySheet emits one document section per sheet file name.
	SplitBySheet bool
	// CSVEnabled appends a raw CSV dump of each unioned area.
	CSVEnabled bool
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		HiddenPolicy:          detect.HiddenIgnore,
		NoPrintAreaMode:       parser.FallbackUsedRange,
		MaxCellsPerTable:      10000,
		MergePolicy:           MergeTopLeftOnly,
		HyperlinkMode:         LinkInline,
		FootnoteScope:         ScopeBook,
		StripWhitespace:       true,
		EscapeLevel:           output.EscapeSafe,
		NumbersRightThreshold: 0.8,
		Classifier:            classify.DefaultConfig(),
		MermaidDirection:      "TD",
	}
}

// ShouldDetectHeader returns whether header-row detection is enabled.
func (o Options) ShouldDetectHeader() bool {
	if o.HeaderDetection != nil {
		return *o.HeaderDetection
	}
	return true
}

// ShouldDetectAlign returns whether numeric right-alignment is enabled.
func (o Options) ShouldDetectAlign() bool {
	if o.AlignDetection != nil {
		return *o.AlignDetection
	}
	return true
}

// ShouldKeepSourceTable returns whether a detected diagram is followed by
// its source table.
func (o Options) ShouldKeepSourceTable() bool {
	if o.KeepSourceTable != nil {
		return *o.KeepSourceTable
	}
	return true
}

// tableOptions derives the Markdown table renderer options.
func (o Options) tableOptions() output.TableOptions {
	opts := output.DefaultTableOptions()
	opts.HeaderDetection = o.ShouldDetectHeader()
	opts.AlignDetection = o.ShouldDetectAlign()
	if o.NumbersRightThreshold > 0 {
		opts.AlignThreshold = o.NumbersRightThreshold
	}
	return opts
}
