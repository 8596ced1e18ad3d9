package models

// BlockKind is the rendering format decided for one table.
type BlockKind string

const (
	// BlockEmpty is a table with no visible data.
	BlockEmpty BlockKind = "empty"
	// BlockCode is a fenced source-code block.
	BlockCode BlockKind = "code"
	// BlockDiagram is a Mermaid flowchart built from a flow table or shapes.
	BlockDiagram BlockKind = "diagram"
	// BlockText is a single free-text line.
	BlockText BlockKind = "text"
	// BlockNested is an indented outline.
	BlockNested BlockKind = "nested"
	// BlockTable is a standard Markdown grid.
	BlockTable BlockKind = "table"
)

// Footnote is a numbered hyperlink reference collected during extraction.
type Footnote struct {
	Index  int    `json:"index"`
	Target string `json:"target"`
}

// Block is one rendered table (or shape diagram) in reading order.
type Block struct {
	// Kind is the classification outcome.
	Kind BlockKind `json:"kind"`
	// Title is the detected table title, if any.
	Title string `json:"title,omitempty"`
	// Markdown is the rendered body.
	Markdown string `json:"markdown"`
	// Truncated marks tables cut off by the max-cells-per-table cap.
	Truncated bool `json:"truncated,omitempty"`
	// Graph is set for diagram blocks.
	Graph *Graph `json:"graph,omitempty"`
}

// CSVSection is a raw CSV dump of one unioned area.
type CSVSection struct {
	// Range is the area in A1 notation.
	Range string `json:"range"`
	CSV   string `json:"csv"`
}

// SheetResult holds the converted blocks of a single sheet.
type SheetResult struct {
	Name string `json:"name"`
	// Skipped marks sheets dropped by the max-sheet-count cap or by the
	// skip-sheet print-area mode.
	Skipped bool `json:"skipped,omitempty"`
	// Areas are the unioned print areas the blocks were extracted from.
	Areas     []Area       `json:"areas,omitempty"`
	Blocks    []Block      `json:"blocks,omitempty"`
	Footnotes []Footnote   `json:"footnotes,omitempty"`
	CSV       []CSVSection `json:"csv,omitempty"`
}

// Document is the workbook-level conversion result.
type Document struct {
	// BookName is the workbook file name (no path).
	BookName string        `json:"book_name"`
	Sheets   []SheetResult `json:"sheets"`
}
