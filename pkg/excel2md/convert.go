package excel2md

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/excel2md/excel2md-go/pkg/excel2md/classify"
	"github.com/excel2md/excel2md-go/pkg/excel2md/detect"
	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
	"github.com/excel2md/excel2md-go/pkg/excel2md/output"
	"github.com/excel2md/excel2md-go/pkg/excel2md/parser"
)

// Convert converts an xlsx workbook into a structured document: per sheet,
// the unioned print areas are decomposed into tables, each table is
// classified and rendered, and hyperlink footnotes are numbered per the
// configured scope.
func Convert(path string, opts Options) (*models.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	wb, err := parser.OpenWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer wb.Close()

	doc := &models.Document{BookName: filepath.Base(path)}
	declaredAreas := parser.ExtractPrintAreas(wb.File)

	bookNotes := newFootnoteState()
	for i, sheetName := range wb.SheetNames() {
		if opts.MaxSheetCount > 0 && i >= opts.MaxSheetCount {
			log.Infof("sheet count cap %d reached, skipping %q", opts.MaxSheetCount, sheetName)
			doc.Sheets = append(doc.Sheets, models.SheetResult{Name: sheetName, Skipped: true})
			continue
		}
		notes := bookNotes
		if opts.FootnoteScope == ScopeSheet {
			notes = newFootnoteState()
		}
		result := convertSheet(wb, sheetName, declaredAreas[sheetName], notes, opts)
		doc.Sheets = append(doc.Sheets, result)
	}
	return doc, nil
}

// convertSheet converts one sheet. Failures in individual stages are logged
// and degrade to partial output rather than aborting the workbook.
func convertSheet(wb *parser.Workbook, sheetName string, declared []models.Area, notes *footnoteState, opts Options) models.SheetResult {
	result := models.SheetResult{Name: sheetName}
	sheet := wb.Sheet(sheetName, parser.CellOptions{StripWhitespace: opts.StripWhitespace})

	areas, skip := sheet.PrintAreas(declared, opts.NoPrintAreaMode)
	if skip {
		result.Skipped = true
		return result
	}
	result.Areas = detect.UnionAreas(areas)

	noteMark := len(notes.notes)
	for _, area := range result.Areas {
		lookup := detect.BuildMergedLookup(sheet.MergedRanges(), area)
		for _, table := range detect.GridToTables(sheet, area, opts.HiddenPolicy) {
			extracted := ExtractTable(sheet, table, lookup, notes, opts)
			block, ok := classifyBlock(sheet, extracted, opts)
			if !ok {
				continue
			}
			result.Blocks = append(result.Blocks, block)
		}
	}

	if opts.CSVEnabled {
		for _, area := range result.Areas {
			result.CSV = append(result.CSV, models.CSVSection{
				Range: areaRef(area),
				CSV:   output.RenderCSV(areaGrid(sheet, area)),
			})
		}
	}

	if opts.Classifier.MermaidEnabled && opts.Classifier.DetectMode == classify.DetectShapes {
		if block, ok := shapeDiagramBlock(wb, sheet, opts); ok {
			result.Blocks = append(result.Blocks, block)
		}
	}

	result.Footnotes = notes.notes[noteMark:]
	return result
}

// classifyBlock dispatches one extracted table and renders its block. The
// second return is false for empty, untitled tables, which produce no output.
func classifyBlock(sheet sheetCells, extracted ExtractedTable, opts Options) (models.Block, bool) {
	res := classify.Dispatch(extracted.Rows, tableStyle{cells: sheet, table: extracted}, opts.Classifier)
	block := models.Block{
		Kind:      models.BlockKind(res.Kind),
		Title:     extracted.Title,
		Truncated: extracted.Truncated,
	}
	switch res.Kind {
	case classify.KindEmpty:
		// A title over an otherwise empty body still gets its heading.
		if extracted.Title == "" {
			return models.Block{}, false
		}
	case classify.KindTable:
		block.Markdown = output.MakeTable(extracted.Rows, opts.tableOptions())
	case classify.KindDiagram:
		block.Graph = res.Graph
		block.Markdown = output.RenderMermaid(res.Graph, opts.MermaidDirection)
		if opts.ShouldKeepSourceTable() {
			block.Markdown += "\n\n" + output.MakeTable(extracted.Rows, opts.tableOptions())
		}
	default:
		block.Markdown = res.Payload
	}
	return block, true
}

// shapeDiagramBlock builds one sheet-level Mermaid block from drawing shapes.
func shapeDiagramBlock(wb *parser.Workbook, sheet *parser.Sheet, opts Options) (models.Block, bool) {
	nodes, edges, err := parser.ExtractFlowShapes(wb.Path(), sheet.Name(), sheet.DisplayText)
	if err != nil {
		log.Warn(NewConversionError(sheet.Name(), "shapes", err))
		return models.Block{}, false
	}
	graph := classify.BuildShapeGraph(nodes, edges, opts.Classifier)
	if graph == nil {
		return models.Block{}, false
	}
	return models.Block{
		Kind:     models.BlockDiagram,
		Markdown: output.RenderMermaid(graph, opts.MermaidDirection),
		Graph:    graph,
	}, true
}

// areaGrid dumps the raw display text of an area, row by row.
func areaGrid(sheet sheetCells, area models.Area) [][]string {
	rows := make([][]string, 0, area.Rows())
	for row := area.MinRow; row <= area.MaxRow; row++ {
		line := make([]string, 0, area.Cols())
		for col := area.MinCol; col <= area.MaxCol; col++ {
			line = append(line, sheet.DisplayText(row, col))
		}
		rows = append(rows, line)
	}
	return rows
}

// areaRef formats an area in A1 notation.
func areaRef(area models.Area) string {
	start, err1 := excelize.CoordinatesToCellName(area.MinCol, area.MinRow)
	end, err2 := excelize.CoordinatesToCellName(area.MaxCol, area.MaxRow)
	if err1 != nil || err2 != nil {
		return fmt.Sprintf("R%dC%d:R%dC%d", area.MinRow, area.MinCol, area.MaxRow, area.MaxCol)
	}
	return start + ":" + end
}


// RenderDocument renders the converted document as a single Markdown string.
// Sheets are separated by horizontal rules; with book-scoped footnotes the
// footnote definitions come once at the end.
func RenderDocument(doc *models.Document, opts Options) string {
	var b strings.Builder
	b.WriteString("# " + doc.BookName + "\n")

	var bookNotes []models.Footnote
	first := true
	for _, sheet := range doc.Sheets {
		if sheet.Skipped {
			continue
		}
		if !first {
			b.WriteString("\n---\n")
		}
		first = false
		b.WriteString("\n## " + sheet.Name + "\n")
		renderSheetBody(&b, sheet, opts)
		if opts.FootnoteScope == ScopeSheet {
			renderFootnotes(&b, sheet.Footnotes)
		} else {
			bookNotes = append(bookNotes, sheet.Footnotes...)
		}
	}
	if opts.FootnoteScope != ScopeSheet {
		renderFootnotes(&b, bookNotes)
	}
	return b.String()
}

// RenderSheet renders one sheet section on its own, for split-by-sheet
// output. Footnotes collected for the sheet are always emitted.
func RenderSheet(doc *models.Document, sheet models.SheetResult, opts Options) string {
	var b strings.Builder
	b.WriteString("# " + doc.BookName + " — " + sheet.Name + "\n")
	if !sheet.Skipped {
		renderSheetBody(&b, sheet, opts)
		renderFootnotes(&b, sheet.Footnotes)
	}
	return b.String()
}

func renderSheetBody(b *strings.Builder, sheet models.SheetResult, opts Options) {
	for _, block := range sheet.Blocks {
		b.WriteString("\n")
		if block.Title != "" {
			b.WriteString("### " + block.Title + "\n\n")
		}
		b.WriteString(block.Markdown)
		b.WriteString("\n")
		if block.Truncated {
			b.WriteString("\n*(table truncated)*\n")
		}
	}
	for _, section := range sheet.CSV {
		b.WriteString("\n### CSV " + section.Range + "\n\n")
		b.WriteString("```csv\n" + section.CSV + "```\n")
	}
}

func renderFootnotes(b *strings.Builder, notes []models.Footnote) {
	if len(notes) == 0 {
		return
	}
	b.WriteString("\n")
	for _, n := range notes {
		fmt.Fprintf(b, "[^%d]: %s\n", n.Index, n.Target)
	}
}
