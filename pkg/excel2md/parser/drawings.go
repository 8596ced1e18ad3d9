package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/excel2md/excel2md-go/pkg/excel2md/classify"
)

// shapeKindMap maps OOXML preset geometries to diagram node kinds.
var shapeKindMap = map[string]string{
	"flowChartDecision":          "decision",
	"diamond":                    "decision",
	"flowChartTerminator":        "terminator",
	"ellipse":                    "terminator",
	"roundRect":                  "terminator",
	"flowChartInputOutput":       "io",
	"flowChartData":              "io",
	"parallelogram":              "io",
	"flowChartPreparation":       "prep",
	"hexagon":                    "prep",
	"flowChartManualOperation":   "manual",
	"trapezoid":                  "manual",
	"flowChartDocument":          "document",
	"flowChartMultidocument":     "document",
	"flowChartConnector":         "connector",
	"flowChartOffpageConnector":  "connector",
	"flowChartProcess":           "process",
	"flowChartPredefinedProcess": "process",
	"rect":                       "process",
}

// drawnShape is the raw parse of one sp or cxnSp element.
type drawnShape struct {
	excelID     string
	name        string
	prst        string
	text        string
	isConnector bool
	startCxnID  string
	endCxnID    string

	fromRow, fromCol int
	toRow, toCol     int
	hasAnchor        bool
}

// ExtractFlowShapes reads the drawing part attached to a sheet and returns
// the non-connector shapes as diagram node candidates plus the explicit
// connector edges between them. textAt, when non-nil, supplies cell text for
// shapes whose text body is empty; it takes 1-based sheet coordinates. A
// sheet without a drawing part yields empty results and no error.
func ExtractFlowShapes(xlsxPath, sheetName string, textAt func(row, col int) string) ([]classify.ShapeNode, []classify.ShapeEdge, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook archive: %w", err)
	}
	defer r.Close()

	drawingPath := sheetDrawingPath(&r.Reader, sheetName)
	if drawingPath == "" {
		return nil, nil, nil
	}
	data, err := readZipEntry(&r.Reader, drawingPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read drawing %s: %w", drawingPath, err)
	}
	if data == nil {
		return nil, nil, nil
	}

	shapes := parseFlowDrawing(data)
	return buildShapeNodes(shapes, textAt)
}

// buildShapeNodes converts raw parsed shapes into node candidates and
// resolves connector endpoint ids.
func buildShapeNodes(shapes []drawnShape, textAt func(row, col int) string) ([]classify.ShapeNode, []classify.ShapeEdge, error) {
	var nodes []classify.ShapeNode
	var edges []classify.ShapeEdge
	known := make(map[string]struct{})

	for _, sh := range shapes {
		if sh.isConnector {
			continue
		}
		display := sh.text
		if display == "" && sh.hasAnchor && textAt != nil {
			display = nearbyCellText(sh, textAt)
		}
		if display == "" {
			display = sh.name
		}
		if display == "" && !sh.hasAnchor {
			continue
		}
		id := "s" + sh.excelID
		if sh.excelID == "" {
			id = "s_" + strconv.Itoa(len(nodes)+1)
		} else {
			known[sh.excelID] = struct{}{}
		}
		nodes = append(nodes, classify.ShapeNode{
			ShapeID:   id,
			Display:   display,
			Kind:      shapeKind(sh.prst),
			Row:       float64(sh.fromRow+sh.toRow) / 2,
			Col:       float64(sh.fromCol+sh.toCol) / 2,
			HasAnchor: sh.hasAnchor,
		})
	}

	for _, sh := range shapes {
		if !sh.isConnector {
			continue
		}
		if sh.startCxnID == "" || sh.endCxnID == "" {
			continue
		}
		if _, ok := known[sh.startCxnID]; !ok {
			log.Debugf("connector references unknown shape id %s", sh.startCxnID)
			continue
		}
		if _, ok := known[sh.endCxnID]; !ok {
			log.Debugf("connector references unknown shape id %s", sh.endCxnID)
			continue
		}
		edges = append(edges, classify.ShapeEdge{From: "s" + sh.startCxnID, To: "s" + sh.endCxnID})
	}
	return nodes, edges, nil
}

func shapeKind(prst string) string {
	if kind, ok := shapeKindMap[prst]; ok {
		return kind
	}
	return "process"
}

// nearbyCellText scans the cells under the shape's anchor box, padded one
// cell on every side, and picks the most distinctive text: the longest value
// when it has at least four characters, otherwise the first few values
// joined.
func nearbyCellText(sh drawnShape, textAt func(row, col int) string) string {
	var texts []string
	seen := make(map[string]struct{})
	longest := ""
	for row := sh.fromRow - 1; row <= sh.toRow+1; row++ {
		for col := sh.fromCol - 1; col <= sh.toCol+1; col++ {
			if row < 0 || col < 0 {
				continue
			}
			// drawing anchors are 0-based, cells are 1-based
			text := strings.TrimSpace(textAt(row+1, col+1))
			if text == "" {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			texts = append(texts, text)
			if len([]rune(text)) > len([]rune(longest)) {
				longest = text
			}
		}
	}
	if len([]rune(longest)) >= 4 {
		return longest
	}
	if len(texts) > 4 {
		texts = texts[:4]
	}
	return strings.Join(texts, "\n")
}

// parseFlowDrawing walks a drawing XML and collects shapes and connectors.
func parseFlowDrawing(data []byte) []drawnShape {
	var shapes []drawnShape
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
				shapes = append(shapes, parseFlowAnchor(decoder, se.Name.Local)...)
			}
		}
	}
	return shapes
}

// parseFlowAnchor parses one anchor element: its from/to cell coordinates
// and the shapes it contains. Groups are flattened; every shape in a group
// shares the group's anchor.
func parseFlowAnchor(decoder *xml.Decoder, anchorKind string) []drawnShape {
	var shapes []drawnShape
	var fromRow, fromCol, toRow, toCol int
	hasAnchor := false

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				fromCol, fromRow = readMarker(decoder)
				if anchorKind != "absoluteAnchor" {
					hasAnchor = true
				}
				depth--
			case "to":
				toCol, toRow = readMarker(decoder)
				depth--
			case "sp":
				if sh := parseFlowShape(decoder, false); sh != nil {
					shapes = append(shapes, *sh)
				}
				depth--
			case "cxnSp":
				if sh := parseFlowShape(decoder, true); sh != nil {
					shapes = append(shapes, *sh)
				}
				depth--
			case "grpSp":
				shapes = append(shapes, parseFlowGroup(decoder)...)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if toRow < fromRow {
		toRow = fromRow
	}
	if toCol < fromCol {
		toCol = fromCol
	}
	for i := range shapes {
		shapes[i].fromRow, shapes[i].fromCol = fromRow, fromCol
		shapes[i].toRow, shapes[i].toCol = toRow, toCol
		shapes[i].hasAnchor = hasAnchor
	}
	return shapes
}

func parseFlowGroup(decoder *xml.Decoder) []drawnShape {
	var shapes []drawnShape
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "sp":
				if sh := parseFlowShape(decoder, false); sh != nil {
					shapes = append(shapes, *sh)
				}
				depth--
			case "cxnSp":
				if sh := parseFlowShape(decoder, true); sh != nil {
					shapes = append(shapes, *sh)
				}
				depth--
			case "grpSp":
				shapes = append(shapes, parseFlowGroup(decoder)...)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return shapes
}

// parseFlowShape parses one sp or cxnSp element.
func parseFlowShape(decoder *xml.Decoder, isCxnSp bool) *drawnShape {
	sh := drawnShape{isConnector: isCxnSp}
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "id":
						sh.excelID = attr.Value
					case "name":
						sh.name = attr.Value
					}
				}
			case "prstGeom":
				for _, attr := range t.Attr {
					if attr.Name.Local == "prst" {
						sh.prst = attr.Value
					}
				}
			case "stCxn":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						sh.startCxnID = attr.Value
					}
				}
			case "endCxn":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						sh.endCxnID = attr.Value
					}
				}
			case "t":
				if txt, err := readFlatText(decoder); err == nil {
					if sh.text != "" {
						sh.text += "\n"
					}
					sh.text += txt
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	sh.text = strings.TrimSpace(sh.text)
	if !isCxnSp && strings.Contains(strings.ToLower(sh.prst), "connector") && sh.prst != "flowChartConnector" && sh.prst != "flowChartOffpageConnector" {
		sh.isConnector = true
	}
	return &sh
}

// readMarker reads the col/row children of a from or to marker element.
func readMarker(decoder *xml.Decoder) (col, row int) {
	depth := 1
	current := ""
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			current = t.Name.Local
		case xml.CharData:
			if v, err := strconv.Atoi(strings.TrimSpace(string(t))); err == nil {
				switch current {
				case "col":
					col = v
				case "row":
					row = v
				}
			}
		case xml.EndElement:
			depth--
			current = ""
		}
	}
	return col, row
}

func readFlatText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// sheetDrawingPath resolves the drawing part for a sheet by following the
// workbook and worksheet relationship files.
func sheetDrawingPath(r *zip.Reader, sheetName string) string {
	workbookXML, err := readZipEntry(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return ""
	}
	rIDBySheet := parseSheetRelIDs(workbookXML)
	rID, ok := rIDBySheet[sheetName]
	if !ok {
		return ""
	}

	relsXML, err := readZipEntry(r, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return ""
	}
	sheetPath := ""
	forEachRelationship(relsXML, func(id, relType, target string) {
		if id == rID && strings.Contains(strings.ToLower(relType), "worksheet") {
			sheetPath = resolvePartPath(target, "xl")
		}
	})
	if sheetPath == "" {
		return ""
	}

	relsPath := strings.Replace(sheetPath, "worksheets/", "worksheets/_rels/", 1) + ".rels"
	sheetRelsXML, err := readZipEntry(r, relsPath)
	if err != nil || sheetRelsXML == nil {
		return ""
	}
	drawing := ""
	forEachRelationship(sheetRelsXML, func(_, relType, target string) {
		if drawing == "" && strings.Contains(strings.ToLower(relType), "drawing") {
			drawing = resolvePartPath(target, "xl/drawings")
		}
	})
	return drawing
}

func parseSheetRelIDs(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, rID string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					name = attr.Value
				case "id":
					rID = attr.Value
				}
			}
			if name != "" && rID != "" {
				result[name] = rID
			}
		}
	}
	return result
}

func forEachRelationship(data []byte, fn func(id, relType, target string)) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var id, relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					id = attr.Value
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			fn(id, relType, target)
		}
	}
}

func resolvePartPath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	return baseDir + "/" + target
}

func readZipEntry(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}
