package parser

import (
	"testing"
)

const flowDrawingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>1</xdr:col><xdr:row>1</xdr:row></xdr:from>
    <xdr:to><xdr:col>3</xdr:col><xdr:row>2</xdr:row></xdr:to>
    <xdr:sp>
      <xdr:nvSpPr><xdr:cNvPr id="2" name="Shape 2"/></xdr:nvSpPr>
      <xdr:spPr><a:prstGeom prst="flowChartTerminator"/></xdr:spPr>
      <xdr:txBody><a:p><a:r><a:t>Start</a:t></a:r></a:p></xdr:txBody>
    </xdr:sp>
  </xdr:twoCellAnchor>
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>1</xdr:col><xdr:row>5</xdr:row></xdr:from>
    <xdr:to><xdr:col>3</xdr:col><xdr:row>6</xdr:row></xdr:to>
    <xdr:sp>
      <xdr:nvSpPr><xdr:cNvPr id="3" name="Shape 3"/></xdr:nvSpPr>
      <xdr:spPr><a:prstGeom prst="flowChartDecision"/></xdr:spPr>
      <xdr:txBody><a:p><a:r><a:t>OK?</a:t></a:r></a:p></xdr:txBody>
    </xdr:sp>
  </xdr:twoCellAnchor>
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>2</xdr:col><xdr:row>3</xdr:row></xdr:from>
    <xdr:to><xdr:col>2</xdr:col><xdr:row>5</xdr:row></xdr:to>
    <xdr:cxnSp>
      <xdr:nvCxnSpPr>
        <xdr:cNvPr id="4" name="Connector 1"/>
        <xdr:cNvCxnSpPr>
          <a:stCxn id="2" idx="2"/>
          <a:endCxn id="3" idx="0"/>
        </xdr:cNvCxnSpPr>
      </xdr:nvCxnSpPr>
      <xdr:spPr><a:prstGeom prst="straightConnector1"/></xdr:spPr>
    </xdr:cxnSp>
  </xdr:twoCellAnchor>
</xdr:wsDr>`

func TestParseFlowDrawing(t *testing.T) {
	shapes := parseFlowDrawing([]byte(flowDrawingXML))
	if len(shapes) != 3 {
		t.Fatalf("Expected 3 parsed shapes, got %d", len(shapes))
	}

	nodes, edges, err := buildShapeNodes(shapes, nil)
	if err != nil {
		t.Fatalf("buildShapeNodes failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Display != "Start" || nodes[0].Kind != "terminator" {
		t.Errorf("unexpected first node: %+v", nodes[0])
	}
	if nodes[1].Display != "OK?" || nodes[1].Kind != "decision" {
		t.Errorf("unexpected second node: %+v", nodes[1])
	}
	if !nodes[0].HasAnchor || nodes[0].Row != 1.5 || nodes[0].Col != 2 {
		t.Errorf("unexpected anchor center: %+v", nodes[0])
	}

	if len(edges) != 1 {
		t.Fatalf("Expected 1 connector edge, got %d", len(edges))
	}
	if edges[0].From != "s2" || edges[0].To != "s3" {
		t.Errorf("unexpected edge: %+v", edges[0])
	}
}

func TestBuildShapeNodesCellTextFallback(t *testing.T) {
	shapes := []drawnShape{{
		excelID: "5", name: "Shape 5", prst: "rect",
		fromRow: 2, fromCol: 2, toRow: 3, toCol: 3, hasAnchor: true,
	}}
	textAt := func(row, col int) string {
		if row == 3 && col == 3 {
			return "Review step"
		}
		return ""
	}
	nodes, _, err := buildShapeNodes(shapes, textAt)
	if err != nil {
		t.Fatalf("buildShapeNodes failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Display != "Review step" {
		t.Errorf("Expected nearby cell text, got %q", nodes[0].Display)
	}
	if nodes[0].Kind != "process" {
		t.Errorf("Expected process kind for rect, got %q", nodes[0].Kind)
	}
}

func TestBuildShapeNodesCellTextAboveAnchor(t *testing.T) {
	shapes := []drawnShape{{
		excelID: "7", name: "Shape 7", prst: "rect",
		fromRow: 2, fromCol: 2, toRow: 3, toCol: 3, hasAnchor: true,
	}}
	// Label sits one cell above and one cell left of the anchor box.
	textAt := func(row, col int) string {
		if row == 2 && col == 2 {
			return "Approve request"
		}
		return ""
	}
	nodes, _, err := buildShapeNodes(shapes, textAt)
	if err != nil {
		t.Fatalf("buildShapeNodes failed: %v", err)
	}
	if nodes[0].Display != "Approve request" {
		t.Errorf("Expected text above the anchor, got %q", nodes[0].Display)
	}
}

func TestBuildShapeNodesNameFallback(t *testing.T) {
	shapes := []drawnShape{{
		excelID: "6", name: "Decision 1", prst: "diamond",
		fromRow: 1, fromCol: 1, toRow: 1, toCol: 1, hasAnchor: true,
	}}
	nodes, _, err := buildShapeNodes(shapes, func(int, int) string { return "" })
	if err != nil {
		t.Fatalf("buildShapeNodes failed: %v", err)
	}
	if nodes[0].Display != "Decision 1" {
		t.Errorf("Expected shape name fallback, got %q", nodes[0].Display)
	}
}

func TestBuildShapeNodesDropsDanglingConnectors(t *testing.T) {
	shapes := []drawnShape{
		{excelID: "2", name: "A", prst: "rect", text: "A", hasAnchor: true},
		{isConnector: true, startCxnID: "2", endCxnID: "99"},
	}
	_, edges, err := buildShapeNodes(shapes, nil)
	if err != nil {
		t.Fatalf("buildShapeNodes failed: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("Expected dangling connector dropped, got %v", edges)
	}
}
