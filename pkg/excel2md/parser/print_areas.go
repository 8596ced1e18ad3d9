package parser

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// NoPrintAreaMode selects the fallback range when a sheet declares no
// print area.
type NoPrintAreaMode string

const (
	// FallbackUsedRange processes the sheet's used range.
	FallbackUsedRange NoPrintAreaMode = "used_range"
	// FallbackEntireSheet processes the entire used range padded to A1.
	FallbackEntireSheet NoPrintAreaMode = "entire_sheet_range"
	// FallbackSkipSheet skips the sheet entirely.
	FallbackSkipSheet NoPrintAreaMode = "skip_sheet"
)

// ExtractPrintAreas collects declared print areas from workbook defined
// names, keyed by sheet name. Multi-range print areas yield multiple
// entries per sheet.
func ExtractPrintAreas(f *excelize.File) map[string][]models.Area {
	result := make(map[string][]models.Area)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheet, areas := parsePrintAreaReference(dn.RefersTo)
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses a defined-name reference such as
// 'Sheet 1'!$A$1:$D$10,'Sheet 1'!$F$1:$H$5.
func parsePrintAreaReference(ref string) (string, []models.Area) {
	var sheetName string
	var areas []models.Area
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.Trim(part[:idx], "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if area, ok := parseRangeToArea(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}
	return sheetName, areas
}

func parseRangeToArea(rangeStr string) (models.Area, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")
	parts := strings.Split(rangeStr, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.Area{}, false
	}
	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.Area{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.Area{}, false
	}
	return models.Area{MinRow: startRow, MinCol: startCol, MaxRow: endRow, MaxCol: endCol}, true
}

// PrintAreas returns the ranges to process for one sheet: its declared
// print areas validated against the used range, or the fallback selected by
// mode when none are declared. A nil result with ok=true means the sheet
// should be skipped.
func (s *Sheet) PrintAreas(declared []models.Area, mode NoPrintAreaMode) (areas []models.Area, skip bool) {
	used := s.UsedRange()
	for _, a := range declared {
		if !a.Intersects(used) {
			log.Warnf("sheet %q: print area %v lies outside the used range, ignoring", s.name, a)
			continue
		}
		clipped := a.Clip(used)
		if clipped != a {
			log.Warnf("sheet %q: print area %v clamped to used range", s.name, a)
		}
		areas = append(areas, clipped)
	}
	if len(areas) > 0 {
		return areas, false
	}
	switch mode {
	case FallbackSkipSheet:
		log.Infof("sheet %q: no print area declared, skipping", s.name)
		return nil, true
	case FallbackEntireSheet:
		return []models.Area{{MinRow: 1, MinCol: 1, MaxRow: used.MaxRow, MaxCol: used.MaxCol}}, false
	default:
		return []models.Area{used}, false
	}
}
