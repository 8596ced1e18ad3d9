package parser

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"golang.org/x/text/unicode/norm"
)

// Characters treated as whitespace beyond the ASCII set: NBSP, the Unicode
// space block, zero-width space, narrow and mathematical spaces, the
// ideographic space and the BOM.
var extraWhitespace = map[rune]struct{}{
	'\u00a0': {}, '\u1680': {},
	'\u2000': {}, '\u2001': {}, '\u2002': {}, '\u2003': {}, '\u2004': {},
	'\u2005': {}, '\u2006': {}, '\u2007': {}, '\u2008': {}, '\u2009': {},
	'\u200a': {}, '\u200b': {}, '\u202f': {}, '\u205f': {}, '\u3000': {},
	'\ufeff': {},
}

func isWhitespaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	_, ok := extraWhitespace[r]
	return ok
}

func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		if !isWhitespaceRune(r) {
			return false
		}
	}
	return true
}

// removeControlChars strips C0 and C1 control characters except tab,
// newline and carriage return.
func removeControlChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cleanDisplayText(raw string, opts CellOptions) string {
	text := norm.NFC.String(raw)
	text = removeControlChars(text)
	if opts.StripWhitespace {
		text = strings.TrimFunc(text, isWhitespaceRune)
	}
	return text
}

// HasFill reports whether the cell carries a visible pattern fill. Solid
// white is treated as no fill: some authoring tools write it as an explicit
// background even though it renders identically to an unfilled cell. Style
// lookup errors resolve to false so a broken style never creates content.
func (s *Sheet) HasFill(row, col int) bool {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	styleID, err := s.file.GetCellStyle(s.name, axis)
	if err != nil {
		log.Debugf("sheet %q cell %s: style lookup failed: %v", s.name, axis, err)
		return false
	}
	style, err := s.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	fill := style.Fill
	if fill.Type == "gradient" && len(fill.Color) > 0 {
		return true
	}
	if fill.Type != "pattern" || fill.Pattern == 0 {
		return false
	}
	if fill.Pattern == 1 && len(fill.Color) > 0 && isWhiteColor(fill.Color[0]) {
		return false
	}
	return true
}

func isWhiteColor(c string) bool {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) > 6 {
		c = c[len(c)-6:]
	}
	return c == "FFFFFF"
}

// BorderSides returns how many of the four sides of a cell have a drawn
// border.
func (s *Sheet) BorderSides(row, col int) int {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return 0
	}
	styleID, err := s.file.GetCellStyle(s.name, axis)
	if err != nil {
		return 0
	}
	style, err := s.file.GetStyle(styleID)
	if err != nil || style == nil {
		return 0
	}
	count := 0
	for _, b := range style.Border {
		switch b.Type {
		case "left", "right", "top", "bottom":
			if b.Style != 0 {
				count++
			}
		}
	}
	return count
}
