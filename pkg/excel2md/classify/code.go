package classify

import (
	"regexp"
	"strings"
)

// codeKeywords is the fixed keyword set for the source-code heuristic.
// Process-wide immutable; never mutated after init.
var codeKeywords = []string{
	"public", "private", "protected", "class", "interface", "import", "package",
	"static", "final", "void", "return", "if", "else", "for", "while", "switch",
	"case", "try", "catch", "throw", "throws", "extends", "implements",
	"def", "function", "var", "let", "const", "async", "await",
	"namespace", "using", "struct", "enum",
}

var codeSymbols = []string{"{", "}", ";", "//", "/*", "*/"}

var annotationRe = regexp.MustCompile(`@[a-zA-Z_][a-zA-Z0-9_]*`)

// IsSourceCode reports whether a single line of text looks like source code:
// an @annotation-shaped token, a language keyword combined with a code
// symbol, or at least two distinct code symbols.
func IsSourceCode(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(text)

	hasAnnotation := strings.Contains(text, "@") && annotationRe.MatchString(text)
	hasKeyword := false
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	hasSymbol := false
	symbolCount := 0
	for _, sym := range codeSymbols {
		if strings.Contains(text, sym) {
			hasSymbol = true
			symbolCount++
		}
	}

	if strings.HasPrefix(trimmed, "@") && len(trimmed) > 1 && isAlnum(rune(trimmed[1])) {
		return true
	}
	if hasAnnotation && (hasKeyword || hasSymbol) {
		return true
	}
	if hasKeyword && hasSymbol {
		return true
	}
	if symbolCount >= 2 {
		return true
	}
	return false
}

func isAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// collectCodeLines scans rows top to bottom, testing each row's first
// non-empty cell against the source-code heuristic. Once one qualifying line
// is found, all subsequent non-empty lines and blank lines are absorbed until
// the table ends. Returns nil when no qualifying line exists.
func collectCodeLines(rows [][]string) []string {
	var lines []string
	inBlock := false

	for _, row := range rows {
		text := ""
		for _, val := range row {
			if strings.TrimSpace(val) != "" {
				text = strings.TrimSpace(val)
				break
			}
		}

		switch {
		case text != "" && IsSourceCode(text):
			lines = append(lines, text)
			inBlock = true
		case inBlock && text != "":
			lines = append(lines, text)
		case inBlock:
			lines = append(lines, "")
		}
	}

	if !inBlock {
		return nil
	}
	return lines
}

// DetectCodeLanguage guesses a fence language tag from keyword clusters.
// Returns "" when no cluster matches.
func DetectCodeLanguage(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	combined := strings.ToLower(strings.Join(lines, " "))

	containsAny := func(markers ...string) bool {
		for _, m := range markers {
			if strings.Contains(combined, m) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("public class", "private class", "import java", "@override", "@annotation"):
		return "java"
	case containsAny("def ", "import ", "from ", "if __name__", "class ") && strings.Contains(combined, ":"):
		return "python"
	case containsAny("function ", "const ", "let ", "var ", "=>", "export "):
		return "javascript"
	case containsAny("namespace ", "using "):
		return "csharp"
	case containsAny("#include", "int main", "printf", "cout"):
		return "c"
	}
	return ""
}

// BuildCodeBlock returns a fenced code block (with detected language tag)
// when the rows look like source code, or "" otherwise.
func BuildCodeBlock(rows [][]string) string {
	lines := collectCodeLines(rows)
	if len(lines) == 0 {
		return ""
	}
	lang := DetectCodeLanguage(lines)
	return "```" + lang + "\n" + strings.Join(lines, "\n") + "\n```"
}
