package cterm

import (
	"regexp"
	"strings"
)

// SearchResult is one match from Find: Line is an absolute line number in
// the same convention as VisibleRowToAbsoluteLine/GetCellWithScrollback (0
// is the oldest scrollback row, ascending through scrollback into the
// visible grid), and StartCol/EndCol bound the matched run of runes on
// that line (EndCol exclusive).
type SearchResult struct {
	Line     int
	StartCol int
	EndCol   int
}

// Find searches the scrollback and visible screen for pattern, returning
// every match in a single pass. Line numbers are absolute (see
// SearchResult), so a match found in scrollback and a match found on
// screen compare and sort the same way a caller would expect scrolling
// between them to work.
//
// When useRegex is true, pattern is compiled as a Go regular expression and
// matched against each line's text; overlapping matches are not reported.
// When caseSensitive is false, matching is done case-insensitively (the
// pattern is lowercased for plain search, or wrapped in "(?i)" for regex).
func (t *Screen) Find(pattern string, caseSensitive, useRegex bool) []SearchResult {
	if pattern == "" {
		return nil
	}

	if useRegex {
		expr := pattern
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil
		}
		return t.findRegex(re)
	}

	needle := pattern
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}
	return t.findPlain(needle, caseSensitive)
}

func (t *Screen) findPlain(needle string, caseSensitive bool) []SearchResult {
	var matches []SearchResult

	t.mu.RLock()
	rows := t.rows
	scrollbackLen := t.primaryGrid.ScrollbackLen()
	t.mu.RUnlock()

	for i := 0; i < scrollbackLen; i++ {
		line := scrollbackLineText(t.ScrollbackLine(i))
		matches = append(matches, substringMatches(line, needle, caseSensitive, i)...)
	}

	for row := 0; row < rows; row++ {
		line := t.LineContent(row)
		absRow := scrollbackLen + row
		matches = append(matches, substringMatches(line, needle, caseSensitive, absRow)...)
	}

	return matches
}

func (t *Screen) findRegex(re *regexp.Regexp) []SearchResult {
	var matches []SearchResult

	t.mu.RLock()
	rows := t.rows
	scrollbackLen := t.primaryGrid.ScrollbackLen()
	t.mu.RUnlock()

	for i := 0; i < scrollbackLen; i++ {
		line := scrollbackLineText(t.ScrollbackLine(i))
		matches = append(matches, regexMatches(re, line, i)...)
	}

	for row := 0; row < rows; row++ {
		line := t.LineContent(row)
		absRow := scrollbackLen + row
		matches = append(matches, regexMatches(re, line, absRow)...)
	}

	return matches
}

func substringMatches(line, needle string, caseSensitive bool, row int) []SearchResult {
	haystack := line
	if !caseSensitive {
		haystack = strings.ToLower(haystack)
	}

	var out []SearchResult
	lineRunes := []rune(haystack)
	needleRunes := []rune(needle)

	for col := 0; col <= len(lineRunes)-len(needleRunes); col++ {
		match := true
		for i, r := range needleRunes {
			if lineRunes[col+i] != r {
				match = false
				break
			}
		}
		if match {
			out = append(out, SearchResult{Line: row, StartCol: col, EndCol: col + len(needleRunes)})
		}
	}
	return out
}

func regexMatches(re *regexp.Regexp, line string, row int) []SearchResult {
	var out []SearchResult
	for _, loc := range re.FindAllStringIndex(line, -1) {
		startCol := len([]rune(line[:loc[0]]))
		endCol := len([]rune(line[:loc[1]]))
		out = append(out, SearchResult{Line: row, StartCol: startCol, EndCol: endCol})
	}
	return out
}

func scrollbackLineText(cells []Cell) string {
	var b strings.Builder
	for _, cell := range cells {
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(cell.Char)
		}
	}
	return b.String()
}
