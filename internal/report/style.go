package report

import (
	"fmt"
	"regexp"
	"strings"
)

// lineStyle captures the formatting convention of an existing section body
// so replacement lines can be spliced in without disturbing the document's
// look: a common bullet marker, a numbered-list prefix, or plain indent.
type lineStyle struct {
	indent    string
	bullet    string // "-", "*", "•" etc., empty when not bulleted
	numbered  bool
	numStart  int
	numSep    string // ")" or "."
	multiline bool   // original body had more than one non-blank line
}

var (
	bulletLineRe   = regexp.MustCompile(`^(\s*)([-*•>])\s+`)
	numberedLineRe = regexp.MustCompile(`^(\s*)(\d+)([.)])\s+`)
	indentRe       = regexp.MustCompile(`^(\s*)`)
)

// detectLineStyle derives the style from the first non-blank line of the
// existing body, and whether the body spans multiple non-blank lines.
func detectLineStyle(body []string) lineStyle {
	st := lineStyle{numStart: 1, numSep: ")"}
	nonBlank := 0
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonBlank++
		if nonBlank > 1 {
			continue
		}
		if m := numberedLineRe.FindStringSubmatch(line); m != nil {
			st.indent = m[1]
			st.numbered = true
			fmt.Sscanf(m[2], "%d", &st.numStart)
			st.numSep = m[3]
			continue
		}
		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			st.indent = m[1]
			st.bullet = m[2]
			continue
		}
		st.indent = indentRe.FindStringSubmatch(line)[1]
	}
	st.multiline = nonBlank > 1
	return st
}

// applyLineStyle formats replacement lines with the detected prefix or
// indent. Numbered prefixes preserve the original start number and
// increment from it.
func applyLineStyle(st lineStyle, lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case st.numbered:
			out = append(out, fmt.Sprintf("%s%d%s %s", st.indent, st.numStart+i, st.numSep, line))
		case st.bullet != "":
			out = append(out, st.indent+st.bullet+" "+line)
		default:
			out = append(out, st.indent+line)
		}
	}
	return out
}

// styleReplacement turns canonical section text into body lines matching
// the existing style. Multi-line bodies get one sentence per line;
// single-line bodies keep the text whole.
func styleReplacement(st lineStyle, text string) []string {
	var parts []string
	if st.multiline {
		parts = splitSentences(text)
	} else {
		parts = []string{strings.TrimSpace(text)}
	}
	return applyLineStyle(st, parts)
}

// splitSentences splits text at sentence-terminating punctuation, keeping
// the punctuation with its sentence. A terminator followed by a digit does
// not split, so measurements like "1.2 cm" stay intact.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(strings.TrimSpace(text))
	for i, r := range runes {
		cur.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}
