package docpipe

import (
	"os"
	"strings"
	"unicode"
)

// extractText keeps every non-blank line of a plain text transcription as its
// own block. Line boundaries matter for letters, so nothing is reflowed.
func extractText(path string) (string, []Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	var blocks []Block
	for _, line := range splitLines(string(data)) {
		if line = collapseSpaces(line); line != "" {
			blocks = append(blocks, Block{Kind: KindLine, Text: line})
		}
	}
	return "", blocks, nil
}

// extractMarkdown reads ATX headings as heading blocks and every other
// non-blank line as a line block.
func extractMarkdown(path string) (string, []Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var blocks []Block
	var title string
	for _, line := range splitLines(string(data)) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if level := headingLevel(trimmed); level > 0 {
			text := strings.TrimSpace(strings.Trim(trimmed, "#"))
			if text == "" {
				continue
			}
			if title == "" {
				title = text
			}
			blocks = append(blocks, Block{Kind: KindHeading, Level: level, Text: text})
			continue
		}
		blocks = append(blocks, Block{Kind: KindLine, Text: collapseSpaces(trimmed)})
	}
	return title, blocks, nil
}

// headingLevel returns the ATX heading level of line, or 0. "#hashtag" is
// not a heading.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0
	}
	if level < len(line) && line[level] != ' ' && line[level] != '\t' {
		return 0
	}
	return level
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// collapseSpaces turns runs of whitespace into one space, including newlines.
func collapseSpaces(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		sb.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(sb.String())
}

// collapseLines collapses spaces inside each line and drops blank lines.
func collapseLines(text string) string {
	var out []string
	for _, line := range splitLines(text) {
		if line = collapseSpaces(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
