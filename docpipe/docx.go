package docpipe

import (
	"encoding/xml"
	"strings"
)

// extractDocx reads the paragraphs of word/document.xml. Text runs (w:t) are
// concatenated, w:tab becomes a space and w:br/w:cr a line break.
func extractDocx(path string) (string, []Block, error) {
	var (
		blocks []Block
		title  string
		cur    strings.Builder
		inPara bool
		inText bool
		style  string
	)

	err := readZipMember(path, "word/document.xml", func(tok xml.Token) {
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
				style = ""
			case "pStyle":
				style = attr(t, "val")
			case "t":
				inText = inPara
			case "tab":
				if inPara {
					cur.WriteByte(' ')
				}
			case "br", "cr":
				if inPara {
					cur.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				cur.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if !inPara {
					return
				}
				inPara = false
				text := collapseLines(cur.String())
				if text == "" {
					return
				}
				if level := docxHeadingLevel(style); level > 0 {
					if title == "" {
						title = text
					}
					blocks = append(blocks, Block{Kind: KindHeading, Level: level, Text: text})
					return
				}
				blocks = append(blocks, Block{Kind: KindParagraph, Text: text})
			}
		}
	})
	if err != nil {
		return "", nil, err
	}
	return title, blocks, nil
}

// docxHeadingLevel maps a paragraph style to a heading level: "Title" and
// "Heading1" are 1, "Subtitle" is 2, localized "Titlu2" is 2, body is 0.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)
	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	for _, prefix := range []string{"heading", "titlu", "titre", "überschrift"} {
		rest, ok := strings.CutPrefix(lower, prefix)
		if ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}
