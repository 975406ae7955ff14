// CLAUDE:SUMMARY Extracts text from .odt (OpenDocument) transcriptions by parsing content.xml.
package docpipe

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// extractODT reads text:h and text:p elements of content.xml. text:s and
// text:tab become spaces, text:line-break a line break.
func extractODT(path string) (string, []Block, error) {
	var (
		blocks    []Block
		title     string
		cur       strings.Builder
		open      int // depth of nested text:h / text:p
		level     int
		listDepth int
	)

	err := readZipMember(path, "content.xml", func(tok xml.Token) {
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "h":
				if open == 0 {
					cur.Reset()
					level = 1
					if n, err := strconv.Atoi(attr(t, "outline-level")); err == nil && n > 0 {
						level = n
					}
				}
				open++
			case "p":
				if open == 0 {
					cur.Reset()
					level = 0
				}
				open++
			case "list":
				listDepth++
			case "s", "tab":
				if open > 0 {
					cur.WriteByte(' ')
				}
			case "line-break":
				if open > 0 {
					cur.WriteByte('\n')
				}
			}

		case xml.CharData:
			if open > 0 {
				cur.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "list":
				listDepth--
			case "h", "p":
				if open == 0 {
					return
				}
				open--
				if open > 0 {
					return
				}
				text := collapseLines(cur.String())
				switch {
				case text == "":
				case level > 0:
					if title == "" {
						title = text
					}
					blocks = append(blocks, Block{Kind: KindHeading, Level: level, Text: text})
				case listDepth > 0:
					blocks = append(blocks, Block{Kind: KindList, Text: text})
				default:
					blocks = append(blocks, Block{Kind: KindParagraph, Text: text})
				}
			}
		}
	})
	if err != nil {
		return "", nil, err
	}
	return title, blocks, nil
}
