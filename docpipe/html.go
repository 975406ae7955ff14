// CLAUDE:SUMMARY Extracts visible text blocks (headings, paragraphs, tables, lists) from HTML transcriptions.
package docpipe

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0(?:[^.1-9]|$)`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0(?:[^.]|$)`),
}

// skipped reports whether the subtree of n carries no transcribed text.
func skipped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
		return true
	}
	if _, ok := attrValue(n, "hidden"); ok {
		return true
	}
	style, _ := attrValue(n, "style")
	for _, pat := range hiddenStylePatterns {
		if pat.MatchString(style) {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func extractHTMLFile(path string) (string, []Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", nil, err
	}

	var blocks []Block
	collectBlocks(doc, &blocks)
	if len(blocks) == 0 {
		if text := htmlText(doc); text != "" {
			blocks = append(blocks, Block{Kind: KindParagraph, Text: text})
		}
	}
	return htmlTitle(doc), blocks, nil
}

func htmlTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := htmlTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// collectBlocks walks the tree and turns block-level elements into blocks.
// Text outside any block element is ignored unless no block is found.
func collectBlocks(n *html.Node, blocks *[]Block) {
	if skipped(n) {
		return
	}
	if n.Type == html.ElementNode {
		kind, level := KindParagraph, 0
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			kind, level = KindHeading, int(n.Data[1]-'0')
		case atom.P, atom.Blockquote, atom.Pre:
		case atom.Table:
			kind = KindTable
		case atom.Ul, atom.Ol:
			kind = KindList
		default:
			kind = ""
		}
		if kind != "" {
			if text := htmlText(n); text != "" {
				*blocks = append(*blocks, Block{Kind: kind, Level: level, Text: text})
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, blocks)
	}
}

// htmlText returns the visible text under n. <br> and block boundaries
// become line breaks.
func htmlText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br, atom.Li, atom.Tr, atom.Div, atom.P:
				sb.WriteByte('\n')
			case atom.Td, atom.Th:
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseLines(sb.String())
}
