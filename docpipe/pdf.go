// CLAUDE:SUMMARY PDF text-layer extractor using pdfcpu: one block per page plus quality scoring.
// CLAUDE:DEPENDS docpipe/quality.go
package docpipe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// extractPDF returns one KindPage block per page with text and the quality
// metrics of the whole text layer. Scanned letters usually have no text
// layer; they come back with ErrNoText.
func extractPDF(path string) ([]Block, *ExtractionQuality, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var blocks []Block
	var all strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		text := pageText(ctx, pageNr)
		if text == "" {
			continue
		}
		blocks = append(blocks, Block{Kind: KindPage, Page: pageNr, Text: text})
		if all.Len() > 0 {
			all.WriteByte('\n')
		}
		all.WriteString(text)
	}
	if len(blocks) == 0 {
		return nil, nil, ErrNoText
	}
	return blocks, measure(all.String(), ctx.PageCount, hasImageStreams(ctx)), nil
}

func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromStream(data)
}

// hasImageStreams reports whether any page references an image XObject.
func hasImageStreams(ctx *model.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, ok := subtype.(types.Name); ok && name == "Image" {
				return true
			}
		}
	}
	return false
}

// pdfStringRe matches PDF string literals: (text here)
var pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// textFromStream reads the show-text operators (Tj, TJ, ') of a content
// stream. Line-moving operators (T*, ', TD/Td with a vertical offset) end
// the current line.
func textFromStream(data []byte) string {
	var sb strings.Builder
	for line := range bytes.SplitSeq(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch op := string(fields[len(fields)-1]); op {
		case "Tj", "TJ":
			writeStrings(&sb, line)
		case "'", `"`:
			sb.WriteByte('\n')
			writeStrings(&sb, line)
		case "T*":
			sb.WriteByte('\n')
		case "Td", "TD":
			if len(fields) == 3 && !bytes.Equal(fields[1], []byte("0")) {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return cleanPDFText(sb.String())
}

func writeStrings(sb *strings.Builder, line []byte) {
	for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
		sb.WriteString(decodePDFString(m[1]))
	}
}

// decodePDFString resolves the escape sequences of a literal string.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 == len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := int(c - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// cleanPDFText drops non-printable runes and collapses spaces inside lines.
func cleanPDFText(text string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsSpace(r) || unicode.IsPrint(r) || isGarbageRune(r) {
			return r
		}
		return -1
	}, text)
	return collapseLines(clean)
}
