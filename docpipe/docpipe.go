// CLAUDE:SUMMARY Extractor that dispatches transcription extraction by format (docx, odt, pdf, md, txt, html).
// Package docpipe extracts the text of full letter transcriptions.
//
// Supported formats:
//   - .docx: Word (zip, word/document.xml)
//   - .odt: OpenDocument Text (zip, content.xml)
//   - .pdf: text layer via pdfcpu, with quality scoring
//   - .md: Markdown, headings and lines
//   - .txt: plain text, one block per line
//   - .html: visible text of the body
//
// Usage:
//
//	ext := docpipe.New(docpipe.Config{})
//	doc, err := ext.Extract(ctx, "/data/transcripts/1042.docx")
//	fmt.Println(len(doc.Blocks), "blocks")
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Extractor turns transcription files into Documents.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect returns the format of path from its extension.
func (e *Extractor) Detect(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx":
		return FormatDocx, nil
	case ".odt":
		return FormatODT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Extract reads path and returns its text. PDFs carry quality metrics; the
// caller decides what to do with a low-quality text layer (see Usable).
func (e *Extractor) Extract(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > e.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), e.cfg.MaxFileSize)
	}

	format, err := e.Detect(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("docpipe: extracting", "path", path, "format", format)

	doc := &Document{Path: path, Format: format}
	switch format {
	case FormatDocx:
		doc.Title, doc.Blocks, err = extractDocx(path)
	case FormatODT:
		doc.Title, doc.Blocks, err = extractODT(path)
	case FormatPDF:
		doc.Blocks, doc.Quality, err = extractPDF(path)
	case FormatMD:
		doc.Title, doc.Blocks, err = extractMarkdown(path)
	case FormatTXT:
		doc.Title, doc.Blocks, err = extractText(path)
	case FormatHTML:
		doc.Title, doc.Blocks, err = extractHTMLFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}

	texts := make([]string, len(doc.Blocks))
	for i, b := range doc.Blocks {
		texts[i] = b.Text
	}
	doc.Text = strings.Join(texts, "\n")
	if doc.Title == "" {
		doc.Title = firstLine(doc.Text)
	}
	return doc, nil
}

// Usable reports why doc cannot serve as a transcription, or nil.
func (e *Extractor) Usable(doc *Document) error {
	if doc.Empty() {
		return ErrNoText
	}
	if doc.Quality != nil && doc.Quality.NeedsOCR() && !e.cfg.KeepOCRCandidates {
		return fmt.Errorf("%w: printable ratio %.2f, %.0f chars/page",
			ErrNeedsOCR, doc.Quality.PrintableRatio, doc.Quality.CharsPerPage)
	}
	return nil
}

// SupportedFormats returns all supported format extensions.
func SupportedFormats() []string {
	return []string{"docx", "odt", "pdf", "md", "txt", "html"}
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > 200 {
		text = string(r[:200])
	}
	return text
}
