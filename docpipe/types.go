// CLAUDE:SUMMARY Format, Block and Document types produced by transcription extraction.
package docpipe

// Format identifies a transcription file type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatODT  Format = "odt"
	FormatPDF  Format = "pdf"
	FormatMD   Format = "md"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// BlockKind is the structural role of a Block.
type BlockKind string

const (
	KindHeading   BlockKind = "heading"
	KindParagraph BlockKind = "paragraph"
	KindLine      BlockKind = "line"
	KindList      BlockKind = "list"
	KindTable     BlockKind = "table"
	KindPage      BlockKind = "page"
)

// Block is one unit of transcribed text. Line breaks of the source are kept
// inside Text as '\n'.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"` // heading level 1-6
	Page  int       `json:"page,omitempty"`  // 1-based, PDF only
	Text  string    `json:"text"`
}

// Document is the text extracted from one transcription file.
type Document struct {
	Path    string             `json:"path"`
	Format  Format             `json:"format"`
	Title   string             `json:"title,omitempty"`
	Blocks  []Block            `json:"blocks"`
	Text    string             `json:"text"`              // blocks joined by newlines
	Quality *ExtractionQuality `json:"quality,omitempty"` // PDF only
}

// Empty reports whether the document carries no text at all.
func (d *Document) Empty() bool { return d == nil || d.Text == "" }
