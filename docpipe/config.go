// CLAUDE:SUMMARY Configuration struct and defaults for transcription extraction.
package docpipe

import "log/slog"

// Config configures the extractor.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// KeepOCRCandidates keeps PDFs whose text layer looks unusable instead of
	// reporting them as missing transcriptions.
	KeepOCRCandidates bool `json:"keep_ocr_candidates" yaml:"keep_ocr_candidates"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
