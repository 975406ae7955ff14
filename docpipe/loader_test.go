package docpipe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "101.txt", "Dragă frate,\nsunt bine.")
	if err := os.Mkdir(filepath.Join(dir, "102"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "102"), "b.md", "# pagina 2\nfinal")
	writeFile(t, filepath.Join(dir, "102"), "a.txt", "pagina 1")
	writeFile(t, filepath.Join(dir, "102"), "scan.tiff", "ignored")
	writeFile(t, dir, "103.tiff", "not a transcription")
	writeFile(t, dir, "104.pdf", "not a pdf")
	writeFile(t, dir, "106.txt", "  \n\n")
	writeFile(t, dir, "999.txt", "fără an")
	writeFile(t, dir, ".hidden.txt", "skip")

	l := NewLoader(New(Config{}), nil)
	res, err := l.Load(context.Background(), dir, []string{"101", "102", "103", "104", "105", "106"})
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, tr := range res.Transcriptions {
		got = append(got, tr.Collection)
	}
	if len(got) != 3 || got[0] != "101" || got[1] != "102" || got[2] != "999" {
		t.Fatalf("transcriptions = %v", got)
	}
	if res.Transcriptions[1].Text != "pagina 1\npagina 2\nfinal" {
		t.Errorf("directory transcription = %q", res.Transcriptions[1].Text)
	}
	if len(res.Transcriptions[1].Sources) != 2 {
		t.Errorf("sources = %v", res.Transcriptions[1].Sources)
	}

	var missing []string
	for _, m := range res.Missing {
		missing = append(missing, m.Collection)
		if !errors.Is(m, ErrMissingTranscription) {
			t.Errorf("%s: %v does not match ErrMissingTranscription", m.Collection, m)
		}
	}
	want := []string{"103", "104", "105", "106"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("missing = %v, want %v", missing, want)
		}
	}
	if res.Missing[1].Path == "" {
		t.Error("failed extraction should name its file")
	}
	if !errors.Is(res.Missing[3], ErrNoText) {
		t.Errorf("blank file: %v", res.Missing[3])
	}
}

func TestLoader_MissingDir(t *testing.T) {
	l := NewLoader(New(Config{}), nil)
	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "none"), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoader_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.txt", "text")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(New(Config{}), nil).Load(ctx, dir, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

// WHAT: a usable PDF text that cites plates present only as images.
// WHY: the transcription is kept, but the operator is told that those
// passages are missing from it.
func TestLoader_CheckVisualGap(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoader(New(Config{}), slog.New(slog.NewTextHandler(&buf, nil)))

	doc := &Document{
		Path: "/data/t/1042.pdf",
		Text: "Vezi planșa 3 și figura 2.",
		Quality: &ExtractionQuality{
			PageCount:       1,
			CharsPerPage:    900,
			PrintableRatio:  1,
			HasImageStreams: true,
			VisualRefCount:  2,
		},
	}
	if err := l.check("1042", doc); err != nil {
		t.Fatalf("check: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "outside its text layer") || !strings.Contains(out, "collection_id=1042") {
		t.Errorf("no visual gap warning in %q", out)
	}

	buf.Reset()
	doc.Quality.HasImageStreams = false
	if err := l.check("1042", doc); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output %q", buf.String())
	}

	if err := l.check("1043", &Document{}); !errors.Is(err, ErrNoText) {
		t.Errorf("empty document: err = %v, want ErrNoText", err)
	}
}
