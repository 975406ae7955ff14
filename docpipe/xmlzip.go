package docpipe

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// maxXMLDepth bounds element nesting in office documents.
const maxXMLDepth = 256

// maxXMLMember bounds the decompressed size of one archive member.
const maxXMLMember = 256 << 20

var errXMLDepth = errors.New("xml nesting depth exceeded")

// readZipMember opens the member name of the archive at path and feeds its
// XML tokens to fn.
func readZipMember(path, name string, fn func(xml.Token)) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var member *zip.File
	for _, f := range r.File {
		if f.Name == name {
			member = f
			break
		}
	}
	if member == nil {
		return fmt.Errorf("%s not found in archive", name)
	}

	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	return walkXML(io.LimitReader(rc, maxXMLMember), fn)
}

// walkXML decodes r token by token, rejecting documents nested deeper than
// maxXMLDepth.
func walkXML(r io.Reader, fn func(xml.Token)) error {
	dec := xml.NewDecoder(r)
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode xml: %w", err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return fmt.Errorf("%w (max %d)", errXMLDepth, maxXMLDepth)
			}
		case xml.EndElement:
			depth--
		}
		fn(tok)
	}
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
