package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/harbordesk/sof-extractor/constants"
)

// extractDOCX reads word/document.xml from the OOXML archive and joins
// paragraph text with newlines. No layout or table awareness.
func (e *Extractor) extractDOCX(path string) (Result, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Result{Format: constants.DOCX}, fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	var doc *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return Result{Format: constants.DOCX}, fmt.Errorf("docx: word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return Result{Format: constants.DOCX}, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	text, err := docxParagraphs(rc)
	if err != nil {
		return Result{Format: constants.DOCX}, fmt.Errorf("parse document.xml: %w", err)
	}
	return Result{Text: text, Pages: 1, Format: constants.DOCX, Method: "docx"}, nil
}

// docxParagraphs walks the WordprocessingML token stream collecting the text
// runs (<w:t>) of each paragraph (<w:p>).
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
