package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbordesk/sof-extractor/constants"
)

// stubRunner replays canned responses per command name. When pdftoppm is
// invoked it drops fake page images under the requested prefix so the OCR
// path has files to glob.
type stubRunner struct {
	stdout map[string][]byte
	errs   map[string]error
	calls  []string
	pages  int
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	if name == "pdftoppm" && s.errs["pdftoppm"] == nil {
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			_ = os.WriteFile(prefix+"-"+string(rune('0'+i))+".png", []byte("png"), 0o644)
		}
	}
	if err := s.errs[name]; err != nil {
		return nil, []byte("boom"), err
	}
	return s.stdout[name], nil, nil
}

func TestExtractPDFTextLayer(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	stub := &stubRunner{stdout: map[string][]byte{
		"pdftotext": []byte("1. Loading Commenced: 5 NOV 0700\fpage two"),
	}}
	e.runner = stub

	res, err := e.Extract(context.Background(), "statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, constants.PDF, res.Format)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "Loading Commenced")
	assert.Equal(t, []string{"pdftotext"}, stub.calls)
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	e := NewExtractor(Config{DPI: 150}, nil)
	stub := &stubRunner{
		stdout: map[string][]byte{
			"pdftotext": []byte("   \n  "), // text layer present but blank
			"tesseract": []byte("VESSEL ARRIVED 5 NOV 0700"),
		},
		pages: 2,
	}
	e.runner = stub

	res, err := e.Extract(context.Background(), "scanned.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	// one OCR chunk per page, separated by a page break marker
	assert.Equal(t, 2, strings.Count(res.Text, "VESSEL ARRIVED"))
	assert.Contains(t, res.Text, "\f")
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, stub.calls)
}

func TestExtractPDFBothStrategiesFail(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = &stubRunner{errs: map[string]error{
		"pdftotext": errors.New("exit status 1"),
		"pdftoppm":  errors.New("exit status 1"),
	}}

	_, err := e.Extract(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf text extraction failed")
}

func TestExtractPDFMaxPages(t *testing.T) {
	e := NewExtractor(Config{MaxPages: 1}, nil)
	stub := &stubRunner{
		stdout: map[string][]byte{"tesseract": []byte("page text")},
		errs:   map[string]error{"pdftotext": errors.New("no text layer")},
		pages:  3,
	}
	e.runner = stub

	res, err := e.Extract(context.Background(), "long.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestExtractTXT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sof.txt")
	require.NoError(t, os.WriteFile(path, []byte("2. Vessel Name: MV TEST"), 0o644))

	e := NewExtractor(Config{}, nil)
	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "txt", res.Method)
	assert.Equal(t, constants.TXT, res.Format)
	assert.Equal(t, "2. Vessel Name: MV TEST", res.Text)
}

func TestExtractDOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sof.docx")
	writeDocx(t, path, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>2. Vessel Name: MV OCEAN</w:t></w:r></w:p>
    <w:p><w:r><w:t>7. Loading Commenced: </w:t></w:r><w:r><w:t>5 NOV 0700</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	e := NewExtractor(Config{}, nil)
	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "docx", res.Method)
	assert.Equal(t, "2. Vessel Name: MV OCEAN\n7. Loading Commenced: 5 NOV 0700", res.Text)
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte("<x/>"))
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	e := NewExtractor(Config{}, nil)
	_, err = e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document.xml not found")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	_, err := e.Extract(context.Background(), "image.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("docx"))
	assert.True(t, AllowedExt("txt"))
	assert.False(t, AllowedExt("exe"))
	assert.False(t, AllowedExt(""))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/inbox/.partial.pdf"))
	assert.False(t, IsHidden("/inbox/sof.pdf"))
}

func writeDocx(t *testing.T, path, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}
