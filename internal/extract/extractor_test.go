package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractTxt(t *testing.T) {
	e := New()
	text, err := e.Extract([]byte("plain text content"), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "plain text content" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	e := New()
	if _, err := e.Extract([]byte("data"), "sheet.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestExtractExtensionCaseInsensitive(t *testing.T) {
	e := New()
	text, err := e.Extract([]byte("upper"), "NOTES.TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "upper" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	e := New()
	if _, err := e.Extract([]byte("definitely not a pdf"), "broken.pdf"); err == nil {
		t.Error("expected error for invalid PDF bytes")
	}
}

func TestExtractDOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
  </body>
</document>`
	data := buildDocx(t, docXML)

	e := New()
	text, err := e.Extract(data, "report.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "First paragraph.") {
		t.Errorf("missing first paragraph in %q", text)
	}
	if !strings.Contains(text, "Second paragraph.") {
		t.Errorf("runs not concatenated in %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Errorf("paragraphs not separated in %q", text)
	}
}

func TestExtractDOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("<styles/>"))
	zw.Close()

	e := New()
	if _, err := e.Extract(buf.Bytes(), "empty.docx"); err == nil {
		t.Error("expected error when document.xml is absent")
	}
}

func TestExtractDOCXNotAZip(t *testing.T) {
	e := New()
	if _, err := e.Extract([]byte("just some bytes"), "old.doc"); err == nil {
		t.Error("expected error for non-zip .doc content")
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
