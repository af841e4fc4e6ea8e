package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, "Vermieter: Anna Schmidt", "Kaltmiete: 850,00 EUR")

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "mietvertrag.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if text != "Vermieter: Anna Schmidt\nKaltmiete: 850,00 EUR" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_ImageRejected(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	if _, err := ExtractTextFromBytes(context.Background(), png, "image/png", "scan.png"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for scans, got %v", err)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("\xEF\xBB\xBFMieter: Jonas Weber"), "text/plain; charset=utf-8", "v.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Mieter: Jonas Weber" {
		t.Fatalf("expected BOM stripped, got %q", text)
	}
}

func TestExtractTextFromBytes_Latin1Fallback(t *testing.T) {
	// "Wohnfläche" encoded as ISO-8859-1.
	text, err := ExtractTextFromBytes(context.Background(), []byte("Wohnfl\xe4che: 62 qm"), "text/plain", "v.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Wohnfläche: 62 qm" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_OctetStreamUsesExtension(t *testing.T) {
	data := buildDocx(t, "Mieter: Jonas Weber")
	if _, err := ExtractTextFromBytes(context.Background(), data, "application/octet-stream", "vertrag.docx"); err != nil {
		t.Fatalf("expected docx by extension, got %v", err)
	}
	if _, err := ExtractTextFromBytes(context.Background(), data, "", "vertrag.bin"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
}

func TestExtractTextFromBytes_BrokenPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 not really"), "application/pdf", "v.pdf")
	if err == nil {
		t.Fatal("expected error for a truncated pdf")
	}
}

func TestExtractTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("x"), "text/plain", "x.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractTextFromBytes_NormalizesNoBreakSpaces(t *testing.T) {
	raw := "Kaution:\u00a02.550\u202f€\r\nKaltmiete: 850\u00a0€\r\n"
	text, err := ExtractTextFromBytes(context.Background(), []byte(raw), "text/plain", "v.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Kaution: 2.550 €\nKaltmiete: 850 €" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_MalformedDocx(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), []byte("PK not a zip"), mimeDOCX, "v.docx"); err == nil {
		t.Fatalf("expected error for a corrupt docx")
	}
}
