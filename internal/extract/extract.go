package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"mietrecht-backend/internal/shared/storage/object"
)

const (
	mimePDF   = "application/pdf"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText  = "text/plain"
	mimeZip   = "application/zip"
	mimeOctet = "application/octet-stream"

	docxBody = "word/document.xml"

	// ExtractedSuffix is appended to a document's storage key for the cached text copy.
	ExtractedSuffix = ".extracted.txt"
)

// ErrUnsupportedType is returned for payloads without a text layer we can read,
// including scanned images.
var ErrUnsupportedType = errors.New("unsupported mime type")

type textDecoder func(data []byte) (string, error)

var decoders = map[string]textDecoder{
	mimePDF:  pdfText,
	mimeDOCX: docxText,
	mimeText: func(data []byte) (string, error) { return decodeText(data), nil },
}

var typeByExt = map[string]string{
	".pdf":  mimePDF,
	".docx": mimeDOCX,
	".txt":  mimeText,
}

// ExtractText reads a stored object, extracts its text and stores the text
// next to it under key+ExtractedSuffix.
func ExtractText(ctx context.Context, store object.ObjectStore, key string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("extract %s: open: %w", key, err)
	}
	raw, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return "", fmt.Errorf("extract %s: read: %w", key, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", key, err)
	}
	if _, err := store.SaveWithKey(ctx, key+ExtractedSuffix, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract %s: cache text: %w", key, err)
	}
	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload. The declared
// mime type wins unless it is generic, in which case the file name decides.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := resolveType(mimeType, fileName, data)
	decode, ok := decoders[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	text, err := decode(data)
	if err != nil {
		return "", err
	}
	return normalizeSpace(text), nil
}

func resolveType(mimeType, fileName string, data []byte) string {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case base == mimeZip:
		// Word files sniff as zip.
		if ext == ".docx" || zipHas(data, docxBody) {
			return mimeDOCX
		}
		return base
	case base == "" || base == mimeOctet:
		if kind, ok := typeByExt[ext]; ok {
			return kind
		}
		return mimeOctet
	case strings.HasPrefix(base, "text/"):
		return mimeText
	default:
		return base
	}
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	f := zipEntry(zr, docxBody)
	if f == nil {
		return "", fmt.Errorf("open docx: %s missing", docxBody)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer rc.Close()
	return wordprocessingText(rc)
}

// wordprocessingText keeps w:t runs, turning paragraphs and breaks into
// newlines and w:tab into tabs.
func wordprocessingText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteByte('\t')
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

func zipHas(data []byte, name string) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return zipEntry(zr, name) != nil
}

func zipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}

// decodeText returns UTF-8 input unchanged and reads anything else as
// Latin-1, which covers contracts exported from older German office suites.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// spaceReplacer folds CRLF and the no-break spaces common in amounts
// ("1.200 €") into plain whitespace.
var spaceReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ", "\u202f", " ")

func normalizeSpace(text string) string {
	return strings.TrimSpace(spaceReplacer.Replace(text))
}
