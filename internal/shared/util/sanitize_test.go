package util

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Mietvertrag.pdf":           "Mietvertrag.pdf",
		"  a/b\\c.docx ":            "a_b_c.docx",
		"Nebenkosten\x00\t2024.txt": "Nebenkosten2024.txt",
		"Übergabeprotokoll.pdf":     "Übergabeprotokoll.pdf",
	}
	for in, want := range cases {
		got, err := SanitizeFileName(in)
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileNameRejects(t *testing.T) {
	for _, in := range []string{"../secret.pdf", "   ", "\x00"} {
		if _, err := SanitizeFileName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("SanitizeFileName(%q): expected ErrInvalidFileName, got %v", in, err)
		}
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	in := strings.Repeat("ä", 150) + ".pdf"
	got, err := SanitizeFileName(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) > maxFileNameBytes {
		t.Fatalf("len = %d", len(got))
	}
	if !strings.HasSuffix(got, ".pdf") || !utf8.ValidString(got) {
		t.Fatalf("bad truncation: %q", got)
	}
}
