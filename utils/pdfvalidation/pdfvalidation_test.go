package pdfvalidation

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidatePDFBytesRejectsOversize(t *testing.T) {
	limits := PDFLimits{MaxFileSizeMB: 1, MaxPages: 10, DocumentTypeName: "document"}
	content := bytes.Repeat([]byte("a"), 2*1024*1024)

	result, err := ValidatePDFBytes(content, limits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("oversize content should not validate")
	}
	if !strings.Contains(result.Error, "exceeds maximum allowed size") {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestValidatePDFBytesRejectsMissingHeader(t *testing.T) {
	result, err := ValidatePDFBytes([]byte("this is not a pdf"), DefaultLimits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("non-PDF content should not validate")
	}
	if !strings.Contains(result.Error, "missing PDF header") {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestValidatePDFBytesRejectsTruncatedPDF(t *testing.T) {
	// Valid header but no cross-reference table
	result, err := ValidatePDFBytes([]byte("%PDF-1.4\nbroken"), DefaultLimits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("truncated content should not validate")
	}
	if result.Error == "" {
		t.Error("expected a parse error message")
	}
}

func TestSanitizePDFTrimsTrailingGarbage(t *testing.T) {
	pdf := []byte("%PDF-1.4\nsome body\n%%EOF\n")
	dirty := append(append([]byte{}, pdf...), []byte("junk appended by a broken exporter")...)

	clean := sanitizePDF(dirty)
	if !bytes.Equal(clean, pdf) {
		t.Errorf("expected trailing garbage removed, got %q", clean)
	}
}

func TestSanitizePDFKeepsCleanContent(t *testing.T) {
	pdf := []byte("%PDF-1.4\nsome body\n%%EOF\n")

	clean := sanitizePDF(pdf)
	if !bytes.Equal(clean, pdf) {
		t.Error("clean content should pass through unchanged")
	}
}

func TestSanitizePDFPassesThroughNonPDF(t *testing.T) {
	content := []byte("plain text with %%EOF inside\nand more")

	clean := sanitizePDF(content)
	if !bytes.Equal(clean, content) {
		t.Error("non-PDF content should pass through unchanged")
	}
}

func TestSanitizePDFHandlesMissingEOF(t *testing.T) {
	content := []byte("%PDF-1.4\nno terminator here")

	clean := sanitizePDF(content)
	if !bytes.Equal(clean, content) {
		t.Error("content without an EOF marker should pass through unchanged")
	}
}

func TestLimitProfiles(t *testing.T) {
	if NotesLimits.MaxFileSizeMB != 100 || NotesLimits.MaxPages != 2000 {
		t.Error("notes profile changed unexpectedly")
	}
	if PaperLimits.MaxFileSizeMB != 50 || PaperLimits.MaxPages != 50 {
		t.Error("paper profile changed unexpectedly")
	}
}
