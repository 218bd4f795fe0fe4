// Package ingestion turns uploaded resume files into normalized plain text.
package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the default upload limit (2 MiB).
const DefaultMaxBytes int64 = 2 << 20

// Extractor converts resume files to text. The zero value uses DefaultMaxBytes.
type Extractor struct {
	MaxBytes int64
}

// NewExtractor returns an Extractor enforcing maxBytes; values <= 0 select
// DefaultMaxBytes.
func NewExtractor(maxBytes int64) *Extractor {
	return &Extractor{MaxBytes: maxBytes}
}

var defaultExtractor = &Extractor{}

// ExtractText converts data with the default size limit.
func ExtractText(data []byte, filename string) (string, *Metadata, error) {
	return defaultExtractor.ExtractText(data, filename)
}

// ReadFile reads and converts a resume file with the default size limit.
func ReadFile(path string) (string, *Metadata, error) {
	return defaultExtractor.ReadFile(path)
}

// Limit returns the effective size limit in bytes.
func (e *Extractor) Limit() int64 {
	if e == nil || e.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return e.MaxBytes
}

// ExtractText detects the type of data and returns its cleaned text.
// Plain text (including markdown) is decoded as UTF-8 with invalid
// sequences replaced; HTML is reduced to its visible text.
func (e *Extractor) ExtractText(data []byte, filename string) (string, *Metadata, error) {
	if int64(len(data)) > e.Limit() {
		return "", nil, &TooLargeError{Size: int64(len(data)), Limit: e.Limit()}
	}
	if len(data) == 0 {
		return "", NewMetadata(data, filename, "text/plain"), nil
	}

	detected := mimetype.Detect(data)
	meta := NewMetadata(data, filename, detected.String())

	var text string
	switch {
	case detected.Is("text/html"):
		var err error
		if text, err = htmlText(data); err != nil {
			return "", nil, err
		}
	case isPlainText(detected):
		text = strings.TrimPrefix(strings.ToValidUTF8(string(data), "\uFFFD"), "\uFEFF")
	default:
		return "", nil, &UnsupportedTypeError{Filename: filename, MIMEType: detected.String()}
	}

	return CleanText(text), meta, nil
}

// Read consumes r up to the size limit and converts it.
func (e *Extractor) Read(r io.Reader, filename string) (string, *Metadata, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.Limit()+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > e.Limit() {
		return "", nil, &TooLargeError{Size: -1, Limit: e.Limit()}
	}
	return e.ExtractText(data, filename)
}

// ReadFile reads path from disk and converts it.
func (e *Extractor) ReadFile(path string) (string, *Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, &ReadError{Path: path, Cause: err}
	}
	if info.Size() > e.Limit() {
		return "", nil, &TooLargeError{Size: info.Size(), Limit: e.Limit()}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, &ReadError{Path: path, Cause: err}
	}
	return e.ExtractText(data, filepath.Base(path))
}

// isPlainText reports whether m is text/plain or a text format derived from
// it. UTF-16 text is rejected because it is decoded as UTF-8.
func isPlainText(m *mimetype.MIME) bool {
	if strings.Contains(strings.ToLower(m.String()), "utf-16") {
		return false
	}
	for p := m; p != nil; p = p.Parent() {
		if p.Is("text/plain") {
			return true
		}
	}
	return false
}

// htmlText returns the visible text of an HTML document, one block element
// per line and list items as bullets.
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("head, script, style, noscript, template, iframe, svg").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("• ")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, ul, ol, table").AppendHtml("\n")

	lines := strings.Split(doc.Find("body").Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n"), nil
}
