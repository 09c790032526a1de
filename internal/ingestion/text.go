// Package ingestion turns offer sources (files, stdin, pasted HTML, URLs)
// into cleaned text with metadata, ready for the offer analyzer.
package ingestion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/planmyjob/internal/fetch"
)

// Source values recorded in Metadata.Source.
const (
	SourceFile  = "file"
	SourceStdin = "stdin"
	SourceHTML  = "html"
	SourceURL   = "url"
	SourceAPI   = "api"
)

// MaxInputSize caps the bytes read from a file or stream.
const MaxInputSize = 5 << 20

var (
	// ErrEmptyInput is returned when a source holds no text after cleaning
	ErrEmptyInput = errors.New("empty input")
	// ErrInputTooLarge is returned when a source exceeds MaxInputSize
	ErrInputTooLarge = errors.New("input too large")
)

var (
	spaceRunRe     = regexp.MustCompile(`[ \t\f\v]+`)
	excessBlankRe  = regexp.MustCompile(`\n\n\n+`)
	htmlDocumentRe = regexp.MustCompile(`(?is)^\s*(?:<!doctype\s+html|<html[\s>]|<head[\s>]|<body[\s>])`)
	htmlFragmentRe = regexp.MustCompile(`(?i)<(?:div|p|li|ul|h[1-6]|br|span|section|article)[\s>/]`)
)

// minHTMLFragment is the number of block tags that makes a paste HTML.
const minHTMLFragment = 3

// CleanText normalizes line endings and whitespace while keeping the line
// structure the analyzer relies on (first lines, bullets, "Label :" lines).
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = excessBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses inner runs of blanks. Bullet markers
// are kept so the key-point scan still sees them.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	return spaceRunRe.ReplaceAllString(trimmed, " ")
}

// IsHTML reports whether content looks like an HTML document or a pasted
// HTML fragment rather than plain text.
func IsHTML(content string) bool {
	if htmlDocumentRe.MatchString(content) {
		return true
	}
	return len(htmlFragmentRe.FindAllStringIndex(content, minHTMLFragment)) >= minHTMLFragment
}

// FromHTML flattens HTML into cleaned text using the generic job-posting
// selectors.
func FromHTML(html string) (string, error) {
	text, err := fetch.ExtractMainText(html, fetch.JobPostingSelectors(), fetch.PlatformNoiseSelectors(fetch.PlatformUnknown)...)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// ReadInput reads an offer from r. HTML is flattened to text first.
func ReadInput(r io.Reader, source string) (string, *Metadata, error) {
	content, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(content) > MaxInputSize {
		return "", nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, MaxInputSize)
	}
	return ingestContent(string(content), source, "")
}

// IngestFromFile reads an offer file, cleans it, and returns cleaned text with metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	text, meta, err := ReadInput(f, SourceFile)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	meta.Path = path
	return text, meta, nil
}

// IngestText cleans already-loaded content, converting it from HTML when needed.
func IngestText(content string) (string, *Metadata, error) {
	return ingestContent(content, SourceStdin, "")
}

func ingestContent(content, source, url string) (string, *Metadata, error) {
	var text string
	if IsHTML(content) {
		flat, err := FromHTML(content)
		if err != nil {
			return "", nil, err
		}
		text = flat
		if source == SourceStdin {
			source = SourceHTML
		}
	} else {
		text = CleanText(content)
	}
	if text == "" {
		return "", nil, ErrEmptyInput
	}

	meta := NewMetadata(text, url)
	meta.Source = source
	return text, meta, nil
}
