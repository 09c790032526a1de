package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/planmyjob/internal/fetch"
	"github.com/jonathan/planmyjob/internal/textnorm"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLOptions configures IngestFromURL.
type URLOptions struct {
	// UseBrowser renders the page in headless Chrome when the HTTP fetch
	// yields too little text.
	UseBrowser bool
	Verbose    bool
	Fetch      *fetch.Options
	// Browser replaces fetch.BrowserSimple, mainly in tests.
	Browser func(ctx context.Context, url string, verbose bool) (string, error)
}

// IngestFromURL fetches an offer page, extracts its main text with the
// selectors of the detected job board, and returns cleaned text with metadata.
func IngestFromURL(ctx context.Context, urlStr string, opts *URLOptions) (string, *Metadata, error) {
	if opts == nil {
		opts = &URLOptions{}
	}
	verbose := opts.Verbose

	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		if result == nil && errors.Is(err, context.Canceled) {
			return "", nil, err
		}
		var fetchErr *fetch.Error
		if result == nil && errors.As(err, &fetchErr) && fetchErr.Message == "invalid URL" {
			return "", nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	html := result.HTML
	textContent, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", textnorm.RuneLen(textContent))
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				textnorm.RuneLen(textContent), fetch.MinContentLength)
		}

		browse := opts.Browser
		if browse == nil {
			browse = fetch.BrowserSimple
		}
		browserHTML, browserErr := browse(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else if browserText, err := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...); err != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser content extraction failed: %v", err)
			}
		} else {
			html, textContent = browserHTML, browserText
			if verbose {
				log.Printf("[VERBOSE] Browser extracted text: %d chars", textnorm.RuneLen(textContent))
			}
		}
	}

	cleanedText := CleanText(textContent)
	if cleanedText == "" {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, ErrEmptyInput)
	}

	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Source = SourceURL
	metadata.Platform = string(platform)
	metadata.PageTitle = fetch.PageTitle(html)
	if links, err := fetch.ApplyLinks(html, urlStr); err == nil {
		metadata.ApplyLinks = links
	} else if verbose {
		log.Printf("[VERBOSE] Apply link extraction failed: %v", err)
	}

	return cleanedText, metadata, nil
}
