// Package fetch - links.go finds application links in offer pages.
package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkError reports a page whose links could not be read.
type LinkError struct {
	Message string
	Cause   error
}

func (e *LinkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("link extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("link extraction error: %s", e.Message)
}

func (e *LinkError) Unwrap() error {
	return e.Cause
}

var applyLinkRe = regexp.MustCompile(`(?i)postuler|candidat|apply|application`)

// ApplyLinks returns the absolute http(s) links whose text or href looks like
// an "apply" action, in document order and without duplicates.
func ApplyLinks(htmlContent string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &LinkError{Message: "failed to parse base URL", Cause: err}
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, &LinkError{Message: fmt.Sprintf("invalid base URL: %s (must have scheme and host)", baseURL)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &LinkError{Message: "failed to parse HTML", Cause: err}
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || !(applyLinkRe.MatchString(s.Text()) || applyLinkRe.MatchString(href)) {
			return
		}

		linkURL, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(linkURL)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""

		u := abs.String()
		if !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	})

	return links, nil
}
