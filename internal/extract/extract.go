// Package extract turns HTML news pages into plain article text for the corpus loader.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Options controls which part of a page is extracted.
type Options struct {
	// Selector, when set, keeps only elements matching this CSS selector.
	Selector string

	// IncludeAll converts the whole page instead of the readability main content.
	IncludeAll bool
}

// IsHTML reports whether path names an HTML file.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// ToText extracts the article text of an HTML page.
//
// Parameters:
//   - content: io.Reader containing HTML content
//   - opts: selector or whole-page options; the zero value extracts the main content
//
// Returns the text with Markdown structure (headings, lists, emphasis) but without
// link targets or images, or an error if extraction/conversion fails.
func ToText(content io.Reader, opts Options) (string, error) {
	htmlBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}
	if len(bytes.TrimSpace(htmlBytes)) == 0 {
		return "", nil
	}

	// selector overrides includeAll
	if opts.Selector != "" {
		return extractWithSelector(bytes.NewReader(htmlBytes), opts.Selector)
	}
	if opts.IncludeAll {
		return convertToText(string(htmlBytes))
	}

	return extractMainContent(bytes.NewReader(htmlBytes))
}

// extractMainContent uses go-readability to extract the main article content
func extractMainContent(content io.Reader) (string, error) {
	article, err := readability.FromReader(content, &url.URL{})
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	return convertToText(article.Content)
}

// extractWithSelector uses a CSS selector to extract specific content
func extractWithSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var htmlParts []string
	selection.Each(func(i int, s *goquery.Selection) {
		html, err := s.Html()
		if err == nil {
			// wrap each element to preserve structure
			tagName := goquery.NodeName(s)
			htmlParts = append(htmlParts, fmt.Sprintf("<%s>%s</%s>", tagName, html, tagName))
		}
	})

	if len(htmlParts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return convertToText(strings.Join(htmlParts, "\n"))
}

// convertToText converts an HTML string to Markdown, keeping link text but not URLs
func convertToText(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	// keep link text only; drop link targets and images
	converter.Use(md.Plugin(func(c *md.Converter) []md.Rule {
		return []md.Rule{
			{
				Filter: []string{"a"},
				Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
					return &content
				},
			},
			{
				Filter: []string{"img"},
				Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
					empty := ""
					return &empty
				},
			},
		}
	}))

	markdown, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to text: %w", err)
	}

	cleaned := strings.TrimSpace(markdown)
	cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")

	return cleaned, nil
}
