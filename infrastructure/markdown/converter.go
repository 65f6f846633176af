// Package markdown converts wiki storage-format HTML into Markdown.
package markdown

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/docfold/docfold/domain/service"
)

// Converter turns page HTML into Markdown in three deterministic stages:
// a goquery pass drops wiki macro elements (ac:/ri: namespaced tags that
// have no Markdown rendering), bluemonday strips anything unsafe, and
// html-to-markdown produces the final text.
type Converter struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Convert implements the domain Converter contract.
func (c *Converter) Convert(html string) (string, error) {
	stripped, err := stripMacros(html)
	if err != nil {
		return "", fmt.Errorf("strip wiki macros: %w", err)
	}

	sanitized := c.policy.Sanitize(stripped)

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return markdown, nil
}

// stripMacros removes namespaced wiki elements. Macro bodies are widget
// markup, not content, so the whole element goes.
func stripMacros(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if strings.HasPrefix(name, "ac:") || strings.HasPrefix(name, "ri:") {
			s.Remove()
		}
	})

	return doc.Find("body").Html()
}

// Ensure Converter implements the domain contract.
var _ service.Converter = (*Converter)(nil)
