// Package textutil converts scraped press-release markup into the plain
// text that the classifier and extractors operate on.
package textutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists the elements whose text carries press-release
// content once page chrome is stripped.
const blockSelector = "h1, h2, h3, h4, p, li, blockquote"

// chromeSelector lists the elements removed before extraction.
const chromeSelector = "script, style, nav, header, footer, aside, form, noscript"

var spaceRe = regexp.MustCompile(`[ \t\r\f]+`)

// HTMLToText strips markup from a press-release page and returns plain
// text with one block element per line.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(chromeSelector).Remove()

	var b strings.Builder
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Skip containers whose text would repeat in a nested block.
		if s.Find(blockSelector).Length() > 0 {
			return
		}

		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	})

	if b.Len() == 0 {
		return Normalize(doc.Text()), nil
	}

	return Normalize(b.String()), nil
}

// Normalize collapses runs of horizontal whitespace and drops blank lines.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}
