package source

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText reduces an HTML fragment to its visible text. Text without any
// markup (only the implied html/head/body wrapper) is returned unchanged.
func VisibleText(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil || !hasMarkup(doc) {
		return text
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				buf.WriteString(t)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}

// hasMarkup reports whether the parsed tree contains elements beyond the implied wrapper
func hasMarkup(n *html.Node) bool {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "html", "head", "body":
		default:
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasMarkup(c) {
			return true
		}
	}
	return false
}
