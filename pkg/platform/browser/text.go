package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// PageText returns the visible text of the body of rawHTML, one line per
// block element, with runs of whitespace collapsed. Scripts, styles and other
// non-rendered elements are dropped. The result is cut to maxLength runes
// when maxLength is positive.
func PageText(rawHTML string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}

	w := &textWriter{}
	w.walk(root)
	text := strings.TrimSpace(w.b.String())

	if maxLength > 0 {
		runes := []rune(text)
		if len(runes) > maxLength {
			text = strings.TrimSpace(string(runes[:maxLength]))
		}
	}
	return text, nil
}

// textWriter accumulates text, separating words by one space and blocks by
// one newline.
type textWriter struct {
	b           strings.Builder
	pendingNL   bool
	pendingWord bool
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isSkippedElement(tag) {
			return
		}
		if tag == "br" {
			w.pendingNL = true
			return
		}
		if isBlockElement(tag) {
			w.pendingNL = true
			defer func() { w.pendingNL = true }()
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *textWriter) text(data string) {
	if data == "" {
		return
	}
	startsWithSpace := isSpace(data[0])
	endsWithSpace := isSpace(data[len(data)-1])

	fields := strings.Fields(data)
	if len(fields) == 0 {
		w.pendingWord = w.pendingWord || w.b.Len() > 0
		return
	}

	if w.b.Len() > 0 {
		switch {
		case w.pendingNL:
			w.b.WriteByte('\n')
		case w.pendingWord || startsWithSpace:
			w.b.WriteByte(' ')
		}
	}
	w.pendingNL = false

	w.b.WriteString(strings.Join(fields, " "))
	w.pendingWord = endsWithSpace
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// findElement returns the first element named tag in depth first order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// isSkippedElement returns true for elements that never render text
func isSkippedElement(tagName string) bool {
	switch tagName {
	case "head", "title", "script", "style", "noscript", "template",
		"iframe", "embed", "object", "svg", "canvas":
		return true
	}
	return false
}

// isBlockElement returns true for elements that start a new line
func isBlockElement(tagName string) bool {
	switch tagName {
	case "div", "p", "section", "article", "header", "footer", "nav", "main",
		"aside", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "dl",
		"dt", "dd", "table", "tr", "td", "th", "caption", "form", "fieldset",
		"blockquote", "pre", "figure", "figcaption", "hr", "address":
		return true
	}
	return false
}
