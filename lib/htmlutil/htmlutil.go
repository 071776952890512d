package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer, false)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer, breakLines bool) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.ElementNode:
		if breakLines && node.Data == "br" {
			buffer.WriteByte('\n')
			return
		}
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer, breakLines)
		child = child.NextSibling
	}
	if breakLines && node.Type == html.ElementNode && blockElements[node.Data] {
		buffer.WriteByte('\n')
	}
}

var blockElements = map[string]bool{
	"div": true,
	"p":   true,
	"li":  true,
	"tr":  true,
}

// GetLines returns the non-empty, trimmed lines of text under the selection.
// <br> and the end of block elements count as line breaks alongside literal
// newlines in the markup.
func GetLines(sel *goquery.Selection) []string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer, true)
		buffer.WriteByte('\n')
	}

	var lines []string
	for _, line := range strings.Split(buffer.String(), "\n") {
		line = CleanText(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// GetWords returns the text under the selection with a space between every
// text node, so adjacent elements like <span>12-3</span><span>Sr</span> do not
// run together.
func GetWords(sel *goquery.Selection) string {
	var words []string
	for _, n := range sel.Nodes {
		collectTextNodes(n, &words)
	}
	return CleanText(strings.Join(words, " "))
}

func collectTextNodes(node *html.Node, out *[]string) {
	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			*out = append(*out, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectTextNodes(child, out)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText drops non-printable runes (including &nbsp; leftovers), trims and
// collapses inner whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// NormalizeStyle lowercases an inline style and strips all whitespace so
// "display: table; width: 100%" compares equal to "display:table;width:100%".
func NormalizeStyle(style string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(style) {
		if unicode.IsSpace(c) {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// StyleDeclarations splits a normalized inline style into property -> value.
func StyleDeclarations(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(NormalizeStyle(style), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok || prop == "" {
			continue
		}
		out[prop] = value
	}
	return out
}

// ScriptTexts returns the text of every <script> in the document, in
// document order.
func ScriptTexts(doc *goquery.Document) []string {
	var out []string
	for _, script := range doc.Find("script").Nodes {
		out = append(out, GetText(script))
	}
	return out
}
