// Package richtext converts the editor's Lexical JSON documents into HTML and
// plain text.
package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"feuerwehr-web/pkg/logger"
)

// Text format bits as stored by Lexical.
const (
	FormatBold = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
)

var ErrNoRoot = errors.New("richtext: document has no root node")

type Document struct {
	Root *Node `json:"root"`
}

type Node struct {
	Type     string          `json:"type"`
	Tag      string          `json:"tag,omitempty"`
	Text     string          `json:"text,omitempty"`
	Format   json.RawMessage `json:"format,omitempty"`
	ListType string          `json:"listType,omitempty"`
	URL      string          `json:"url,omitempty"`
	Fields   *LinkFields     `json:"fields,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Children []*Node         `json:"children,omitempty"`
}

type LinkFields struct {
	URL    string `json:"url"`
	NewTab bool   `json:"newTab"`
}

type uploadValue struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Parse decodes a Lexical document.
func Parse(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrNoRoot
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("richtext: decode: %w", err)
	}
	if doc.Root == nil || doc.Root.Type != "root" {
		return nil, ErrNoRoot
	}
	return &doc, nil
}

// ToHTML converts a Lexical document into HTML.
func ToHTML(raw []byte) (string, error) {
	doc, err := Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, child := range doc.Root.Children {
		for _, n := range convert(child) {
			if err := html.Render(&buf, n); err != nil {
				return "", fmt.Errorf("richtext: render: %w", err)
			}
		}
	}
	return buf.String(), nil
}

// Render is what pages use: structured HTML when possible, otherwise the
// extracted text in a single paragraph.
func Render(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	out, err := ToHTML(raw)
	if err == nil {
		return out
	}
	logger.Warn("rich text conversion failed, using plain text", zap.Error(err))
	text := PlainText(raw)
	if text == "" {
		return ""
	}
	return "<p>" + html.EscapeString(text) + "</p>"
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func appendAll(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

func convertChildren(n *Node) []*html.Node {
	var out []*html.Node
	for _, c := range n.Children {
		out = append(out, convert(c)...)
	}
	return out
}

func convert(n *Node) []*html.Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case "text":
		return []*html.Node{textNode(n)}
	case "tab":
		return []*html.Node{{Type: html.TextNode, Data: "\t"}}
	case "linebreak":
		return []*html.Node{element(atom.Br)}
	case "horizontalrule":
		return []*html.Node{element(atom.Hr)}
	case "paragraph":
		return []*html.Node{appendAll(element(atom.P), convertChildren(n))}
	case "heading":
		return []*html.Node{appendAll(element(headingAtom(n.Tag)), convertChildren(n))}
	case "quote":
		return []*html.Node{appendAll(element(atom.Blockquote), convertChildren(n))}
	case "list":
		a := atom.Ul
		if n.ListType == "number" || n.Tag == "ol" {
			a = atom.Ol
		}
		return []*html.Node{appendAll(element(a), convertChildren(n))}
	case "listitem":
		return []*html.Node{appendAll(element(atom.Li), convertChildren(n))}
	case "link", "autolink":
		return []*html.Node{linkNode(n)}
	case "upload":
		if img := uploadNode(n); img != nil {
			return []*html.Node{img}
		}
		return nil
	default:
		return convertChildren(n)
	}
}

func headingAtom(tag string) atom.Atom {
	switch tag {
	case "h1":
		return atom.H1
	case "h3":
		return atom.H3
	case "h4":
		return atom.H4
	case "h5":
		return atom.H5
	case "h6":
		return atom.H6
	default:
		return atom.H2
	}
}

func textFormat(raw json.RawMessage) int {
	var f int
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return f
}

var formatTags = []struct {
	bit  int
	atom atom.Atom
}{
	{FormatBold, atom.Strong},
	{FormatItalic, atom.Em},
	{FormatStrikethrough, atom.S},
	{FormatUnderline, atom.U},
	{FormatCode, atom.Code},
	{FormatSubscript, atom.Sub},
	{FormatSuperscript, atom.Sup},
}

func textNode(n *Node) *html.Node {
	node := &html.Node{Type: html.TextNode, Data: n.Text}
	format := textFormat(n.Format)
	for _, ft := range formatTags {
		if format&ft.bit != 0 {
			wrap := element(ft.atom)
			wrap.AppendChild(node)
			node = wrap
		}
	}
	return node
}

func linkNode(n *Node) *html.Node {
	href := n.URL
	newTab := false
	if n.Fields != nil {
		if n.Fields.URL != "" {
			href = n.Fields.URL
		}
		newTab = n.Fields.NewTab
	}
	children := convertChildren(n)
	if !safeURL(href) {
		span := element(atom.Span)
		return appendAll(span, children)
	}
	attrs := []html.Attribute{{Key: "href", Val: href}}
	if newTab {
		attrs = append(attrs,
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noopener noreferrer"})
	}
	return appendAll(element(atom.A, attrs...), children)
}

func uploadNode(n *Node) *html.Node {
	var v uploadValue
	if err := json.Unmarshal(n.Value, &v); err != nil || !safeURL(v.URL) {
		return nil
	}
	fig := element(atom.Figure)
	fig.AppendChild(element(atom.Img,
		html.Attribute{Key: "src", Val: v.URL},
		html.Attribute{Key: "alt", Val: v.Alt},
		html.Attribute{Key: "loading", Val: "lazy"}))
	return fig
}

func safeURL(u string) bool {
	u = strings.TrimSpace(strings.ToLower(u))
	if u == "" {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "mailto:", "tel:", "/", "#"} {
		if strings.HasPrefix(u, prefix) {
			return !strings.HasPrefix(u, "//")
		}
	}
	return false
}
