package richtext

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

var blockTypes = map[string]bool{
	"paragraph": true,
	"heading":   true,
	"listitem":  true,
	"quote":     true,
}

// PlainText concatenates every "text" value depth-first. It accepts any JSON
// and never fails; block nodes end with a newline so words of adjacent
// paragraphs do not run together.
func PlainText(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	if m, ok := v.(map[string]any); ok {
		if root, ok := m["root"]; ok {
			v = root
		}
	}
	var sb strings.Builder
	collectText(v, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(v any, sb *strings.Builder) {
	switch n := v.(type) {
	case map[string]any:
		if t, ok := n["text"].(string); ok {
			sb.WriteString(t)
		}
		if children, ok := n["children"].([]any); ok {
			for _, c := range children {
				collectText(c, sb)
			}
		}
		if typ, _ := n["type"].(string); blockTypes[typ] {
			if s := sb.String(); s != "" && !strings.HasSuffix(s, "\n") {
				sb.WriteByte('\n')
			}
		}
	case []any:
		for _, c := range n {
			collectText(c, sb)
		}
	}
}

// Excerpt shortens text to at most n runes, cutting at a word boundary.
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// RenderMarkdown converts imported markdown bodies. Raw HTML in the source is
// not passed through.
func RenderMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
