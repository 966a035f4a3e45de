package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "root": {
    "type": "root",
    "children": [
      {"type": "heading", "tag": "h3", "children": [{"type": "text", "text": "Einsatz", "format": 0}]},
      {"type": "paragraph", "format": "", "children": [
        {"type": "text", "text": "Brand in ", "format": 0},
        {"type": "text", "text": "Scheune", "format": 3},
        {"type": "linebreak"},
        {"type": "link", "fields": {"url": "https://example.org", "newTab": true}, "children": [{"type": "text", "text": "Bericht"}]}
      ]},
      {"type": "list", "listType": "number", "children": [
        {"type": "listitem", "children": [{"type": "text", "text": "A < B"}]}
      ]},
      {"type": "upload", "value": {"url": "/media/hlf.jpg", "alt": "HLF 20"}}
    ]
  }
}`

func TestToHTML(t *testing.T) {
	out, err := ToHTML([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Contains(t, out, "<h3>Einsatz</h3>")
	assert.Contains(t, out, "<p>Brand in <em><strong>Scheune</strong></em><br/>")
	assert.Contains(t, out, `<a href="https://example.org" target="_blank" rel="noopener noreferrer">Bericht</a>`)
	assert.Contains(t, out, "<ol><li>A &lt; B</li></ol>")
	assert.Contains(t, out, `<img src="/media/hlf.jpg" alt="HLF 20" loading="lazy"/>`)
}

func TestToHTMLRejectsUnsafeLinks(t *testing.T) {
	doc := `{"root":{"type":"root","children":[{"type":"paragraph","children":[
		{"type":"link","url":"javascript:alert(1)","children":[{"type":"text","text":"x"}]}]}]}}`
	out, err := ToHTML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "<p><span>x</span></p>", out)
}

func TestToHTMLErrors(t *testing.T) {
	_, err := ToHTML([]byte(`{"foo": 1}`))
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = ToHTML([]byte(`not json`))
	assert.Error(t, err)

	_, err = ToHTML(nil)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Einsatz\nBrand in ScheuneBericht\nA < B", PlainText([]byte(sampleDoc)))

	// Documents that fail structured conversion still yield their text.
	assert.Equal(t, "hallo welt", PlainText([]byte(`{"children":[{"text":"hallo "},{"children":[{"text":"welt"}]}]}`)))
	assert.Equal(t, "", PlainText([]byte(`garbage`)))
	assert.Equal(t, "", PlainText(nil))
}

func TestRenderFallsBackToPlainText(t *testing.T) {
	raw := []byte(`{"children":[{"text":"<b>nur</b> Text"}]}`)
	assert.Equal(t, "<p>&lt;b&gt;nur&lt;/b&gt; Text</p>", Render(raw))
	assert.Equal(t, "", Render(nil))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "kurz", Excerpt("kurz", 10))
	assert.Equal(t, "Die Feuerwehr übte…", Excerpt("Die Feuerwehr übte am Samstag", 20))
	assert.Equal(t, "a b", Excerpt("  a \n b ", 0))
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Titel\n\nText mit **fett**.\n\n<script>x</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Titel</h1>")
	assert.Contains(t, out, "<strong>fett</strong>")
	assert.NotContains(t, out, "<script>")
}
