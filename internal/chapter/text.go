package chapter

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// SceneBreakHTML is the centered separator inserted between scenes.
const SceneBreakHTML = `<p style="text-align: center;">* * *</p>`

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// PlainText extracts the text of stored chapter HTML. Line breaks become
// newlines and non-breaking spaces become spaces.
func PlainText(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	doc.Find("br").ReplaceWithHtml("\n")
	text := strings.ReplaceAll(doc.Text(), "\u00a0", " ")
	return strings.TrimSpace(text), nil
}

// Markdown converts stored chapter HTML to Markdown.
func Markdown(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		HorizontalRule:   "---",
		BulletListMarker: "-",
		EmDelimiter:      "*",
	})
	converter.Remove("script", "style")

	out, err := converter.ConvertString(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ParagraphHTML converts plain text to HTML paragraphs. Blank lines separate
// paragraphs and single newlines become <br/>.
func ParagraphHTML(text string) string {
	var parts []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(textEscaper.Replace(p), "\n", "<br/>")
		parts = append(parts, "<p>"+p+"</p>")
	}
	return strings.Join(parts, "\n")
}

// InsertAt inserts fragment into content at a character position clamped to
// the content bounds.
func InsertAt(content string, position int, fragment string) string {
	runes := []rune(content)
	if position < 0 {
		position = 0
	}
	if position > len(runes) {
		position = len(runes)
	}
	return string(runes[:position]) + fragment + string(runes[position:])
}

// EscapeText escapes the characters that would otherwise be read as markup.
func EscapeText(text string) string {
	return textEscaper.Replace(text)
}

// WithSceneBreak inserts a scene break at position, or appends it on its own
// line when position is -1.
func WithSceneBreak(content string, position int) string {
	if position == -1 {
		return content + "\n" + SceneBreakHTML
	}
	return InsertAt(content, position, SceneBreakHTML)
}
