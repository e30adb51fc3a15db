package richtext

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"sportadmin/internal/form"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML in the source is dropped; HTML bodies are passed through separately.
		gmhtml.WithHardWraps(),
	),
)

var (
	// ugc cleans HTML bodies before they are submitted.
	ugc = bluemonday.UGCPolicy()
	// strict strips every tag; used to decide whether an HTML body has any text.
	strict = bluemonday.StrictPolicy()

	looksLikeHTML = regexp.MustCompile(`^\s*<([a-zA-Z][a-zA-Z0-9]*)[\s>/]`)
	spaces        = regexp.MustCompile(`\s+`)
)

// MarkdownToHTML converts Markdown to an HTML fragment.
func MarkdownToHTML(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var b bytes.Buffer
	if err := markdown.Convert([]byte(src), &b); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// PlainText strips tags and collapses whitespace.
func PlainText(fragment string) string {
	s := html.UnescapeString(strict.Sanitize(fragment))
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// Normalize prepares raw editor content for the given body format. It returns "" when the body
// is empty: blank plain text, or HTML whose text content is blank (e.g. "<p><br></p>").
//
// HTML content that already starts with a tag is sanitized and kept; anything else is treated
// as Markdown.
func Normalize(format form.BodyFormat, content string) (string, error) {
	switch format {
	case form.BodyHTML:
		var out string
		if looksLikeHTML.MatchString(content) {
			out = strings.TrimSpace(ugc.Sanitize(content))
		} else {
			h, err := MarkdownToHTML(content)
			if err != nil {
				return "", err
			}
			out = h
		}
		if PlainText(out) == "" {
			return "", nil
		}
		return out, nil
	default:
		return strings.TrimSpace(content), nil
	}
}
