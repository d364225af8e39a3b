// Package render converts user-authored markdown (message and complaint
// bodies) into sanitized HTML for API responses.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	)

	// UGCPolicy allows basic formatting and links but strips scripts,
	// event handlers and styles.
	policy := bluemonday.UGCPolicy()

	return &TextProcessor{md: md, policy: policy}
}

// RenderHTML renders markdown to HTML and sanitizes the result. On render
// failure the sanitized plain text is returned instead, so a malformed
// body never breaks a response.
func (tp *TextProcessor) RenderHTML(text string) string {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return tp.policy.Sanitize(text)
	}
	return tp.policy.Sanitize(buf.String())
}

// Sanitize strips all HTML from plain text fields (titles, subjects).
func Sanitize(text string) string {
	return bluemonday.StrictPolicy().Sanitize(text)
}
