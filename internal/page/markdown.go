package page

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// The converter's configuration never changes and goldmark keeps
// per-call state in Convert, so one instance serves every request.
var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func converter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})

	return markdownConv
}

// Markdown renders an article body to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer, so the result is safe to embed.
func Markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := converter().Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}

	// nolint:gosec
	return template.HTML(buf.String())
}
