package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// goldmarkExtensions maps host extension names onto the goldmark extensions
// that cover the same syntax.
var goldmarkExtensions = map[string][]goldmark.Extender{
	ExtTaskList:     {extension.TaskList},
	ExtTilde:        {extension.Strikethrough},
	ExtMagicLink:    {extension.Linkify},
	ExtSmartSymbols: {extension.Typographer},
	ExtExtra:        {extension.Table, extension.Footnote, extension.DefinitionList},
}

// Renderer converts markdown to HTML with the goldmark equivalents of a
// composed extension list.
type Renderer struct {
	md          goldmark.Markdown
	unsupported []string
}

// NewRenderer builds a goldmark instance for exts. Extensions without a
// goldmark equivalent are recorded in Unsupported.
func NewRenderer(exts []string) *Renderer {
	var (
		extenders   []goldmark.Extender
		parserOpts  []parser.Option
		seen        = map[string]bool{}
		unsupported []string
	)
	for _, name := range exts {
		if seen[name] {
			continue
		}
		seen[name] = true

		if name == ExtTOC {
			parserOpts = append(parserOpts, parser.WithAutoHeadingID())
			continue
		}
		ext, ok := goldmarkExtensions[name]
		if !ok {
			unsupported = append(unsupported, name)
			continue
		}
		extenders = append(extenders, ext...)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, unsupported: unsupported}
}

// Unsupported returns extension names that have no goldmark equivalent.
func (r *Renderer) Unsupported() []string {
	return append([]string(nil), r.unsupported...)
}

// Render converts source to HTML.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
