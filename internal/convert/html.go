// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"

	"github.com/pdiddy/enex2md/pkg/types"
)

// HTMLConverter converts in process with html-to-markdown. It needs no
// external tools and is the default engine.
type HTMLConverter struct {
	conv *converter.Converter
}

// NewHTMLConverter returns the builtin converter. The underlying
// html-to-markdown converter is safe for concurrent use.
func NewHTMLConverter() *HTMLConverter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	conv.Register.RendererFor("en-todo", converter.TagTypeInline, renderTodo, converter.PriorityStandard)
	return &HTMLConverter{conv: conv}
}

func (h *HTMLConverter) Name() string { return string(types.EngineBuiltin) }

// Convert renders html as Markdown.
func (h *HTMLConverter) Convert(ctx context.Context, html string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	return h.conv.ConvertString(html)
}

// renderTodo writes an en-todo checkbox as an unescaped task marker. The
// HTML parser treats <en-todo/> as an open element, so the text that follows
// it becomes its children.
func renderTodo(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	marker := "[ ] "
	for _, attr := range n.Attr {
		if attr.Key == "checked" && strings.EqualFold(attr.Val, "true") {
			marker = "[x] "
			break
		}
	}
	w.WriteString(marker)
	ctx.RenderChildNodes(ctx, w, n)
	return converter.RenderSuccess
}
