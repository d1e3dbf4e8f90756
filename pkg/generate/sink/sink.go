package sink

import (
	"context"

	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

// Render dispatches to the renderer for the requested format. Unknown
// formats return UNSUPPORTED_OUTPUT_FORMAT; a renderer error is
// confined to this one format.
func Render(ctx context.Context, m *generate.Model, format string) ([]byte, error) {
	if err := generate.ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case generate.FormatHTML:
		return RenderHTML(m)
	case generate.FormatPDF:
		return RenderPDF(ctx, m)
	case generate.FormatDOCX:
		return RenderDOCX(m)
	default:
		return RenderMarkdown(m)
	}
}
