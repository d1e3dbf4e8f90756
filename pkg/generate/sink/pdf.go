package sink

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

// pdfConverter is the external HTML-to-PDF rasterizer.
const pdfConverter = "wkhtmltopdf"

var scriptBlocks = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)

// RenderPDF renders the model to HTML, strips script blocks the
// rasterizer cannot handle, and pipes the result through wkhtmltopdf.
// Conversion failure is a hard failure for this format.
func RenderPDF(ctx context.Context, m *generate.Model) ([]byte, error) {
	html, err := RenderHTML(m)
	if err != nil {
		return nil, err
	}
	return htmlToPDF(ctx, scriptBlocks.ReplaceAll(html, nil), m.Style.Margins)
}

// htmlToPDF shells out to wkhtmltopdf reading HTML from stdin and
// writing PDF to stdout.
func htmlToPDF(ctx context.Context, html []byte, margins map[string]string) ([]byte, error) {
	if _, err := exec.LookPath(pdfConverter); err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"pdf export requires %s. Install with:\n  macOS:  brew install wkhtmltopdf\n  Linux:  apt install wkhtmltopdf", pdfConverter)
	}

	args := []string{"--quiet", "--encoding", "utf-8"}
	for _, side := range []struct{ name, flag string }{
		{"top", "--margin-top"},
		{"right", "--margin-right"},
		{"bottom", "--margin-bottom"},
		{"left", "--margin-left"},
	} {
		if v, ok := margins[side.name]; ok && v != "" {
			args = append(args, side.flag, v)
		}
	}
	args = append(args, "-", "-")

	cmd := exec.CommandContext(ctx, pdfConverter, args...)
	cmd.Stdin = bytes.NewReader(html)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", pdfConverter, errBuf.String())
	}
	return out.Bytes(), nil
}
