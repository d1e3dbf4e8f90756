package generate

import (
	"fmt"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatPDF      = "pdf"
	FormatDOCX     = "docx"
	FormatMarkdown = "markdown"
)

// Formats lists every supported output format in canonical order.
func Formats() []string {
	return []string{FormatHTML, FormatPDF, FormatDOCX, FormatMarkdown}
}

var formatInfo = map[string]struct {
	contentType string
	extension   string
}{
	FormatHTML:     {"text/html", "html"},
	FormatPDF:      {"application/pdf", "pdf"},
	FormatDOCX:     {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"},
	FormatMarkdown: {"text/markdown", "markdown"},
}

// ValidateFormat returns UNSUPPORTED_OUTPUT_FORMAT for formats the
// generator cannot render.
func ValidateFormat(format string) error {
	if _, ok := formatInfo[format]; !ok {
		return errors.New(errors.ErrCodeUnsupportedOutput, "unsupported output format: %s", format)
	}
	return nil
}

// ContentType returns the MIME type for a supported format, or an
// octet-stream fallback.
func ContentType(format string) string {
	if info, ok := formatInfo[format]; ok {
		return info.contentType
	}
	return "application/octet-stream"
}

// ArtifactName returns the object name of a rendered artifact within
// the generated bucket.
func ArtifactName(documentID, format string) string {
	ext := format
	if info, ok := formatInfo[format]; ok {
		ext = info.extension
	}
	return fmt.Sprintf("%s/%s/document.%s", documentID, format, ext)
}
