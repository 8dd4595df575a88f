package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Format is the markup of a source document
type Format string

// Supported source formats
const (
	FormatAuto Format = ""
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Prepare converts raw content to clean plain text. FormatAuto sniffs for HTML.
func Prepare(content string, format Format) (string, Format, error) {
	if format == FormatAuto {
		format = FormatText
		if looksLikeHTML(content) {
			format = FormatHTML
		}
	}

	switch format {
	case FormatHTML:
		text, err := HTMLToText(content)
		if err != nil {
			return "", format, err
		}
		return StripBoilerplate(text), format, nil
	case FormatText:
		return StripBoilerplate(CleanText(content)), format, nil
	default:
		return "", format, errors.New("unsupported format " + string(format))
	}
}

// IngestFromFile reads a text or HTML file and returns cleaned text with metadata.
// The format is taken from the extension (.html, .htm) or sniffed from the content.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, &LoadError{Path: path, Message: "file not found", Cause: err}
		}
		return "", nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	format := FormatAuto
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		format = FormatHTML
	case ".txt", ".md":
		format = FormatText
	}

	text, format, err := Prepare(string(content), format)
	if err != nil {
		return "", nil, &LoadError{Path: path, Message: "failed to convert content", Cause: err}
	}
	if text == "" {
		return "", nil, &LoadError{Path: path, Message: "no text content"}
	}

	return text, NewMetadata(text, path, format), nil
}
