package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n  - Item 2\n* Item 3"
	result := CleanText(input)

	assert.Equal(t, "- Item 1\n- Item 2\n* Item 3", result)
	assert.Equal(t, 3, BulletCount(result))
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	result := CleanText("Line    with \t multiple  spaces   ")
	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")
	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_EdgeCases(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n\t \n "))
	assert.Equal(t, CleanText("a  b\nc"), CleanText("a  b\nc"))
}

func TestStripBoilerplate(t *testing.T) {
	input := `Senior Data Engineer
Requirements:
- Python, SQL
Acme is an Equal Opportunity Employer.
© 2024 Acme Inc. All rights reserved.
Apply now
Read our Privacy Policy`

	result := StripBoilerplate(input)
	assert.Equal(t, "Senior Data Engineer\nRequirements:\n- Python, SQL", result)
}

func TestHTMLToText(t *testing.T) {
	html := `<!DOCTYPE html><html><head><style>.x{}</style></head><body>
<nav>Jobs | About</nav>
<div class="job-description">
  <h2>Requirements</h2>
  <ul><li>Python</li><li>SQL<br>and dbt</li></ul>
  <h2>Nice to have</h2><p>Kubernetes</p>
</div>
<footer>Cookie settings</footer>
<script>track()</script>
</body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.NotContains(t, text, "Jobs | About")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "Cookie")

	lines := strings.Split(text, "\n")
	assert.Contains(t, lines, "Requirements")
	assert.Contains(t, lines, "- Python")
	assert.Contains(t, lines, "- SQL")
	assert.Contains(t, lines, "and dbt")
	assert.Contains(t, lines, "Nice to have")
	assert.Contains(t, lines, "Kubernetes")
}

func TestPrepare_SniffsFormat(t *testing.T) {
	text, format, err := Prepare("<html><body><p>Go developer</p></body></html>", FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, format)
	assert.Equal(t, "Go developer", text)

	text, format, err = Prepare("Go  developer", FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)
	assert.Equal(t, "Go developer", text)

	_, _, err = Prepare("x", Format("pdf"))
	assert.Error(t, err)
}

func TestIngestFromFile_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Data  Analyst\r\nPython and SQL\n"), 0644))

	text, meta, err := IngestFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Data Analyst\nPython and SQL", text)
	assert.Equal(t, FormatText, meta.Format)
	assert.Equal(t, path, meta.Path)
	assert.Equal(t, ContentHash(text), meta.Hash)
	assert.Len(t, meta.Hash, 64)
	assert.NotEmpty(t, meta.Timestamp)

	data, err := meta.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "text"`)
}

func TestIngestFromFile_HTMLByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.html")
	require.NoError(t, os.WriteFile(path, []byte("<main><p>Rust engineer</p></main>"), 0644))

	text, meta, err := IngestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Rust engineer", text)
	assert.Equal(t, FormatHTML, meta.Format)
}

func TestIngestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := IngestFromFile(filepath.Join(dir, "missing.txt"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "file not found")

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n\n "), 0644))
	_, _, err = IngestFromFile(empty)
	require.True(t, errors.As(err, &loadErr))
}

func TestContentHash_Uniqueness(t *testing.T) {
	assert.Equal(t, ContentHash("a"), ContentHash("a"))
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
}
