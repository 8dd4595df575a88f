package ingestion

import (
	"regexp"
	"strings"
)

var (
	spaceRunRe     = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLineRunRe = regexp.MustCompile(`\n{3,}`)

	// Lines that carry no candidate or role information
	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bequal (?:employment )?opportunity employer\b`),
		regexp.MustCompile(`(?i)\ball rights reserved\b`),
		regexp.MustCompile(`(?i)^\s*(?:©|\(c\)|copyright)\s`),
		regexp.MustCompile(`(?i)^\s*(?:apply now|apply for this job|share this job|save job|back to jobs)\s*$`),
		regexp.MustCompile(`(?i)\b(?:privacy policy|cookie policy|terms of use)\b`),
		regexp.MustCompile(`(?i)^\s*(?:page \d+ of \d+|references available upon request)\s*$`),
	}
)

// CleanText normalizes line endings and whitespace while keeping the line structure
// that section headings and bullets depend on
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace runs; markdown headings and bullets lose their indentation
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	return spaceRunRe.ReplaceAllString(trimmed, " ")
}

// StripBoilerplate drops lines such as EEO statements, copyright notices and
// job-board navigation that would otherwise leak into skill extraction
func StripBoilerplate(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if isBoilerplate(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(blankLineRunRe.ReplaceAllString(strings.Join(kept, "\n"), "\n\n"))
}

func isBoilerplate(line string) bool {
	for _, re := range boilerplateRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// BulletCount returns the number of bullet lines, a rough signal of list-shaped sections
func BulletCount(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if isBulletLine(line) {
			n++
		}
	}
	return n
}
