// Package experience extracts years-of-experience signals from resume and job text.
package experience

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/fit-engine/internal/types"
)

const (
	monthPattern = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`
	datePattern  = `(?:` + monthPattern + `\s+|(\d{1,2})/)?((?:19|20)\d{2})`
	yearsPattern = `(\d{1,2}(?:\.\d+)?)(?:\s*(?:-|–|—|to)\s*(\d{1,2}(?:\.\d+)?))?\s*\+?\s*(?:years?|yrs?)\b`
)

var (
	// "Jan 2019 – Present", "03/2017 - 08/2020", "2018 to 2022"
	dateRangeRe = regexp.MustCompile(`(?i)` + datePattern + `\s*(?:-|–|—|to|until)\s*(?:` + datePattern + `|(present|current|now|today))`)

	// "5+ years", "at least 3 years", "3-5 yrs"; the first number is the lower bound
	yearsRe = regexp.MustCompile(`(?i)\b` + yearsPattern)

	// a resume claim must be tied to the word experience: "7 years of backend experience"
	claimRe = regexp.MustCompile(`(?i)\b` + yearsPattern + `(?:\s+of)?(?:\s+[a-z0-9/.+#-]+){0,3}?\s+experience`)

	// "10 years ago", "5 years old" are not requirements
	notDurationRe = regexp.MustCompile(`(?i)^\s*(?:ago|old)\b`)

	// qualifiers that make a bare "N years" a requirement
	minimumPrefixRe   = regexp.MustCompile(`(?i)\b(?:at\s+least|minimum(?:\s+of)?|min\.?|no\s+less\s+than)\s*$`)
	requirementTailRe = regexp.MustCompile(`(?i)^(?:(?:\s+of)?(?:\s+[a-z0-9/.+#-]+){0,3}?\s+experience|\s+(?:required|minimum))\b`)
)

// Analyzer extracts experience profiles. "Present" in a date range resolves to the
// analyzer's reference time, so a fixed time gives reproducible results.
type Analyzer struct {
	now time.Time
}

// NewAnalyzer creates an Analyzer that resolves open-ended roles against now.
// A zero now means the current time at construction.
func NewAnalyzer(now time.Time) *Analyzer {
	if now.IsZero() {
		now = time.Now()
	}
	return &Analyzer{now: now.UTC()}
}

// monthIndex is a month counted from year 0, so differences give durations in months
type monthIndex int

func newMonthIndex(year, month int) monthIndex {
	return monthIndex(year*12 + month - 1)
}

func (m monthIndex) String() string {
	year, month := int(m)/12, int(m)%12+1
	return strconv.Itoa(year) + "-" + twoDigits(month)
}

type interval struct {
	start, end monthIndex
}

// AnalyzeResume collects roles from date ranges and explicit "N years of experience" claims.
// Total years is the larger of the merged role durations and the largest claim.
func (a *Analyzer) AnalyzeResume(text string) *types.ExperienceProfile {
	profile := &types.ExperienceProfile{Roles: []types.Role{}}

	var intervals []interval
	for _, m := range dateRangeRe.FindAllStringSubmatchIndex(text, -1) {
		start, end, ok := a.parseRange(text, m)
		if !ok {
			continue
		}
		// a named end month is worked through; year-only and "present" ends are not
		covered := end
		if m[14] < 0 && (m[8] >= 0 || m[10] >= 0) {
			covered++
		}
		intervals = append(intervals, interval{start: start, end: covered})

		endDate := end.String()
		if m[14] >= 0 {
			endDate = "present"
		}
		profile.Roles = append(profile.Roles, types.Role{
			Title:     roleTitle(text, m[0]),
			StartDate: start.String(),
			EndDate:   endDate,
			Years:     roundYears(float64(covered-start) / 12),
			Span:      types.Span{Start: m[0], End: m[1]},
		})
	}

	merged := float64(mergedMonths(intervals)) / 12

	claimed := 0.0
	for _, m := range claimRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > claimed {
			claimed = v
		}
	}

	profile.TotalYears = roundYears(math.Max(merged, claimed))
	return profile
}

// AnalyzeJob finds the minimum years a posting asks for: the largest lower bound
// among "N+ years", "at least N years", "N-M years" and "N years of experience" phrases.
// Other durations ("40 years of history") are ignored. MinYearsRequired stays nil
// when the posting states none.
func (a *Analyzer) AnalyzeJob(text string) *types.ExperienceProfile {
	profile := &types.ExperienceProfile{Roles: []types.Role{}}

	var minYears *float64
	for _, m := range yearsRe.FindAllStringSubmatchIndex(text, -1) {
		if notDurationRe.MatchString(text[m[1]:]) || !isRequirement(text, m) {
			continue
		}
		v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		if minYears == nil || v > *minYears {
			minYears = &v
		}
	}

	profile.MinYearsRequired = minYears
	return profile
}

// isRequirement reports whether a years match is phrased as a minimum: a plus sign,
// a range, a minimum qualifier before it, or experience wording after it
func isRequirement(text string, m []int) bool {
	if strings.Contains(text[m[0]:m[1]], "+") || m[4] >= 0 {
		return true
	}
	prefix := text[:m[0]]
	if len(prefix) > 32 {
		prefix = prefix[len(prefix)-32:]
	}
	return minimumPrefixRe.MatchString(prefix) || requirementTailRe.MatchString(text[m[1]:])
}

// parseRange converts a date-range match into month indexes; reversed ranges are rejected
func (a *Analyzer) parseRange(text string, m []int) (monthIndex, monthIndex, bool) {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}

	start, ok := toMonthIndex(group(1), group(2), group(3))
	if !ok {
		return 0, 0, false
	}

	var end monthIndex
	if group(7) != "" {
		end = newMonthIndex(a.now.Year(), int(a.now.Month()))
	} else if end, ok = toMonthIndex(group(4), group(5), group(6)); !ok {
		return 0, 0, false
	}

	if end < start {
		return 0, 0, false
	}
	return start, end, true
}

func toMonthIndex(monthName, monthNum, year string) (monthIndex, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}

	month := 1
	switch {
	case monthName != "":
		month = monthNumber(monthName)
	case monthNum != "":
		n, err := strconv.Atoi(monthNum)
		if err != nil || n < 1 || n > 12 {
			return 0, false
		}
		month = n
	}
	return newMonthIndex(y, month), true
}

var months = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

func monthNumber(name string) int {
	prefix := strings.ToLower(name)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for i, m := range months {
		if m == prefix {
			return i + 1
		}
	}
	return 1
}

// mergedMonths sums the months covered by intervals, counting overlaps once
func mergedMonths(intervals []interval) int {
	if len(intervals) == 0 {
		return 0
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

	total := 0
	cur := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.start <= cur.end {
			if iv.end > cur.end {
				cur.end = iv.end
			}
			continue
		}
		total += int(cur.end - cur.start)
		cur = iv
	}
	total += int(cur.end - cur.start)
	return total
}

// roleTitle is the text before the date range on its line, or the closest non-empty line above
func roleTitle(text string, matchStart int) string {
	lineStart := strings.LastIndex(text[:matchStart], "\n") + 1
	if title := cleanTitle(text[lineStart:matchStart]); title != "" {
		return title
	}

	lines := strings.Split(text[:lineStart], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if title := cleanTitle(lines[i]); title != "" {
			return title
		}
	}
	return ""
}

func cleanTitle(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "|,-–—@()•*:"))
}

func roundYears(v float64) float64 {
	return math.Round(v*10) / 10
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
