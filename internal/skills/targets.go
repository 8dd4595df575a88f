// Package skills builds the tiered requirement list of a job from its extracted skills.
package skills

import (
	"sort"
	"strings"

	"github.com/jonathan/fit-engine/internal/types"
)

// Markers that open a nice-to-have region, either as a section heading
// ("Preferred Qualifications:") or inline on a single line ("Go is a plus").
var niceToHaveMarkers = []string{
	"nice to have", "nice-to-have", "good to have", "preferred", "bonus", "a plus", "desirable", "optional",
}

// Markers that open (or return to) a must-have section
var mustHaveMarkers = []string{
	"requirements", "required", "must have", "must-have", "qualifications", "what you need",
	"what you'll need", "responsibilities", "about you",
}

// Nouns that close a heading such as "Minimum Qualifications" or "Technical Skills"
var sectionNouns = []string{"qualifications", "requirements", "skills", "experience"}

// Bounds on what may count as a heading
const (
	maxHeadingLength = 60
	maxHeadingWords  = 4
)

// Canonicalizer resolves free-form skill names; *dictionary.Dictionary satisfies it
type Canonicalizer interface {
	Canonical(phrase string) (string, bool)
}

// region is a byte range of the job text with the tier it belongs to
type region struct {
	start, end int
	tier       types.Importance
}

// BuildRequirements tags every skill extracted from a job as must-have or nice-to-have.
// A skill is nice-to-have only when all of its evidence sits in nice-to-have regions;
// a skill mentioned anywhere else is must-have. The result is sorted must-have first, then by name.
func BuildRequirements(job *types.Document) []types.Requirement {
	if job == nil || len(job.Skills) == 0 {
		return []types.Requirement{}
	}

	regions := splitRegions(job.Text)
	reqMap := make(map[string]types.Importance, len(job.Skills))

	for _, skill := range job.Skills {
		tier := types.NiceToHave
		if len(skill.Spans) == 0 {
			tier = types.MustHave
		}
		for _, span := range skill.Spans {
			if tierAt(regions, span.Start) == types.MustHave {
				tier = types.MustHave
				break
			}
		}
		addOrUpdateRequirement(reqMap, skill.Name, tier)
	}

	return sortedRequirements(reqMap)
}

// FromLists builds requirements from explicit lists, resolving names through the dictionary.
// Names the dictionary does not know are kept verbatim so they surface as missing.
// A skill listed in both tiers is must-have.
func FromLists(mustHave, niceToHave []string, dict Canonicalizer) []types.Requirement {
	reqMap := make(map[string]types.Importance, len(mustHave)+len(niceToHave))

	add := func(names []string, tier types.Importance) {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if dict != nil {
				if canonical, ok := dict.Canonical(name); ok {
					name = canonical
				}
			}
			addOrUpdateRequirement(reqMap, name, tier)
		}
	}

	add(mustHave, types.MustHave)
	add(niceToHave, types.NiceToHave)

	return sortedRequirements(reqMap)
}

// Merge combines requirement lists with must-have priority
func Merge(lists ...[]types.Requirement) []types.Requirement {
	reqMap := make(map[string]types.Importance)
	for _, list := range lists {
		for _, req := range list {
			addOrUpdateRequirement(reqMap, req.Skill, req.Importance)
		}
	}
	return sortedRequirements(reqMap)
}

// addOrUpdateRequirement adds a skill or upgrades its tier, never downgrades
func addOrUpdateRequirement(reqMap map[string]types.Importance, skill string, tier types.Importance) {
	if existing, exists := reqMap[skill]; exists {
		if getTierPriority(tier) > getTierPriority(existing) {
			reqMap[skill] = tier
		}
		return
	}
	reqMap[skill] = tier
}

// getTierPriority returns a numeric priority for tiers.
// Higher numbers indicate higher priority.
func getTierPriority(tier types.Importance) int {
	switch tier {
	case types.MustHave:
		return 2
	case types.NiceToHave:
		return 1
	default:
		return 0
	}
}

func sortedRequirements(reqMap map[string]types.Importance) []types.Requirement {
	reqs := make([]types.Requirement, 0, len(reqMap))
	for name, tier := range reqMap {
		reqs = append(reqs, types.Requirement{Skill: name, Importance: tier})
	}
	sort.Slice(reqs, func(i, j int) bool {
		pi, pj := getTierPriority(reqs[i].Importance), getTierPriority(reqs[j].Importance)
		if pi != pj {
			return pi > pj
		}
		return reqs[i].Skill < reqs[j].Skill
	})
	return reqs
}

// splitRegions walks the text line by line and assigns each line a tier.
// Headings switch the tier for the lines that follow; inline markers affect only their own line.
func splitRegions(text string) []region {
	var regions []region
	section := types.MustHave
	offset := 0

	for _, line := range strings.SplitAfter(text, "\n") {
		start := offset
		offset += len(line)

		lower := strings.ToLower(strings.TrimSpace(line))
		if lower == "" {
			continue
		}

		if heading, ok := headingTier(lower); ok {
			section = heading
			regions = append(regions, region{start: start, end: offset, tier: heading})
			continue
		}
		if containsAny(lower, niceToHaveMarkers) {
			regions = append(regions, clauseRegions(line, start, section)...)
			continue
		}
		regions = append(regions, region{start: start, end: offset, tier: section})
	}
	return regions
}

// clauseRegions scopes inline markers to the clauses of one line, split on "," and ";".
// A clause without a marker takes the tier of the next marked clause ("Docker, Kubernetes are a plus"),
// or the section tier when none follows ("Go is required, Kubernetes is a plus").
func clauseRegions(line string, offset int, section types.Importance) []region {
	var clauses []region
	var marked []bool
	start := 0
	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != ',' && line[i] != ';' {
			continue
		}
		end := min(i+1, len(line))
		lower := strings.ToLower(line[start:end])

		c := region{start: offset + start, end: offset + end, tier: section}
		hasMarker := true
		switch {
		case containsAny(lower, niceToHaveMarkers):
			c.tier = types.NiceToHave
		case containsAny(lower, mustHaveMarkers):
			c.tier = types.MustHave
		default:
			hasMarker = false
		}
		clauses = append(clauses, c)
		marked = append(marked, hasMarker)
		start = end
	}

	next := section
	for i := len(clauses) - 1; i >= 0; i-- {
		if marked[i] {
			next = clauses[i].tier
			continue
		}
		clauses[i].tier = next
	}
	return clauses
}

// headingTier reports whether a lowercased line is a section heading and which tier it opens.
// A heading is the text before a colon, or a short line that starts with a marker
// ("preferred skills") or ends with a section noun ("minimum qualifications").
func headingTier(line string) (types.Importance, bool) {
	var head string
	if idx := strings.Index(line, ":"); idx >= 0 {
		head = strings.Trim(line[:idx], "#*-• \t")
		if head == "" || len(head) > maxHeadingLength {
			return "", false
		}
	} else {
		head = strings.Trim(line, "#*-• \t")
		words := strings.Fields(head)
		if len(words) == 0 || len(words) > maxHeadingWords || strings.ContainsAny(head, ".,;") {
			return "", false
		}
		if !hasAnyPrefix(head, niceToHaveMarkers) && !hasAnyPrefix(head, mustHaveMarkers) &&
			!hasAnySuffix(head, sectionNouns) {
			return "", false
		}
	}

	if containsAny(head, niceToHaveMarkers) {
		return types.NiceToHave, true
	}
	if containsAny(head, mustHaveMarkers) || hasAnySuffix(head, sectionNouns) {
		return types.MustHave, true
	}
	return "", false
}

func tierAt(regions []region, offset int) types.Importance {
	idx := sort.Search(len(regions), func(i int) bool { return regions[i].end > offset })
	if idx < len(regions) && regions[idx].start <= offset {
		return regions[idx].tier
	}
	return types.MustHave
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, markers []string) bool {
	for _, m := range markers {
		if strings.HasSuffix(s, m) {
			return true
		}
	}
	return false
}
