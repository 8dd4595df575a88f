// Package gap partitions a job's required skills against the skills found in a resume.
package gap

import (
	"sort"

	"github.com/jonathan/fit-engine/internal/types"
)

// Analyze splits required skills into matched, partial and missing.
// A required skill the resume shows exactly is matched; one it shows only through
// an approximate match is partial; anything else is missing with its tier weight.
// The three lists are disjoint and together cover every required skill.
// Importance weights rank the missing list only; they never affect the fit score.
func Analyze(resumeSkills []types.ExtractedSkill, required []types.Requirement) *types.GapReport {
	report := &types.GapReport{
		Matched: []string{},
		Partial: []types.PartialSkill{},
		Missing: []types.MissingSkill{},
	}

	found := make(map[string]types.ExtractedSkill, len(resumeSkills))
	for _, s := range resumeSkills {
		if prev, ok := found[s.Name]; !ok || s.Confidence > prev.Confidence {
			found[s.Name] = s
		}
	}

	for _, req := range dedupe(required) {
		skill, ok := found[req.Skill]
		switch {
		case ok && !skill.Approximate():
			report.Matched = append(report.Matched, req.Skill)
		case ok:
			report.Partial = append(report.Partial, types.PartialSkill{Name: req.Skill, Confidence: skill.Confidence})
		default:
			report.Missing = append(report.Missing, types.MissingSkill{
				Name:       req.Skill,
				Tier:       req.Importance,
				Importance: req.Importance.Weight(),
			})
		}
	}

	sort.Strings(report.Matched)
	sort.Slice(report.Partial, func(i, j int) bool { return report.Partial[i].Name < report.Partial[j].Name })
	sort.Slice(report.Missing, func(i, j int) bool {
		a, b := report.Missing[i], report.Missing[j]
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		return a.Name < b.Name
	})

	return report
}

// dedupe keeps one requirement per skill, preferring the must-have tier
func dedupe(required []types.Requirement) []types.Requirement {
	byName := make(map[string]int, len(required))
	out := make([]types.Requirement, 0, len(required))

	for _, req := range required {
		if req.Skill == "" {
			continue
		}
		if idx, ok := byName[req.Skill]; ok {
			if req.Importance == types.MustHave {
				out[idx].Importance = types.MustHave
			}
			continue
		}
		byName[req.Skill] = len(out)
		out = append(out, req)
	}
	return out
}
