package main

import (
	"fmt"
	"os"

	"github.com/jonathan/fit-engine/internal/observability"
	"github.com/jonathan/fit-engine/internal/types"
	"github.com/spf13/cobra"
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Extract skills and experience from a resume or job posting",
	Long:  "Parses one document and writes its canonical skills with evidence spans, its experience profile and, for jobs, the must-have and nice-to-have requirements.",
	RunE:  runExtractSkills,
}

var (
	extractSkillsInput  string
	extractSkillsKind   string
	extractSkillsOutput string
)

// extraction is the extract-skills output; tokens and text are left out
type extraction struct {
	ID           string                   `json:"id"`
	Kind         types.DocumentKind       `json:"kind"`
	Skills       []types.ExtractedSkill   `json:"skills"`
	Evidence     map[string][]string      `json:"evidence"`
	Experience   *types.ExperienceProfile `json:"experience,omitempty"`
	Requirements []types.Requirement      `json:"requirements,omitempty"`
}

func init() {
	extractSkillsCmd.Flags().StringVarP(&extractSkillsInput, "in", "i", "", "Path to input text or HTML file (required)")
	extractSkillsCmd.Flags().StringVarP(&extractSkillsKind, "kind", "k", string(types.KindResume), "Document kind: resume or job")
	extractSkillsCmd.Flags().StringVarP(&extractSkillsOutput, "out", "o", "", "Path to output JSON file (default: stdout)")

	if err := extractSkillsCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkills(cmd *cobra.Command, _ []string) error {
	kind := types.DocumentKind(extractSkillsKind)
	if kind != types.KindResume && kind != types.KindJob {
		return fmt.Errorf("invalid --kind %q: must be resume or job", extractSkillsKind)
	}

	eng, logger, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	text, err := readSource(extractSkillsInput, logger)
	if err != nil {
		return err
	}

	var doc *types.Document
	if kind == types.KindJob {
		doc, err = eng.ParseJob("", text, nil)
	} else {
		doc, err = eng.ParseResume("", text)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", kind, err)
	}

	if rootVerbose {
		observability.NewPrinter(os.Stderr).PrintDocument(doc)
	}

	return writeJSON(extractSkillsOutput, newExtraction(doc))
}

// newExtraction resolves each skill's spans to the text they cover
func newExtraction(doc *types.Document) extraction {
	evidence := make(map[string][]string, len(doc.Skills))
	for _, s := range doc.Skills {
		for _, span := range s.Spans {
			evidence[s.Name] = append(evidence[s.Name], doc.Evidence(span))
		}
	}
	return extraction{
		ID:           doc.ID,
		Kind:         doc.Kind,
		Skills:       doc.Skills,
		Evidence:     evidence,
		Experience:   doc.Experience,
		Requirements: doc.Requirements,
	}
}
