package main

import (
	"fmt"
	"os"

	"github.com/jonathan/fit-engine/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one resume against one job posting",
	Long:  "Parses a resume and a job posting (plain text or HTML), scores their fit and writes the FitResult, gap report and LLM context as JSON.",
	RunE:  runScore,
}

var (
	scoreResume     string
	scoreJob        string
	scoreResumeID   string
	scoreJobID      string
	scoreMustHave   string
	scoreNiceToHave string
	scoreOutput     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to resume text or HTML file (required)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to job posting text or HTML file (required)")
	scoreCmd.Flags().StringVar(&scoreResumeID, "resume-id", "", "Resume ID (default: derived from content)")
	scoreCmd.Flags().StringVar(&scoreJobID, "job-id", "", "Job ID (default: derived from content)")
	scoreCmd.Flags().StringVar(&scoreMustHave, "must-have", "", "Comma-separated must-have skills; replaces inferred requirements")
	scoreCmd.Flags().StringVar(&scoreNiceToHave, "nice-to-have", "", "Comma-separated nice-to-have skills; replaces inferred requirements")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output JSON file (default: stdout)")

	if err := scoreCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, logger, cleanup, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	resumeText, err := readSource(scoreResume, logger)
	if err != nil {
		return err
	}
	jobText, err := readSource(scoreJob, logger)
	if err != nil {
		return err
	}

	resume, err := eng.ParseResume(scoreResumeID, resumeText)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}
	explicit := eng.Requirements(splitList(scoreMustHave), splitList(scoreNiceToHave))
	job, err := eng.ParseJob(scoreJobID, jobText, explicit)
	if err != nil {
		return fmt.Errorf("failed to parse job: %w", err)
	}

	match, err := eng.Score(ctx, resume, job)
	if err != nil {
		return fmt.Errorf("failed to score: %w", err)
	}

	logger.Info("scored",
		zap.String("resume_id", resume.ID),
		zap.String("job_id", job.ID),
		zap.Float64("fit_score", match.Result.FitScore),
		zap.String("fit_band", string(match.Result.FitBand)),
	)

	if rootVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintDocument(resume)
		printer.PrintDocument(job)
		printer.PrintFitResult(match.Result)
		printer.PrintGapReport(match.Gap)
	}

	return writeJSON(scoreOutput, match)
}
