package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/fit-engine/internal/observability"
	"github.com/jonathan/fit-engine/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchCmd = &cobra.Command{
	Use:   "batch [job files...]",
	Short: "Rank many job postings against one resume",
	Long:  "Scores one resume against every job file given as an argument or found in --jobs-dir, and writes the ranking as JSON. A job that fails is reported with its error and does not stop the batch.",
	RunE:  runBatch,
}

var (
	batchResume  string
	batchJobsDir string
	batchOutput  string
)

// batchEntry is one ranked job in the batch output
type batchEntry struct {
	Rank   int              `json:"rank,omitempty"`
	JobID  string           `json:"job_id"`
	Source string           `json:"source"`
	Result *types.FitResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func init() {
	batchCmd.Flags().StringVarP(&batchResume, "resume", "r", "", "Path to resume text or HTML file (required)")
	batchCmd.Flags().StringVar(&batchJobsDir, "jobs-dir", "", "Directory of job posting files (.txt, .md, .html)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Path to output JSON file (default: stdout)")

	if err := batchCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

// collectJobFiles merges explicit paths with the supported files of dir
func collectJobFiles(args []string, dir string) ([]string, error) {
	paths := append([]string{}, args...)
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read jobs directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".txt", ".md", ".html", ".htm":
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no job files given; pass paths or --jobs-dir")
	}
	return paths, nil
}

// jobIDFromPath names a job after its file
func jobIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	paths, err := collectJobFiles(args, batchJobsDir)
	if err != nil {
		return err
	}

	eng, logger, cleanup, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	resumeText, err := readSource(batchResume, logger)
	if err != nil {
		return err
	}
	resume, err := eng.ParseResume("", resumeText)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	// unreadable or empty jobs are reported in place rather than aborting the batch
	entries := make([]batchEntry, 0, len(paths))
	sourceByID := make(map[string]string, len(paths))
	var jobs []*types.Document
	for _, path := range paths {
		id := jobIDFromPath(path)
		text, err := readSource(path, logger)
		if err == nil {
			var job *types.Document
			if job, err = eng.ParseJob(id, text, nil); err == nil {
				jobs = append(jobs, job)
				sourceByID[id] = path
				continue
			}
		}
		logger.Warn("skipping job", zap.String("path", path), zap.Error(err))
		entries = append(entries, batchEntry{JobID: id, Source: path, Error: err.Error()})
	}

	results, err := eng.ScoreBatch(ctx, resume, jobs)
	if err != nil {
		return fmt.Errorf("failed to score batch: %w", err)
	}

	ranked := make([]batchEntry, 0, len(results)+len(entries))
	for _, r := range results {
		entry := batchEntry{JobID: r.JobID, Source: sourceByID[r.JobID]}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		} else {
			entry.Rank = len(ranked) + 1
			entry.Result = r.Match.Result
		}
		ranked = append(ranked, entry)
	}
	ranked = append(ranked, entries...)

	logger.Info("batch scored", zap.Int("jobs", len(paths)), zap.Int("failed", countFailed(ranked)))

	if rootVerbose {
		observability.NewPrinter(os.Stderr).PrintBatch(results)
	}

	return writeJSON(batchOutput, ranked)
}

func countFailed(entries []batchEntry) int {
	n := 0
	for _, e := range entries {
		if e.Error != "" {
			n++
		}
	}
	return n
}
