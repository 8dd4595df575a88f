package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/fit-engine/internal/config"
	"github.com/jonathan/fit-engine/internal/engine"
	"github.com/jonathan/fit-engine/internal/ingestion"
	"github.com/jonathan/fit-engine/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "fit_agent",
	Short:         "Fit scoring and skill-gap engine",
	Long:          "fit_agent extracts skills from resumes and job postings, scores how well they fit, and explains the gap as JSON ready for a language-model prompt.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootConfigPath string
	rootVerbose    bool
	rootDebug      bool
	rootJSONLog    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to a YAML, JSON or TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print human-readable reports to stderr")
	rootCmd.PersistentFlags().BoolVarP(&rootDebug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootJSONLog, "json-log", false, "Log as JSON")
}

// loadConfig reads the config file and applies logging flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}
	if rootDebug {
		cfg.Log.Debug = true
	}
	if rootJSONLog {
		cfg.Log.JSON = true
	}
	return cfg, nil
}

// newEngine builds the logger and engine for a command. The returned cleanup
// closes the engine and flushes the logger.
func newEngine(ctx context.Context) (*engine.Engine, *zap.Logger, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	eng, err := engine.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	cleanup := func() {
		eng.Close()
		_ = logger.Sync()
	}
	return eng, logger, cleanup, nil
}

// readSource ingests a resume or job file and logs its content hash
func readSource(path string, logger *zap.Logger) (string, error) {
	text, meta, err := ingestion.IngestFromFile(path)
	if err != nil {
		return "", err
	}
	logger.Debug("ingested source",
		zap.String("path", path),
		zap.String("format", string(meta.Format)),
		zap.String("hash", meta.Hash),
		zap.Int("bytes", meta.Bytes),
		zap.String("preview", logging.TruncateForLog(text, 60)),
	)
	return text, nil
}

// splitList parses a comma-separated flag value
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
